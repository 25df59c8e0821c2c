package memory

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.createAccountLocked(account)
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[accountID]
	if !ok {
		return domain.Account{}, &domain.NotFoundError{Entity: "Account", ID: accountID}
	}
	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.accountNumbers[accountNumber]
	if !ok {
		return domain.Account{}, &domain.NotFoundError{Entity: "Account", ID: accountNumber}
	}
	return r.store.accounts[id], nil
}

func (r *AccountRepository) ListActive(ctx context.Context) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []domain.Account
	for _, account := range r.store.accounts {
		if account.IsActive() {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *AccountRepository) FindByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []domain.Account
	for _, account := range r.store.accounts {
		if account.CustomerID == customerID {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.updateAccountLocked(account)
}

func (r *AccountRepository) NextAccountSequence(ctx context.Context) (int64, error) {
	return r.store.accountSeq.Add(1), nil
}
