package memory

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type PostingRepository struct {
	store *Store
}

func NewPostingRepository(store *Store) *PostingRepository {
	return &PostingRepository{store: store}
}

func (r *PostingRepository) CreateAccountWithOpeningTransaction(ctx context.Context, account domain.Account, openingTxn *domain.Transaction) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	created, err := r.store.createAccountLocked(account)
	if err != nil {
		return domain.Account{}, err
	}
	if openingTxn != nil {
		r.store.transactions = append(r.store.transactions, *openingTxn)
	}
	return created, nil
}

func (r *PostingRepository) PostBalanceChange(ctx context.Context, account domain.Account, txns []domain.Transaction) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	updated, err := r.store.updateAccountLocked(account)
	if err != nil {
		return domain.Account{}, err
	}
	r.store.transactions = append(r.store.transactions, txns...)
	return updated, nil
}

func (r *PostingRepository) SaveAccrual(ctx context.Context, account domain.Account, accrual domain.InterestAccrual) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Check the version guard before writing anything so a stale account
	// does not leave an orphaned accrual behind.
	stored, ok := r.store.accounts[account.AccountID]
	if !ok {
		return domain.Account{}, &domain.NotFoundError{Entity: "Account", ID: account.AccountID}
	}
	if stored.Version != account.Version {
		return domain.Account{}, domain.ErrConcurrentModification
	}
	if _, err := r.store.createAccrualLocked(accrual); err != nil {
		return domain.Account{}, err
	}
	return r.store.updateAccountLocked(account)
}
