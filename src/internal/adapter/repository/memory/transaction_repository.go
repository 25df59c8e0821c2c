package memory

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Create(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.transactions = append(r.store.transactions, txn)
	return txn, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, txn := range r.store.transactions {
		if txn.TransactionID == transactionID {
			return txn, nil
		}
	}
	return domain.Transaction{}, &domain.NotFoundError{Entity: "Transaction", ID: transactionID}
}

func (r *TransactionRepository) FindByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []domain.Transaction
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		if r.store.transactions[i].AccountID != accountID {
			continue
		}
		out = append(out, r.store.transactions[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []domain.Transaction
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		txn := r.store.transactions[i]
		if txn.Reference != nil && *txn.Reference == reference {
			out = append(out, txn)
		}
	}
	return out, nil
}
