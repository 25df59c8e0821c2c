package repo_interfaces

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type TransactionRepository interface {
	// Create appends a posting record. Transactions are immutable; there is
	// no update or delete.
	Create(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
	GetByID(ctx context.Context, transactionID string) (domain.Transaction, error)
	// FindByAccount returns the account's postings newest first, capped at
	// limit when limit > 0.
	FindByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
	FindByReference(ctx context.Context, reference string) ([]domain.Transaction, error)
}
