package repo_interfaces

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type AccountRepository interface {
	// Create persists a new account. Duplicate account numbers surface as
	// domain.ErrConflict.
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, accountID string) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	ListActive(ctx context.Context) ([]domain.Account, error)
	FindByCustomer(ctx context.Context, customerID string) ([]domain.Account, error)
	// Update replaces the account's mutable fields. It fails with a
	// domain.NotFoundError when no row matches the id, and with
	// domain.ErrConcurrentModification when the stored version has moved on
	// since the account was loaded.
	Update(ctx context.Context, account domain.Account) (domain.Account, error)
	// NextAccountSequence returns the next value of the storage-level
	// account-number sequence.
	NextAccountSequence(ctx context.Context) (int64, error)
}
