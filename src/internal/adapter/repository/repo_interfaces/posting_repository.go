package repo_interfaces

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

// PostingRepository is the durable transaction boundary of the ledger: every
// balance change and the posting records that explain it commit together or
// not at all.
type PostingRepository interface {
	// CreateAccountWithOpeningTransaction persists a new account and, when
	// openingTxn is non-nil, its Credit/Opening transaction in one database
	// transaction.
	CreateAccountWithOpeningTransaction(ctx context.Context, account domain.Account, openingTxn *domain.Transaction) (domain.Account, error)

	// PostBalanceChange writes the account's mutable fields guarded by its
	// loaded version and appends the given transactions atomically. An empty
	// transaction list is a valid status-only change (account closure).
	// Fails with domain.ErrConcurrentModification when the stored version no
	// longer matches.
	PostBalanceChange(ctx context.Context, account domain.Account, txns []domain.Transaction) (domain.Account, error)

	// SaveAccrual updates the account's accrued interest and inserts the
	// accrual record in one database transaction.
	SaveAccrual(ctx context.Context, account domain.Account, accrual domain.InterestAccrual) (domain.Account, error)
}
