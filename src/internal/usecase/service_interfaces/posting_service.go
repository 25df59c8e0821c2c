package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type OpenAccountRequest struct {
	CustomerID     string
	ProductID      string
	OpeningBalance decimal.Decimal
	Channel        string
	CreatedBy      *string
}

type PostingRequest struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Reference   *string
	Channel     string
	CreatedBy   *string
}

// PostingService is the write surface of the ledger. Every operation loads
// state, applies the domain rules and commits through the posting repository
// in a single durable transaction.
type PostingService interface {
	OpenAccount(ctx context.Context, req OpenAccountRequest) (domain.Account, error)
	// Credit deposits funds and returns the updated account and the posted
	// transaction.
	Credit(ctx context.Context, req PostingRequest) (domain.Account, domain.Transaction, error)
	// Debit withdraws funds. When the account's product carries a
	// transaction fee the fee is posted as a second transaction in the same
	// commit, and the combined amount must be covered up front.
	Debit(ctx context.Context, req PostingRequest) (domain.Account, []domain.Transaction, error)
	// CloseAccount closes a zero-balance account.
	CloseAccount(ctx context.Context, accountID string) (domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (domain.Account, error)
	// ListTransactions returns the account's postings newest first. A limit
	// of 0 applies the service default.
	ListTransactions(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
}
