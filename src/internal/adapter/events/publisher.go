// Package events defines the posting event contract. Events are emitted
// after a posting has committed; delivery is best effort and never fails the
// originating operation.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PostingEvent describes one committed ledger transaction.
type PostingEvent struct {
	TransactionID  string          `json:"transaction_id"`
	AccountID      string          `json:"account_id"`
	AccountNumber  string          `json:"account_number"`
	Type           string          `json:"transaction_type"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	Channel        string          `json:"channel"`
	PostedAt       time.Time       `json:"posted_at"`
}

type Publisher interface {
	PublishPosting(ctx context.Context, event PostingEvent) error
}

// NoopPublisher drops every event. Used when eventing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishPosting(ctx context.Context, event PostingEvent) error {
	return nil
}
