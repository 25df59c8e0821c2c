package service_interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccrualSummary reports one interest cycle run.
type AccrualSummary struct {
	AsOf         time.Time
	Considered   int
	Accrued      int
	Skipped      int
	Failed       int
	TotalAccrued decimal.Decimal
}

// PostingSummary reports one interest posting run.
type PostingSummary struct {
	AsOf        time.Time
	Considered  int
	Posted      int
	Failed      int
	TotalPosted decimal.Decimal
}

// InterestService runs the daily interest batch. Accrual is idempotent per
// account and date; re-running a cycle skips accounts already accrued.
type InterestService interface {
	RunInterestCycle(ctx context.Context, asOf time.Time) (AccrualSummary, error)
	// PostAccruedInterest credits each account's accumulated accrued
	// interest as an Interest transaction and resets the accrued bucket.
	PostAccruedInterest(ctx context.Context, asOf time.Time) (PostingSummary, error)
}
