package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InterestAccrual records one day of computed interest for one account:
// the balance snapshot and rate that produced it, and the running accrual
// total after it was applied. One record exists per account per accrual date.
type InterestAccrual struct {
	AccrualID         string
	AccountID         string
	AccrualDate       time.Time
	Balance           decimal.Decimal
	AnnualRate        decimal.Decimal
	DailyInterest     decimal.Decimal
	CumulativeAccrued decimal.Decimal
	CreatedAt         time.Time
}

func NewInterestAccrual(
	accountID string,
	accrualDate time.Time,
	balance decimal.Decimal,
	annualRate decimal.Decimal,
	dailyInterest decimal.Decimal,
	cumulativeAccrued decimal.Decimal,
) (InterestAccrual, error) {
	if strings.TrimSpace(accountID) == "" {
		return InterestAccrual{}, NewValidationError("account id cannot be empty")
	}
	if balance.IsNegative() {
		return InterestAccrual{}, NewValidationError("balance cannot be negative")
	}
	if annualRate.IsNegative() || annualRate.GreaterThan(decimal.NewFromInt(1)) {
		return InterestAccrual{}, NewValidationError("annual rate must be between 0 and 1, got: %s", annualRate)
	}
	if dailyInterest.IsNegative() {
		return InterestAccrual{}, NewValidationError("daily interest cannot be negative")
	}
	if cumulativeAccrued.IsNegative() {
		return InterestAccrual{}, NewValidationError("cumulative accrued cannot be negative")
	}

	return InterestAccrual{
		AccrualID:         "ACCR-" + uuid.NewString(),
		AccountID:         accountID,
		AccrualDate:       truncateToDate(accrualDate),
		Balance:           balance,
		AnnualRate:        annualRate,
		DailyInterest:     dailyInterest,
		CumulativeAccrued: cumulativeAccrued,
		CreatedAt:         time.Now().UTC(),
	}, nil
}
