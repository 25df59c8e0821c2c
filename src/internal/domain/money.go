package domain

import (
	"github.com/shopspring/decimal"
)

var daysInYear = decimal.NewFromInt(365)

// RoundCurrency rounds a monetary value to 2 decimal places, half away
// from zero.
func RoundCurrency(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// FormatCurrency renders a value as "CCY 12.34" for log and summary output.
func FormatCurrency(value decimal.Decimal, currency string) string {
	return currency + " " + value.StringFixed(2)
}

// DailyInterest computes one day of interest on a balance at an annual rate
// using the Actual/365 day count convention: (balance * rate) / 365.
// The result is unrounded; callers round at posting time.
func DailyInterest(balance decimal.Decimal, annualRate decimal.Decimal) (decimal.Decimal, error) {
	if balance.IsNegative() {
		return decimal.Zero, NewValidationError("balance cannot be negative: %s", balance)
	}
	if annualRate.IsNegative() || annualRate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, NewValidationError("annual rate must be between 0 and 1, got: %s", annualRate)
	}

	return balance.Mul(annualRate).Div(daysInYear), nil
}
