package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

func TestDailyInterest(t *testing.T) {
	cases := []struct {
		name    string
		balance string
		rate    string
		want    string // after rounding to currency precision
	}{
		{"savings rate", "1000.00", "0.025", "0.07"},
		{"premium rate", "10000.00", "0.04", "1.10"},
		{"zero rate", "1000.00", "0", "0.00"},
		{"zero balance", "0", "0.05", "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := domain.DailyInterest(decimal.RequireFromString(tc.balance), decimal.RequireFromString(tc.rate))
			if err != nil {
				t.Fatalf("daily interest: %v", err)
			}
			got := domain.RoundCurrency(raw)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDailyInterestRejectsInvalidInput(t *testing.T) {
	if _, err := domain.DailyInterest(decimal.RequireFromString("-1"), decimal.RequireFromString("0.05")); err == nil {
		t.Fatal("expected error for negative balance")
	}
	if _, err := domain.DailyInterest(decimal.RequireFromString("100"), decimal.RequireFromString("1.5")); err == nil {
		t.Fatal("expected error for rate above 1")
	}
	if _, err := domain.DailyInterest(decimal.RequireFromString("100"), decimal.RequireFromString("-0.01")); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestRoundCurrencyHalfAwayFromZero(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0.005", "0.01"},
		{"2.675", "2.68"},
		{"-0.005", "-0.01"},
		{"1.004", "1.00"},
	}

	for _, tc := range cases {
		got := domain.RoundCurrency(decimal.RequireFromString(tc.in))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("RoundCurrency(%s): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}
