package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "Active"
	AccountStatusClosed AccountStatus = "Closed"
)

func ParseAccountStatus(s string) (AccountStatus, error) {
	switch s {
	case string(AccountStatusActive):
		return AccountStatusActive, nil
	case string(AccountStatusClosed):
		return AccountStatusClosed, nil
	default:
		return "", NewValidationError("invalid account status: %s", s)
	}
}

// Account is a customer deposit account. Balance and InterestAccrued are
// exact decimals and never go negative. Version guards the load-mutate-persist
// cycle: the repository refuses an update whose version no longer matches.
type Account struct {
	AccountID       string
	AccountNumber   string
	CustomerID      string
	ProductID       string
	Currency        string
	Status          AccountStatus
	Balance         decimal.Decimal
	InterestAccrued decimal.Decimal
	OpeningDate     time.Time
	ClosingDate     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       *string
	Version         int64
}

func NewAccount(accountNumber, customerID, productID, currency string, openingBalance decimal.Decimal, createdBy *string) (Account, error) {
	if strings.TrimSpace(accountNumber) == "" {
		return Account{}, NewValidationError("account number cannot be empty")
	}
	if strings.TrimSpace(customerID) == "" {
		return Account{}, NewValidationError("customer id cannot be empty")
	}
	if strings.TrimSpace(productID) == "" {
		return Account{}, NewValidationError("product id cannot be empty")
	}
	if err := validateCurrencyCode(currency); err != nil {
		return Account{}, err
	}
	if openingBalance.IsNegative() {
		return Account{}, NewValidationError("opening balance cannot be negative")
	}

	now := time.Now().UTC()
	return Account{
		AccountID:       "ACC-" + uuid.NewString(),
		AccountNumber:   accountNumber,
		CustomerID:      customerID,
		ProductID:       productID,
		Currency:        currency,
		Status:          AccountStatusActive,
		Balance:         openingBalance,
		InterestAccrued: decimal.Zero,
		OpeningDate:     truncateToDate(now),
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       createdBy,
		Version:         1,
	}, nil
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

func (a *Account) IsClosed() bool {
	return a.Status == AccountStatusClosed
}

// Credit increases the balance. Closed accounts reject credits the same way
// they reject debits.
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("credit amount must be positive")
	}
	if !a.IsActive() {
		return ErrAccountNotActive
	}

	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Debit decreases the balance, failing closed when funds are short.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("debit amount must be positive")
	}
	if !a.IsActive() {
		return ErrAccountNotActive
	}
	if a.Balance.LessThan(amount) {
		return &InsufficientBalanceError{Available: a.Balance, Required: amount}
	}

	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Close marks the account Closed. Only a zero-balance active account can be
// closed, and closing is irreversible.
func (a *Account) Close() error {
	if !a.Balance.IsZero() {
		return NewBusinessRuleError("cannot close account with non-zero balance: %s", a.Balance.StringFixed(2))
	}
	if a.IsClosed() {
		return NewBusinessRuleError("account is already closed")
	}

	now := time.Now().UTC()
	closing := truncateToDate(now)
	a.Status = AccountStatusClosed
	a.ClosingDate = &closing
	a.UpdatedAt = now
	return nil
}

// AccrueInterest adds computed-but-unposted interest. Zero is a valid no-op.
func (a *Account) AccrueInterest(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewValidationError("interest amount cannot be negative")
	}

	a.InterestAccrued = a.InterestAccrued.Add(amount)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// PostInterest moves the accrued interest into the balance, resets the
// accrual and returns the amount posted. Posting nothing returns zero.
func (a *Account) PostInterest() decimal.Decimal {
	posted := a.InterestAccrued
	if posted.IsPositive() {
		a.Balance = a.Balance.Add(posted)
		a.InterestAccrued = decimal.Zero
		a.UpdatedAt = time.Now().UTC()
	}
	return posted
}

func (a *Account) HasSufficientBalance(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

func validateCurrencyCode(code string) error {
	if len(code) != 3 {
		return NewValidationError("currency code must be exactly 3 characters, got: %s", code)
	}
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			return NewValidationError("currency code must be uppercase letters, got: %s", code)
		}
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
