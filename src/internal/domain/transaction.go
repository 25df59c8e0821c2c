package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "Debit"
	TransactionTypeCredit TransactionType = "Credit"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case string(TransactionTypeDebit):
		return TransactionTypeDebit, nil
	case string(TransactionTypeCredit):
		return TransactionTypeCredit, nil
	default:
		return "", NewValidationError("invalid transaction type: %s", s)
	}
}

type TransactionCategory string

const (
	CategoryDeposit    TransactionCategory = "Deposit"
	CategoryWithdrawal TransactionCategory = "Withdrawal"
	CategoryFee        TransactionCategory = "Fee"
	CategoryInterest   TransactionCategory = "Interest"
	CategoryOpening    TransactionCategory = "Opening"
)

func ParseTransactionCategory(s string) (TransactionCategory, error) {
	switch s {
	case string(CategoryDeposit), string(CategoryWithdrawal), string(CategoryFee), string(CategoryInterest), string(CategoryOpening):
		return TransactionCategory(s), nil
	default:
		return "", NewValidationError("invalid transaction category: %s", s)
	}
}

// TransactionStatusPosted is the only status the core produces today; the
// column stays a string for forward compatibility.
const TransactionStatusPosted = "Posted"

// Transaction is an immutable posting record. RunningBalance captures the
// account balance immediately after the mutation it reflects; rows are never
// updated or deleted.
type Transaction struct {
	TransactionID   string
	AccountID       string
	TransactionDate time.Time
	ValueDate       time.Time
	Type            TransactionType
	Category        TransactionCategory
	Amount          decimal.Decimal
	Currency        string
	RunningBalance  decimal.Decimal
	Description     string
	Reference       *string
	Channel         string
	Status          string
	CreatedAt       time.Time
	CreatedBy       *string
}

func NewTransaction(
	accountID string,
	txnType TransactionType,
	category TransactionCategory,
	amount decimal.Decimal,
	currency string,
	runningBalance decimal.Decimal,
	description string,
	reference *string,
	channel string,
	createdBy *string,
) (Transaction, error) {
	if strings.TrimSpace(accountID) == "" {
		return Transaction{}, NewValidationError("account id cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Transaction{}, NewValidationError("transaction amount must be positive")
	}
	if len(currency) != 3 {
		return Transaction{}, NewValidationError("currency code must be exactly 3 characters, got: %s", currency)
	}
	if runningBalance.IsNegative() {
		return Transaction{}, NewValidationError("running balance cannot be negative")
	}
	if strings.TrimSpace(description) == "" {
		return Transaction{}, NewValidationError("description cannot be empty")
	}

	now := time.Now().UTC()
	return Transaction{
		TransactionID:   "TXN-" + uuid.NewString(),
		AccountID:       accountID,
		TransactionDate: now,
		ValueDate:       truncateToDate(now),
		Type:            txnType,
		Category:        category,
		Amount:          amount,
		Currency:        currency,
		RunningBalance:  runningBalance,
		Description:     description,
		Reference:       reference,
		Channel:         channel,
		Status:          TransactionStatusPosted,
		CreatedAt:       now,
		CreatedBy:       createdBy,
	}, nil
}

func (t *Transaction) IsDebit() bool {
	return t.Type == TransactionTypeDebit
}

func (t *Transaction) IsCredit() bool {
	return t.Type == TransactionTypeCredit
}

func (t *Transaction) IsFee() bool {
	return t.Category == CategoryFee
}

func (t *Transaction) IsInterest() bool {
	return t.Category == CategoryInterest
}
