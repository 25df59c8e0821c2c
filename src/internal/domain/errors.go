package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrAccountNotActive = errors.New("account is not active")
var ErrConflict = errors.New("record already exists")
var ErrConcurrentModification = errors.New("account was modified concurrently")

// ValidationError reports malformed input the caller can correct.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// BusinessRuleError reports an operation the current entity state forbids,
// such as closing a funded account.
type BusinessRuleError struct {
	Msg string
}

func (e *BusinessRuleError) Error() string {
	return "business rule violation: " + e.Msg
}

func NewBusinessRuleError(format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Msg: fmt.Sprintf(format, args...)}
}

type InsufficientBalanceError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, required %s",
		e.Available.StringFixed(2), e.Required.StringFixed(2))
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Entity, e.ID)
}

// StorageError wraps a driver or connection failure. It is fatal to the
// operation and never retried by the ledger core.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
