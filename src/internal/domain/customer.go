package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "Active"
	CustomerStatusInactive CustomerStatus = "Inactive"
)

func ParseCustomerStatus(s string) (CustomerStatus, error) {
	switch s {
	case string(CustomerStatusActive):
		return CustomerStatusActive, nil
	case string(CustomerStatusInactive):
		return CustomerStatusInactive, nil
	default:
		return "", NewValidationError("invalid customer status: %s", s)
	}
}

// Customer carries only what account opening needs: identity and an
// active/inactive flag. Master-data management lives elsewhere.
type Customer struct {
	CustomerID   string
	CustomerName string
	Status       CustomerStatus
	Email        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewCustomer(customerName string, email *string) (Customer, error) {
	if strings.TrimSpace(customerName) == "" {
		return Customer{}, NewValidationError("customer name cannot be empty")
	}
	if email != nil && !strings.Contains(*email, "@") {
		return Customer{}, NewValidationError("email must contain @")
	}

	now := time.Now().UTC()
	return Customer{
		CustomerID:   "CUST-" + uuid.NewString(),
		CustomerName: customerName,
		Status:       CustomerStatusActive,
		Email:        email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
