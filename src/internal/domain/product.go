package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "Active"
	ProductStatusInactive ProductStatus = "Inactive"
)

func ParseProductStatus(s string) (ProductStatus, error) {
	switch s {
	case string(ProductStatusActive):
		return ProductStatusActive, nil
	case string(ProductStatusInactive):
		return ProductStatusInactive, nil
	default:
		return "", NewValidationError("invalid product status: %s", s)
	}
}

// Product supplies the interest and fee parameters the posting service
// consults at operation time. The ledger core reads products, never writes
// back to them.
type Product struct {
	ProductID                 string
	ProductName               string
	ProductCode               string
	Description               *string
	Status                    ProductStatus
	Currency                  string
	InterestRate              decimal.Decimal
	MinimumBalanceForInterest decimal.Decimal
	MonthlyMaintenanceFee     decimal.Decimal
	TransactionFee            decimal.Decimal
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
	CreatedBy                 *string
}

func NewProduct(
	productName string,
	productCode string,
	description *string,
	currency string,
	interestRate decimal.Decimal,
	minimumBalanceForInterest decimal.Decimal,
	monthlyMaintenanceFee decimal.Decimal,
	transactionFee decimal.Decimal,
	createdBy *string,
) (Product, error) {
	if strings.TrimSpace(productName) == "" {
		return Product{}, NewValidationError("product name cannot be empty")
	}
	if strings.TrimSpace(productCode) == "" {
		return Product{}, NewValidationError("product code cannot be empty")
	}
	if err := validateCurrencyCode(currency); err != nil {
		return Product{}, err
	}
	if interestRate.IsNegative() || interestRate.GreaterThan(decimal.NewFromInt(1)) {
		return Product{}, NewValidationError("interest rate must be between 0 and 1, got: %s", interestRate)
	}
	if minimumBalanceForInterest.IsNegative() {
		return Product{}, NewValidationError("minimum balance for interest cannot be negative")
	}
	if monthlyMaintenanceFee.IsNegative() {
		return Product{}, NewValidationError("monthly maintenance fee cannot be negative")
	}
	if transactionFee.IsNegative() {
		return Product{}, NewValidationError("transaction fee cannot be negative")
	}

	now := time.Now().UTC()
	return Product{
		ProductID:                 "PROD-" + uuid.NewString(),
		ProductName:               productName,
		ProductCode:               productCode,
		Description:               description,
		Status:                    ProductStatusActive,
		Currency:                  currency,
		InterestRate:              interestRate,
		MinimumBalanceForInterest: minimumBalanceForInterest,
		MonthlyMaintenanceFee:     monthlyMaintenanceFee,
		TransactionFee:            transactionFee,
		CreatedAt:                 now,
		UpdatedAt:                 now,
		CreatedBy:                 createdBy,
	}, nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// PaysInterest reports whether the product can generate interest accruals
// for a given balance.
func (p *Product) PaysInterest(balance decimal.Decimal) bool {
	return p.IsActive() &&
		p.InterestRate.IsPositive() &&
		balance.GreaterThanOrEqual(p.MinimumBalanceForInterest)
}
