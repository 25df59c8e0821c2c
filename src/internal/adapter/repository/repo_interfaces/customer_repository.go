package repo_interfaces

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, customerID string) (domain.Customer, error)
	Exists(ctx context.Context, customerID string) (bool, error)
}
