package repo_interfaces

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, productID string) (domain.Product, error)
	GetByCode(ctx context.Context, productCode string) (domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
}
