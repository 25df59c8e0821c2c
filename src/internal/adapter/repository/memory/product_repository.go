package memory

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.productCodes[product.ProductCode]; exists {
		return domain.Product{}, domain.ErrConflict
	}
	r.store.products[product.ProductID] = product
	r.store.productCodes[product.ProductCode] = product.ProductID
	return product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[productID]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Entity: "Product", ID: productID}
	}
	return product, nil
}

func (r *ProductRepository) GetByCode(ctx context.Context, productCode string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.productCodes[productCode]
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Entity: "Product", ID: productCode}
	}
	return r.store.products[id], nil
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []domain.Product
	for _, product := range r.store.products {
		if product.IsActive() {
			out = append(out, product)
		}
	}
	return out, nil
}
