package memory

import (
	"context"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type CustomerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.customers[customer.CustomerID]; exists {
		return domain.Customer{}, domain.ErrConflict
	}
	r.store.customers[customer.CustomerID] = customer
	return customer, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID string) (domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	customer, ok := r.store.customers[customerID]
	if !ok {
		return domain.Customer{}, &domain.NotFoundError{Entity: "Customer", ID: customerID}
	}
	return customer, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, customerID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.customers[customerID]
	return ok, nil
}
