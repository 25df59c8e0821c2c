package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	logger.Info("customer repository create", logger.Fields{
		"customerId": customer.CustomerID,
	})

	const query = `
INSERT INTO customers (
	customer_id,
	customer_name,
	status,
	email,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		customer.CustomerID,
		customer.CustomerName,
		string(customer.Status),
		nullString(customer.Email),
		customer.CreatedAt,
		customer.UpdatedAt,
	); err != nil {
		logger.Error("customer repository create failed", err, logger.Fields{
			"customerId": customer.CustomerID,
		})
		return domain.Customer{}, storageOrConflict("create customer", err)
	}

	return customer, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID string) (domain.Customer, error) {
	const query = `
SELECT customer_id, customer_name, status, email, created_at, updated_at
FROM customers
WHERE customer_id = $1`

	var customer domain.Customer
	var status string
	var email sql.NullString

	if err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&customer.CustomerID,
		&customer.CustomerName,
		&status,
		&email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, &domain.NotFoundError{Entity: "Customer", ID: customerID}
		}
		return domain.Customer{}, &domain.StorageError{Op: "get customer by id", Err: err}
	}

	parsed, err := domain.ParseCustomerStatus(status)
	if err != nil {
		return domain.Customer{}, err
	}
	customer.Status = parsed

	if email.Valid {
		s := email.String
		customer.Email = &s
	}

	return customer, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, customerID string) (bool, error) {
	const query = `SELECT 1 FROM customers WHERE customer_id = $1 LIMIT 1`

	var one int
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "customer exists", Err: err}
	}

	return true, nil
}
