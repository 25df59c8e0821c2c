package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
)

const productColumns = `product_id, product_name, product_code, description, status, currency,
	interest_rate, minimum_balance_for_interest, monthly_maintenance_fee, transaction_fee,
	created_at, updated_at, created_by`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	logger.Info("product repository create", logger.Fields{
		"productId":   product.ProductID,
		"productCode": product.ProductCode,
	})

	const query = `
INSERT INTO products (
	product_id,
	product_name,
	product_code,
	description,
	status,
	currency,
	interest_rate,
	minimum_balance_for_interest,
	monthly_maintenance_fee,
	transaction_fee,
	created_at,
	updated_at,
	created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		product.ProductID,
		product.ProductName,
		product.ProductCode,
		nullString(product.Description),
		string(product.Status),
		product.Currency,
		product.InterestRate,
		product.MinimumBalanceForInterest,
		product.MonthlyMaintenanceFee,
		product.TransactionFee,
		product.CreatedAt,
		product.UpdatedAt,
		nullString(product.CreatedBy),
	); err != nil {
		logger.Error("product repository create failed", err, logger.Fields{
			"productCode": product.ProductCode,
		})
		return domain.Product{}, storageOrConflict("create product", err)
	}

	return product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID string) (domain.Product, error) {
	const query = `
SELECT ` + productColumns + `
FROM products
WHERE product_id = $1`

	return r.getOne(ctx, query, productID)
}

func (r *ProductRepository) GetByCode(ctx context.Context, productCode string) (domain.Product, error) {
	const query = `
SELECT ` + productColumns + `
FROM products
WHERE product_code = $1`

	return r.getOne(ctx, query, productCode)
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	const query = `
SELECT ` + productColumns + `
FROM products
WHERE status = 'Active'
ORDER BY product_code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("product repository list active failed", err, nil)
		return nil, &domain.StorageError{Op: "list active products", Err: err}
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "list active products", Err: err}
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list active products", Err: err}
	}

	return products, nil
}

func (r *ProductRepository) getOne(ctx context.Context, query string, key string) (domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, &domain.NotFoundError{Entity: "Product", ID: key}
		}
		return domain.Product{}, &domain.StorageError{Op: "get product", Err: err}
	}

	return product, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	var status string
	var description, createdBy sql.NullString

	if err := row.Scan(
		&product.ProductID,
		&product.ProductName,
		&product.ProductCode,
		&description,
		&status,
		&product.Currency,
		&product.InterestRate,
		&product.MinimumBalanceForInterest,
		&product.MonthlyMaintenanceFee,
		&product.TransactionFee,
		&product.CreatedAt,
		&product.UpdatedAt,
		&createdBy,
	); err != nil {
		return domain.Product{}, err
	}

	parsed, err := domain.ParseProductStatus(status)
	if err != nil {
		return domain.Product{}, err
	}
	product.Status = parsed

	if description.Valid {
		s := description.String
		product.Description = &s
	}
	if createdBy.Valid {
		s := createdBy.String
		product.CreatedBy = &s
	}

	return product, nil
}
