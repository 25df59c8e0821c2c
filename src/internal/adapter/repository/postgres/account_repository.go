package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
)

const accountColumns = `account_id, account_number, customer_id, product_id, currency, status,
	balance, interest_accrued, opening_date, closing_date, created_at, updated_at, created_by, version`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId":     account.AccountID,
		"accountNumber": account.AccountNumber,
		"customerId":    account.CustomerID,
	})

	const query = `
INSERT INTO accounts (
	account_id,
	account_number,
	customer_id,
	product_id,
	currency,
	status,
	balance,
	interest_accrued,
	opening_date,
	closing_date,
	created_at,
	updated_at,
	created_by,
	version
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		account.AccountID,
		account.AccountNumber,
		account.CustomerID,
		account.ProductID,
		account.Currency,
		string(account.Status),
		account.Balance,
		account.InterestAccrued,
		account.OpeningDate,
		nullTime(account.ClosingDate),
		account.CreatedAt,
		account.UpdatedAt,
		nullString(account.CreatedBy),
		account.Version,
	); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"accountId": account.AccountID,
		})
		return domain.Account{}, storageOrConflict("create account", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, &domain.NotFoundError{Entity: "Account", ID: accountID}
		}
		logger.Error("account repository get by id failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, &domain.StorageError{Op: "get account by id", Err: err}
	}

	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, &domain.NotFoundError{Entity: "Account", ID: accountNumber}
		}
		logger.Error("account repository get by account number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, &domain.StorageError{Op: "get account by account number", Err: err}
	}

	return account, nil
}

func (r *AccountRepository) ListActive(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE status = 'Active'
ORDER BY created_at DESC`

	return r.queryAccounts(ctx, "list active accounts", query)
}

func (r *AccountRepository) FindByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE customer_id = $1
ORDER BY created_at DESC`

	return r.queryAccounts(ctx, "find accounts by customer", query, customerID)
}

// Update replaces the account's mutable fields, guarded by the version the
// caller loaded. A zero-row update is disambiguated afterwards: missing row
// is NotFound, a present row means someone else committed first.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
UPDATE accounts
SET balance = $2,
	interest_accrued = $3,
	status = $4,
	closing_date = $5,
	updated_at = $6,
	version = version + 1
WHERE account_id = $1
  AND version = $7`

	result, err := r.db.ExecContext(
		ctx,
		query,
		account.AccountID,
		account.Balance,
		account.InterestAccrued,
		string(account.Status),
		nullTime(account.ClosingDate),
		account.UpdatedAt,
		account.Version,
	)
	if err != nil {
		logger.Error("account repository update failed", err, logger.Fields{
			"accountId": account.AccountID,
		})
		return domain.Account{}, &domain.StorageError{Op: "update account", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Account{}, &domain.StorageError{Op: "update account", Err: err}
	}
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, account.AccountID); getErr != nil {
			return domain.Account{}, getErr
		}
		return domain.Account{}, domain.ErrConcurrentModification
	}

	account.Version++
	return account, nil
}

func (r *AccountRepository) NextAccountSequence(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('account_number_seq')`).Scan(&next); err != nil {
		return 0, &domain.StorageError{Op: "next account sequence", Err: err}
	}
	return next, nil
}

func (r *AccountRepository) queryAccounts(ctx context.Context, op string, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("account repository query failed", err, logger.Fields{"op": op})
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: op, Err: err}
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}

	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	var status string
	var closingDate sql.NullTime
	var createdBy sql.NullString

	if err := row.Scan(
		&account.AccountID,
		&account.AccountNumber,
		&account.CustomerID,
		&account.ProductID,
		&account.Currency,
		&status,
		&account.Balance,
		&account.InterestAccrued,
		&account.OpeningDate,
		&closingDate,
		&account.CreatedAt,
		&account.UpdatedAt,
		&createdBy,
		&account.Version,
	); err != nil {
		return domain.Account{}, err
	}

	parsed, err := domain.ParseAccountStatus(status)
	if err != nil {
		return domain.Account{}, err
	}
	account.Status = parsed

	if closingDate.Valid {
		d := closingDate.Time
		account.ClosingDate = &d
	}
	if createdBy.Valid {
		s := createdBy.String
		account.CreatedBy = &s
	}

	return account, nil
}
