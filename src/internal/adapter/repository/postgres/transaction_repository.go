package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
)

const transactionColumns = `transaction_id, account_id, transaction_date, value_date, transaction_type,
	category, amount, currency, running_balance, description, reference, channel, status, created_at, created_by`

const insertTransactionQuery = `
INSERT INTO transactions (
	transaction_id,
	account_id,
	transaction_date,
	value_date,
	transaction_type,
	category,
	amount,
	currency,
	running_balance,
	description,
	reference,
	channel,
	status,
	created_at,
	created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository create", logger.Fields{
		"transactionId": txn.TransactionID,
		"accountId":     txn.AccountID,
		"type":          string(txn.Type),
		"category":      string(txn.Category),
	})

	if _, err := r.db.ExecContext(ctx, insertTransactionQuery, transactionArgs(txn)...); err != nil {
		logger.Error("transaction repository create failed", err, logger.Fields{
			"transactionId": txn.TransactionID,
		})
		return domain.Transaction{}, storageOrConflict("create transaction", err)
	}

	return txn, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (domain.Transaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE transaction_id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, &domain.NotFoundError{Entity: "Transaction", ID: transactionID}
		}
		return domain.Transaction{}, &domain.StorageError{Op: "get transaction by id", Err: err}
	}

	return txn, nil
}

func (r *TransactionRepository) FindByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	query := `
SELECT ` + transactionColumns + `
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC`

	args := []any{accountID}
	if limit > 0 {
		query += `
LIMIT $2`
		args = append(args, limit)
	}

	return r.queryTransactions(ctx, "find transactions by account", query, args...)
}

func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE reference = $1
ORDER BY created_at DESC`

	return r.queryTransactions(ctx, "find transactions by reference", query, reference)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, op string, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("transaction repository query failed", err, logger.Fields{"op": op})
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: op, Err: err}
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}

	return txns, nil
}

func transactionArgs(txn domain.Transaction) []any {
	return []any{
		txn.TransactionID,
		txn.AccountID,
		txn.TransactionDate,
		txn.ValueDate,
		string(txn.Type),
		string(txn.Category),
		txn.Amount,
		txn.Currency,
		txn.RunningBalance,
		txn.Description,
		nullString(txn.Reference),
		txn.Channel,
		txn.Status,
		txn.CreatedAt,
		nullString(txn.CreatedBy),
	}
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var txn domain.Transaction
	var txnType, category string
	var reference, createdBy sql.NullString

	if err := row.Scan(
		&txn.TransactionID,
		&txn.AccountID,
		&txn.TransactionDate,
		&txn.ValueDate,
		&txnType,
		&category,
		&txn.Amount,
		&txn.Currency,
		&txn.RunningBalance,
		&txn.Description,
		&reference,
		&txn.Channel,
		&txn.Status,
		&txn.CreatedAt,
		&createdBy,
	); err != nil {
		return domain.Transaction{}, err
	}

	parsedType, err := domain.ParseTransactionType(txnType)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn.Type = parsedType

	parsedCategory, err := domain.ParseTransactionCategory(category)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn.Category = parsedCategory

	if reference.Valid {
		s := reference.String
		txn.Reference = &s
	}
	if createdBy.Valid {
		s := createdBy.String
		txn.CreatedBy = &s
	}

	return txn, nil
}
