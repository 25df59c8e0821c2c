package postgres

import (
	"context"
	"database/sql"

	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
)

// PostingRepository commits a balance change and its posting records in one
// database transaction, so a persisted transaction row can never exist
// without the matching account state.
type PostingRepository struct {
	db *sql.DB
}

func NewPostingRepository(db *sql.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

func (r *PostingRepository) CreateAccountWithOpeningTransaction(ctx context.Context, account domain.Account, openingTxn *domain.Transaction) (domain.Account, error) {
	logger.Info("posting repository create account", logger.Fields{
		"accountId":     account.AccountID,
		"accountNumber": account.AccountNumber,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, &domain.StorageError{Op: "begin open account transaction", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertAccountQuery = `
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

	if _, err = tx.ExecContext(
		ctx,
		insertAccountQuery,
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
		return domain.Account{}, storageOrConflict("create account", err)
	}

	if openingTxn != nil {
		if _, err = tx.ExecContext(ctx, insertTransactionQuery, transactionArgs(*openingTxn)...); err != nil {
			return domain.Account{}, storageOrConflict("create opening transaction", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Account{}, &domain.StorageError{Op: "commit open account transaction", Err: err}
	}

	return account, nil
}

func (r *PostingRepository) PostBalanceChange(ctx context.Context, account domain.Account, txns []domain.Transaction) (domain.Account, error) {
	logger.Info("posting repository post balance change", logger.Fields{
		"accountId":    account.AccountID,
		"transactions": len(txns),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, &domain.StorageError{Op: "begin posting transaction", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.updateAccountTx(ctx, tx, account); err != nil {
		return domain.Account{}, err
	}

	for _, txn := range txns {
		if _, err = tx.ExecContext(ctx, insertTransactionQuery, transactionArgs(txn)...); err != nil {
			err = storageOrConflict("create transaction", err)
			return domain.Account{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Account{}, &domain.StorageError{Op: "commit posting transaction", Err: err}
	}

	account.Version++
	return account, nil
}

func (r *PostingRepository) SaveAccrual(ctx context.Context, account domain.Account, accrual domain.InterestAccrual) (domain.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, &domain.StorageError{Op: "begin accrual transaction", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.updateAccountTx(ctx, tx, account); err != nil {
		return domain.Account{}, err
	}

	if _, err = tx.ExecContext(ctx, insertAccrualQuery, accrualArgs(accrual)...); err != nil {
		err = storageOrConflict("create interest accrual", err)
		return domain.Account{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Account{}, &domain.StorageError{Op: "commit accrual transaction", Err: err}
	}

	account.Version++
	return account, nil
}

// updateAccountTx writes the mutable account fields inside tx, guarded by
// the version the caller loaded.
func (r *PostingRepository) updateAccountTx(ctx context.Context, tx *sql.Tx, account domain.Account) error {
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

	result, err := tx.ExecContext(
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
		return &domain.StorageError{Op: "update account", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "update account", Err: err}
	}
	if affected == 0 {
		var one int
		switch existsErr := tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE account_id = $1`, account.AccountID).Scan(&one); existsErr {
		case nil:
			return domain.ErrConcurrentModification
		case sql.ErrNoRows:
			return &domain.NotFoundError{Entity: "Account", ID: account.AccountID}
		default:
			return &domain.StorageError{Op: "update account", Err: existsErr}
		}
	}

	return nil
}
