package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
)

const accrualColumns = `accrual_id, account_id, accrual_date, balance, annual_rate,
	daily_interest, cumulative_accrued, created_at`

const insertAccrualQuery = `
INSERT INTO interest_accruals (
	accrual_id,
	account_id,
	accrual_date,
	balance,
	annual_rate,
	daily_interest,
	cumulative_accrued,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

type AccrualRepository struct {
	db *sql.DB
}

func NewAccrualRepository(db *sql.DB) *AccrualRepository {
	return &AccrualRepository{db: db}
}

func (r *AccrualRepository) Create(ctx context.Context, accrual domain.InterestAccrual) (domain.InterestAccrual, error) {
	logger.Info("accrual repository create", logger.Fields{
		"accrualId":   accrual.AccrualID,
		"accountId":   accrual.AccountID,
		"accrualDate": accrual.AccrualDate.Format("2006-01-02"),
	})

	if _, err := r.db.ExecContext(ctx, insertAccrualQuery, accrualArgs(accrual)...); err != nil {
		logger.Error("accrual repository create failed", err, logger.Fields{
			"accountId": accrual.AccountID,
		})
		return domain.InterestAccrual{}, storageOrConflict("create interest accrual", err)
	}

	return accrual, nil
}

func (r *AccrualRepository) FindByAccountAndDate(ctx context.Context, accountID string, accrualDate time.Time) (domain.InterestAccrual, error) {
	const query = `
SELECT ` + accrualColumns + `
FROM interest_accruals
WHERE account_id = $1
  AND accrual_date = $2`

	accrual, err := scanAccrual(r.db.QueryRowContext(ctx, query, accountID, accrualDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InterestAccrual{}, &domain.NotFoundError{Entity: "InterestAccrual", ID: accountID}
		}
		return domain.InterestAccrual{}, &domain.StorageError{Op: "find accrual by account and date", Err: err}
	}

	return accrual, nil
}

func (r *AccrualRepository) FindByAccount(ctx context.Context, accountID string, limit int) ([]domain.InterestAccrual, error) {
	query := `
SELECT ` + accrualColumns + `
FROM interest_accruals
WHERE account_id = $1
ORDER BY accrual_date DESC`

	args := []any{accountID}
	if limit > 0 {
		query += `
LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "find accruals by account", Err: err}
	}
	defer rows.Close()

	var accruals []domain.InterestAccrual
	for rows.Next() {
		accrual, err := scanAccrual(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "find accruals by account", Err: err}
		}
		accruals = append(accruals, accrual)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "find accruals by account", Err: err}
	}

	return accruals, nil
}

func accrualArgs(accrual domain.InterestAccrual) []any {
	return []any{
		accrual.AccrualID,
		accrual.AccountID,
		accrual.AccrualDate,
		accrual.Balance,
		accrual.AnnualRate,
		accrual.DailyInterest,
		accrual.CumulativeAccrued,
		accrual.CreatedAt,
	}
}

func scanAccrual(row rowScanner) (domain.InterestAccrual, error) {
	var accrual domain.InterestAccrual

	if err := row.Scan(
		&accrual.AccrualID,
		&accrual.AccountID,
		&accrual.AccrualDate,
		&accrual.Balance,
		&accrual.AnnualRate,
		&accrual.DailyInterest,
		&accrual.CumulativeAccrued,
		&accrual.CreatedAt,
	); err != nil {
		return domain.InterestAccrual{}, err
	}

	return accrual, nil
}
