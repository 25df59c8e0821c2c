package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

var accountColumnNames = []string{
	"account_id", "account_number", "customer_id", "product_id", "currency", "status",
	"balance", "interest_accrued", "opening_date", "closing_date", "created_at", "updated_at", "created_by", "version",
}

func accountRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(accountColumnNames).AddRow(
		"ACC-1", "202600001", "CUST-1", "PROD-1", "USD", "Active",
		"1000.00", "0.07", now, nil, now, now, nil, int64(3),
	)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM accounts\s+WHERE account_id = \$1`).
		WithArgs("ACC-1").
		WillReturnRows(accountRow())

	account, err := NewAccountRepository(db).GetByID(context.Background(), "ACC-1")
	require.NoError(t, err)
	require.Equal(t, "202600001", account.AccountNumber)
	require.True(t, account.Balance.Equal(decimal.RequireFromString("1000.00")))
	require.True(t, account.InterestAccrued.Equal(decimal.RequireFromString("0.07")))
	require.Equal(t, int64(3), account.Version)
	require.True(t, account.IsActive())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM accounts\s+WHERE account_id = \$1`).
		WithArgs("ACC-missing").
		WillReturnRows(sqlmock.NewRows(accountColumnNames))

	_, err = NewAccountRepository(db).GetByID(context.Background(), "ACC-missing")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryUpdateIncrementsVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	account := domain.Account{
		AccountID: "ACC-1",
		Status:    domain.AccountStatusActive,
		Balance:   decimal.RequireFromString("700.00"),
		Version:   3,
	}
	updated, err := NewAccountRepository(db).Update(context.Background(), account)
	require.NoError(t, err)
	require.Equal(t, int64(4), updated.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryUpdateVersionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The row exists, so the zero-row update means a stale version.
	mock.ExpectQuery(`FROM accounts\s+WHERE account_id = \$1`).
		WithArgs("ACC-1").
		WillReturnRows(accountRow())

	account := domain.Account{
		AccountID: "ACC-1",
		Status:    domain.AccountStatusActive,
		Balance:   decimal.RequireFromString("700.00"),
		Version:   2,
	}
	_, err = NewAccountRepository(db).Update(context.Background(), account)
	require.ErrorIs(t, err, domain.ErrConcurrentModification)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM accounts\s+WHERE account_id = \$1`).
		WithArgs("ACC-missing").
		WillReturnRows(sqlmock.NewRows(accountColumnNames))

	account := domain.Account{
		AccountID: "ACC-missing",
		Status:    domain.AccountStatusActive,
		Balance:   decimal.Zero,
		Version:   1,
	}
	_, err = NewAccountRepository(db).Update(context.Background(), account)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryNextAccountSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT nextval\('account_number_seq'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(42)))

	next, err := NewAccountRepository(db).NextAccountSequence(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), next)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM accounts\s+WHERE status = 'Active'`).
		WillReturnRows(accountRow())

	accounts, err := NewAccountRepository(db).ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := &domain.StorageError{Op: "get account by id", Err: cause}
	require.ErrorIs(t, err, cause)
}
