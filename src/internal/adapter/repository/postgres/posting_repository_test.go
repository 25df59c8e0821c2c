package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

func testAccount(t *testing.T) domain.Account {
	t.Helper()

	account, err := domain.NewAccount("202600001", "CUST-1", "PROD-1", "USD", decimal.RequireFromString("1000.00"), nil)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	return account
}

func testTransaction(t *testing.T, account domain.Account) domain.Transaction {
	t.Helper()

	txn, err := domain.NewTransaction(
		account.AccountID,
		domain.TransactionTypeDebit,
		domain.CategoryWithdrawal,
		decimal.RequireFromString("300.00"),
		account.Currency,
		decimal.RequireFromString("700.00"),
		"Withdrawal",
		nil,
		"API",
		nil,
	)
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	return txn
}

func TestPostingRepositoryCreateAccountWithOpeningTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := testAccount(t)
	opening, err := domain.NewTransaction(
		account.AccountID,
		domain.TransactionTypeCredit,
		domain.CategoryOpening,
		account.Balance,
		account.Currency,
		account.Balance,
		"Opening balance",
		nil,
		"API",
		nil,
	)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO transactions`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := NewPostingRepository(db).CreateAccountWithOpeningTransaction(context.Background(), account, &opening)
	require.NoError(t, err)
	require.Equal(t, account.AccountID, created.AccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingRepositoryCreateAccountDuplicateNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	account := testAccount(t)
	_, err = NewPostingRepository(db).CreateAccountWithOpeningTransaction(context.Background(), account, nil)
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingRepositoryPostBalanceChange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := testAccount(t)
	txn := testTransaction(t, account)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE accounts`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	updated, err := NewPostingRepository(db).PostBalanceChange(context.Background(), account, []domain.Transaction{txn})
	require.NoError(t, err)
	require.Equal(t, account.Version+1, updated.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingRepositoryPostBalanceChangeVersionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := testAccount(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE accounts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM accounts WHERE account_id = \$1`).
		WithArgs(account.AccountID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(int64(1)))
	mock.ExpectRollback()

	_, err = NewPostingRepository(db).PostBalanceChange(context.Background(), account, nil)
	require.ErrorIs(t, err, domain.ErrConcurrentModification)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingRepositoryPostBalanceChangeAccountGone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := testAccount(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE accounts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM accounts WHERE account_id = \$1`).
		WithArgs(account.AccountID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err = NewPostingRepository(db).PostBalanceChange(context.Background(), account, nil)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingRepositorySaveAccrual(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := testAccount(t)
	accrual, err := domain.NewInterestAccrual(
		account.AccountID,
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		account.Balance,
		decimal.RequireFromString("0.025"),
		decimal.RequireFromString("0.07"),
		decimal.RequireFromString("0.07"),
	)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE accounts`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO interest_accruals`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	updated, err := NewPostingRepository(db).SaveAccrual(context.Background(), account, accrual)
	require.NoError(t, err)
	require.Equal(t, account.Version+1, updated.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingRepositorySaveAccrualDuplicateDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := testAccount(t)
	accrual, err := domain.NewInterestAccrual(
		account.AccountID,
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		account.Balance,
		decimal.RequireFromString("0.025"),
		decimal.RequireFromString("0.07"),
		decimal.RequireFromString("0.07"),
	)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE accounts`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO interest_accruals`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err = NewPostingRepository(db).SaveAccrual(context.Background(), account, accrual)
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
