// Package memory provides a map-backed implementation of the repository
// contracts. It enforces the same uniqueness and version semantics as the
// postgres implementation and backs the service tests.
package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

// Store holds all ledger state behind a single mutex. The per-entity
// repository types below share one Store so that the posting repository can
// write accounts, transactions and accruals atomically.
type Store struct {
	mu sync.RWMutex

	accounts       map[string]domain.Account // by account id
	accountNumbers map[string]string         // account number -> account id
	transactions   []domain.Transaction
	products       map[string]domain.Product
	productCodes   map[string]string
	customers      map[string]domain.Customer
	accruals       map[string]domain.InterestAccrual // account id + "@" + date

	accountSeq atomic.Int64
}

func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]domain.Account),
		accountNumbers: make(map[string]string),
		products:       make(map[string]domain.Product),
		productCodes:   make(map[string]string),
		customers:      make(map[string]domain.Customer),
		accruals:       make(map[string]domain.InterestAccrual),
	}
}

func (s *Store) createAccountLocked(account domain.Account) (domain.Account, error) {
	if _, exists := s.accounts[account.AccountID]; exists {
		return domain.Account{}, domain.ErrConflict
	}
	if _, exists := s.accountNumbers[account.AccountNumber]; exists {
		return domain.Account{}, domain.ErrConflict
	}
	s.accounts[account.AccountID] = account
	s.accountNumbers[account.AccountNumber] = account.AccountID
	return account, nil
}

func (s *Store) updateAccountLocked(account domain.Account) (domain.Account, error) {
	stored, ok := s.accounts[account.AccountID]
	if !ok {
		return domain.Account{}, &domain.NotFoundError{Entity: "Account", ID: account.AccountID}
	}
	if stored.Version != account.Version {
		return domain.Account{}, domain.ErrConcurrentModification
	}

	account.Version++
	s.accounts[account.AccountID] = account
	return account, nil
}

func (s *Store) createAccrualLocked(accrual domain.InterestAccrual) (domain.InterestAccrual, error) {
	key := accrualKey(accrual.AccountID, accrual.AccrualDate)
	if _, exists := s.accruals[key]; exists {
		return domain.InterestAccrual{}, domain.ErrConflict
	}
	s.accruals[key] = accrual
	return accrual, nil
}

func accrualKey(accountID string, accrualDate time.Time) string {
	return accountID + "@" + accrualDate.Format("2006-01-02")
}
