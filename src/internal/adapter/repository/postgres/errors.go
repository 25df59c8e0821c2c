package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

// storageOrConflict maps a driver error onto the domain taxonomy: unique
// violations become ErrConflict, everything else is a StorageError.
func storageOrConflict(op string, err error) error {
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return &domain.StorageError{Op: op, Err: err}
}
