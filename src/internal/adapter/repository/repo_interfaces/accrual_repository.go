package repo_interfaces

import (
	"context"
	"time"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type AccrualRepository interface {
	// Create records one day of accrued interest. A second accrual for the
	// same account and date fails with domain.ErrConflict, which is how
	// cycle re-runs stay idempotent.
	Create(ctx context.Context, accrual domain.InterestAccrual) (domain.InterestAccrual, error)
	FindByAccountAndDate(ctx context.Context, accountID string, accrualDate time.Time) (domain.InterestAccrual, error)
	FindByAccount(ctx context.Context, accountID string, limit int) ([]domain.InterestAccrual, error)
}
