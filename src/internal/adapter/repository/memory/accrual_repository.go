package memory

import (
	"context"
	"time"

	"github.com/corebank/accounts-ledger/src/internal/domain"
)

type AccrualRepository struct {
	store *Store
}

func NewAccrualRepository(store *Store) *AccrualRepository {
	return &AccrualRepository{store: store}
}

func (r *AccrualRepository) Create(ctx context.Context, accrual domain.InterestAccrual) (domain.InterestAccrual, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.createAccrualLocked(accrual)
}

func (r *AccrualRepository) FindByAccountAndDate(ctx context.Context, accountID string, accrualDate time.Time) (domain.InterestAccrual, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accrual, ok := r.store.accruals[accrualKey(accountID, accrualDate)]
	if !ok {
		return domain.InterestAccrual{}, &domain.NotFoundError{Entity: "InterestAccrual", ID: accountID}
	}
	return accrual, nil
}

func (r *AccrualRepository) FindByAccount(ctx context.Context, accountID string, limit int) ([]domain.InterestAccrual, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []domain.InterestAccrual
	for _, accrual := range r.store.accruals {
		if accrual.AccountID == accountID {
			out = append(out, accrual)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
