package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/corebank/accounts-ledger/src/internal/adapter/events"
	"github.com/corebank/accounts-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
	"github.com/corebank/accounts-ledger/src/internal/usecase/service_interfaces"
)

const (
	interestChannel = "Batch"

	// interestWorkers bounds how many accounts are accrued concurrently.
	interestWorkers = 8
)

type InterestService struct {
	accountRepo repo_interfaces.AccountRepository
	productRepo repo_interfaces.ProductRepository
	accrualRepo repo_interfaces.AccrualRepository
	postingRepo repo_interfaces.PostingRepository
	publisher   events.Publisher
}

func NewInterestService(
	accountRepo repo_interfaces.AccountRepository,
	productRepo repo_interfaces.ProductRepository,
	accrualRepo repo_interfaces.AccrualRepository,
	postingRepo repo_interfaces.PostingRepository,
	publisher events.Publisher,
) *InterestService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &InterestService{
		accountRepo: accountRepo,
		productRepo: productRepo,
		accrualRepo: accrualRepo,
		postingRepo: postingRepo,
		publisher:   publisher,
	}
}

// RunInterestCycle accrues one day of interest for every eligible active
// account. A duplicate accrual for the same account and date is skipped, so
// re-running the cycle for a date is safe.
func (s *InterestService) RunInterestCycle(ctx context.Context, asOf time.Time) (service_interfaces.AccrualSummary, error) {
	asOf = truncateToDate(asOf)
	logger.Info("interest service cycle started", logger.Fields{
		"asOf": asOf.Format("2006-01-02"),
	})

	accounts, err := s.accountRepo.ListActive(ctx)
	if err != nil {
		logger.Error("interest service list accounts failed", err, nil)
		return service_interfaces.AccrualSummary{}, err
	}

	summary := service_interfaces.AccrualSummary{
		AsOf:         asOf,
		Considered:   len(accounts),
		TotalAccrued: decimal.Zero,
	}
	products := make(map[string]domain.Product)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(interestWorkers)
	for _, account := range accounts {
		account := account
		g.Go(func() error {
			daily, accrued, err := s.accrueAccount(gctx, account, asOf, products, &mu)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				logger.Error("interest service accrual failed", err, logger.Fields{
					"accountId": account.AccountID,
				})
			case accrued:
				summary.Accrued++
				summary.TotalAccrued = summary.TotalAccrued.Add(daily)
			default:
				summary.Skipped++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return service_interfaces.AccrualSummary{}, err
	}

	logger.Info("interest service cycle finished", logger.Fields{
		"asOf":         asOf.Format("2006-01-02"),
		"considered":   summary.Considered,
		"accrued":      summary.Accrued,
		"skipped":      summary.Skipped,
		"failed":       summary.Failed,
		"totalAccrued": summary.TotalAccrued.String(),
	})
	return summary, nil
}

// accrueAccount computes and saves one day of interest. It reports accrued
// false when the account is ineligible or already accrued for the date.
func (s *InterestService) accrueAccount(ctx context.Context, account domain.Account, asOf time.Time, products map[string]domain.Product, mu *sync.Mutex) (decimal.Decimal, bool, error) {
	product, err := s.productFor(ctx, account.ProductID, products, mu)
	if err != nil {
		return decimal.Zero, false, err
	}
	if !product.PaysInterest(account.Balance) {
		return decimal.Zero, false, nil
	}

	// Cheap re-run check. The unique constraint behind SaveAccrual still
	// backstops the race between this read and the write.
	if _, err := s.accrualRepo.FindByAccountAndDate(ctx, account.AccountID, asOf); err == nil {
		return decimal.Zero, false, nil
	} else if !isNotFound(err) {
		return decimal.Zero, false, err
	}

	raw, err := domain.DailyInterest(account.Balance, product.InterestRate)
	if err != nil {
		return decimal.Zero, false, err
	}
	daily := domain.RoundCurrency(raw)

	if err := account.AccrueInterest(daily); err != nil {
		return decimal.Zero, false, err
	}
	accrual, err := domain.NewInterestAccrual(account.AccountID, asOf, account.Balance, product.InterestRate, daily, account.InterestAccrued)
	if err != nil {
		return decimal.Zero, false, err
	}

	if _, err := s.postingRepo.SaveAccrual(ctx, account, accrual); err != nil {
		// Already accrued for this date: a re-run, not a failure.
		if errors.Is(err, domain.ErrConflict) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return daily, true, nil
}

// PostAccruedInterest credits each active account's accumulated accrued
// interest as an Interest transaction and resets the accrued bucket.
func (s *InterestService) PostAccruedInterest(ctx context.Context, asOf time.Time) (service_interfaces.PostingSummary, error) {
	asOf = truncateToDate(asOf)

	accounts, err := s.accountRepo.ListActive(ctx)
	if err != nil {
		logger.Error("interest service list accounts failed", err, nil)
		return service_interfaces.PostingSummary{}, err
	}

	summary := service_interfaces.PostingSummary{
		AsOf:        asOf,
		Considered:  len(accounts),
		TotalPosted: decimal.Zero,
	}
	for _, account := range accounts {
		if !account.InterestAccrued.IsPositive() {
			continue
		}

		amount, err := s.postAccount(ctx, account)
		if err != nil {
			summary.Failed++
			logger.Error("interest service posting failed", err, logger.Fields{
				"accountId": account.AccountID,
			})
			continue
		}
		summary.Posted++
		summary.TotalPosted = summary.TotalPosted.Add(amount)
	}

	logger.Info("interest service posting finished", logger.Fields{
		"asOf":        asOf.Format("2006-01-02"),
		"considered":  summary.Considered,
		"posted":      summary.Posted,
		"failed":      summary.Failed,
		"totalPosted": summary.TotalPosted.String(),
	})
	return summary, nil
}

func (s *InterestService) postAccount(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	amount := account.PostInterest()

	txn, err := domain.NewTransaction(
		account.AccountID,
		domain.TransactionTypeCredit,
		domain.CategoryInterest,
		amount,
		account.Currency,
		account.Balance,
		"Interest posting",
		nil,
		interestChannel,
		nil,
	)
	if err != nil {
		return decimal.Zero, err
	}

	updated, err := s.postingRepo.PostBalanceChange(ctx, account, []domain.Transaction{txn})
	if err != nil {
		return decimal.Zero, err
	}

	publishPostingEvent(ctx, s.publisher, updated, txn)
	return amount, nil
}

func (s *InterestService) productFor(ctx context.Context, productID string, products map[string]domain.Product, mu *sync.Mutex) (domain.Product, error) {
	mu.Lock()
	product, ok := products[productID]
	mu.Unlock()
	if ok {
		return product, nil
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	mu.Lock()
	products[productID] = product
	mu.Unlock()
	return product, nil
}

func isNotFound(err error) bool {
	var notFound *domain.NotFoundError
	return errors.As(err, &notFound)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ service_interfaces.InterestService = (*InterestService)(nil)
