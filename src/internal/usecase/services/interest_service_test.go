package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/usecase/service_interfaces"
	"github.com/corebank/accounts-ledger/src/internal/usecase/services"
)

func (f *ledgerFixture) interestService() *services.InterestService {
	return services.NewInterestService(
		memory.NewAccountRepository(f.store),
		memory.NewProductRepository(f.store),
		memory.NewAccrualRepository(f.store),
		memory.NewPostingRepository(f.store),
		nil,
	)
}

func TestRunInterestCycleAccruesDailyInterest(t *testing.T) {
	f := newLedgerFixture(t, "0")
	account := f.openAccount(t, "1000.00")
	svc := f.interestService()

	asOf := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	summary, err := svc.RunInterestCycle(context.Background(), asOf)
	if err != nil {
		t.Fatalf("run interest cycle: %v", err)
	}

	if summary.Considered != 1 || summary.Accrued != 1 {
		t.Fatalf("expected 1 considered / 1 accrued, got %d / %d", summary.Considered, summary.Accrued)
	}
	// 1000.00 at 2.5% over 365 days is 0.068..., rounded to 0.07.
	if !summary.TotalAccrued.Equal(decimal.RequireFromString("0.07")) {
		t.Fatalf("expected total accrued 0.07, got %s", summary.TotalAccrued)
	}

	updated, err := memory.NewAccountRepository(f.store).GetByID(context.Background(), account.AccountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !updated.InterestAccrued.Equal(decimal.RequireFromString("0.07")) {
		t.Fatalf("expected accrued 0.07 on the account, got %s", updated.InterestAccrued)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("accrual must not move the balance, got %s", updated.Balance)
	}

	accrual, err := memory.NewAccrualRepository(f.store).FindByAccountAndDate(context.Background(), account.AccountID, asOf)
	if err != nil {
		t.Fatalf("find accrual: %v", err)
	}
	if !accrual.DailyInterest.Equal(decimal.RequireFromString("0.07")) {
		t.Fatalf("expected daily interest 0.07, got %s", accrual.DailyInterest)
	}
}

func TestRunInterestCycleIsIdempotentPerDate(t *testing.T) {
	f := newLedgerFixture(t, "0")
	f.openAccount(t, "1000.00")
	svc := f.interestService()

	asOf := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RunInterestCycle(context.Background(), asOf); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Same date at a different wall-clock time must be a no-op.
	rerun, err := svc.RunInterestCycle(context.Background(), asOf.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if rerun.Accrued != 0 || rerun.Skipped != 1 {
		t.Fatalf("expected re-run to skip, got accrued=%d skipped=%d", rerun.Accrued, rerun.Skipped)
	}
	if !rerun.TotalAccrued.IsZero() {
		t.Fatalf("expected zero total on re-run, got %s", rerun.TotalAccrued)
	}
}

func TestRunInterestCycleSkipsBelowMinimumBalance(t *testing.T) {
	f := newLedgerFixture(t, "0")
	ctx := context.Background()

	premium, err := domain.NewProduct(
		"Premium Savings",
		"SAV-02",
		nil,
		"USD",
		decimal.RequireFromString("0.04"),
		decimal.RequireFromString("5000.00"),
		decimal.Zero,
		decimal.Zero,
		nil,
	)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	if _, err := memory.NewProductRepository(f.store).Create(ctx, premium); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := f.posting.OpenAccount(ctx, service_interfaces.OpenAccountRequest{
		CustomerID:     f.customer.CustomerID,
		ProductID:      premium.ProductID,
		OpeningBalance: decimal.RequireFromString("1000.00"),
	}); err != nil {
		t.Fatalf("open account: %v", err)
	}

	summary, err := f.interestService().RunInterestCycle(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("run interest cycle: %v", err)
	}
	if summary.Accrued != 0 || summary.Skipped != 1 {
		t.Fatalf("expected ineligible account to be skipped, got accrued=%d skipped=%d", summary.Accrued, summary.Skipped)
	}
}

func TestRunInterestCycleIgnoresClosedAccounts(t *testing.T) {
	f := newLedgerFixture(t, "0")
	account := f.openAccount(t, "0")
	if _, err := f.posting.CloseAccount(context.Background(), account.AccountID); err != nil {
		t.Fatalf("close account: %v", err)
	}

	summary, err := f.interestService().RunInterestCycle(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("run interest cycle: %v", err)
	}
	if summary.Considered != 0 {
		t.Fatalf("expected closed account to be excluded, considered=%d", summary.Considered)
	}
}

func TestPostAccruedInterestCreditsBalance(t *testing.T) {
	f := newLedgerFixture(t, "0")
	account := f.openAccount(t, "1000.00")
	svc := f.interestService()

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		if _, err := svc.RunInterestCycle(context.Background(), start.AddDate(0, 0, day)); err != nil {
			t.Fatalf("cycle day %d: %v", day, err)
		}
	}

	summary, err := svc.PostAccruedInterest(context.Background(), start.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("post accrued interest: %v", err)
	}
	if summary.Posted != 1 {
		t.Fatalf("expected 1 account posted, got %d", summary.Posted)
	}
	if !summary.TotalPosted.Equal(decimal.RequireFromString("0.21")) {
		t.Fatalf("expected total posted 0.21, got %s", summary.TotalPosted)
	}

	updated, err := memory.NewAccountRepository(f.store).GetByID(context.Background(), account.AccountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !updated.Balance.Equal(decimal.RequireFromString("1000.21")) {
		t.Fatalf("expected balance 1000.21, got %s", updated.Balance)
	}
	if !updated.InterestAccrued.IsZero() {
		t.Fatalf("expected accrued reset to zero, got %s", updated.InterestAccrued)
	}

	txns, err := f.posting.ListTransactions(context.Background(), account.AccountID, 1)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 1 || !txns[0].IsInterest() || !txns[0].Amount.Equal(decimal.RequireFromString("0.21")) {
		t.Fatalf("expected an Interest posting of 0.21, got %+v", txns)
	}
	if txns[0].Channel != "Batch" {
		t.Fatalf("expected Batch channel, got %s", txns[0].Channel)
	}
}

func TestPostAccruedInterestWithNothingAccrued(t *testing.T) {
	f := newLedgerFixture(t, "0")
	f.openAccount(t, "1000.00")

	summary, err := f.interestService().PostAccruedInterest(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("post accrued interest: %v", err)
	}
	if summary.Posted != 0 || !summary.TotalPosted.IsZero() {
		t.Fatalf("expected nothing posted, got posted=%d total=%s", summary.Posted, summary.TotalPosted)
	}
}
