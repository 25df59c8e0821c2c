package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/corebank/accounts-ledger/src/internal/adapter/events"
	"github.com/corebank/accounts-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/corebank/accounts-ledger/src/internal/domain"
	"github.com/corebank/accounts-ledger/src/internal/logger"
	"github.com/corebank/accounts-ledger/src/internal/usecase/service_interfaces"
)

const (
	defaultTransactionLimit = 50

	// accountNumberAttempts bounds the retry loop when a generated account
	// number races another open on the unique index.
	accountNumberAttempts = 5
)

type PostingService struct {
	accountRepo  repo_interfaces.AccountRepository
	txnRepo      repo_interfaces.TransactionRepository
	productRepo  repo_interfaces.ProductRepository
	customerRepo repo_interfaces.CustomerRepository
	postingRepo  repo_interfaces.PostingRepository
	publisher    events.Publisher

	defaultChannel string

	// Writes to one account are serialized in-process so concurrent
	// postings contend on the lock instead of burning version-conflict
	// retries against the database.
	locksMu      sync.Mutex
	accountLocks map[string]*sync.Mutex
}

func NewPostingService(
	accountRepo repo_interfaces.AccountRepository,
	txnRepo repo_interfaces.TransactionRepository,
	productRepo repo_interfaces.ProductRepository,
	customerRepo repo_interfaces.CustomerRepository,
	postingRepo repo_interfaces.PostingRepository,
	publisher events.Publisher,
	defaultChannel string,
) *PostingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if strings.TrimSpace(defaultChannel) == "" {
		defaultChannel = "API"
	}
	return &PostingService{
		accountRepo:    accountRepo,
		txnRepo:        txnRepo,
		productRepo:    productRepo,
		customerRepo:   customerRepo,
		postingRepo:    postingRepo,
		publisher:      publisher,
		defaultChannel: defaultChannel,
		accountLocks:   make(map[string]*sync.Mutex),
	}
}

func (s *PostingService) OpenAccount(ctx context.Context, req service_interfaces.OpenAccountRequest) (domain.Account, error) {
	logger.Info("posting service open account request", logger.Fields{
		"customerId": req.CustomerID,
		"productId":  req.ProductID,
	})

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		logger.Error("posting service open account customer lookup failed", err, logger.Fields{
			"customerId": req.CustomerID,
		})
		return domain.Account{}, err
	}
	if !customer.IsActive() {
		return domain.Account{}, domain.NewBusinessRuleError("customer %s is not active", customer.CustomerID)
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		logger.Error("posting service open account product lookup failed", err, logger.Fields{
			"productId": req.ProductID,
		})
		return domain.Account{}, err
	}
	if !product.IsActive() {
		return domain.Account{}, domain.NewBusinessRuleError("product %s is not active", product.ProductCode)
	}

	for attempt := 1; ; attempt++ {
		seq, err := s.accountRepo.NextAccountSequence(ctx)
		if err != nil {
			return domain.Account{}, err
		}
		accountNumber := formatAccountNumber(time.Now().UTC(), seq)

		account, err := domain.NewAccount(accountNumber, customer.CustomerID, product.ProductID, product.Currency, req.OpeningBalance, req.CreatedBy)
		if err != nil {
			return domain.Account{}, err
		}

		var openingTxn *domain.Transaction
		if req.OpeningBalance.IsPositive() {
			txn, err := domain.NewTransaction(
				account.AccountID,
				domain.TransactionTypeCredit,
				domain.CategoryOpening,
				req.OpeningBalance,
				account.Currency,
				account.Balance,
				"Opening balance",
				nil,
				s.channel(req.Channel),
				req.CreatedBy,
			)
			if err != nil {
				return domain.Account{}, err
			}
			openingTxn = &txn
		}

		created, err := s.postingRepo.CreateAccountWithOpeningTransaction(ctx, account, openingTxn)
		if errors.Is(err, domain.ErrConflict) && attempt < accountNumberAttempts {
			logger.Info("posting service open account number collision, retrying", logger.Fields{
				"accountNumber": accountNumber,
				"attempt":       attempt,
			})
			continue
		}
		if err != nil {
			logger.Error("posting service open account persist failed", err, logger.Fields{
				"accountNumber": accountNumber,
			})
			return domain.Account{}, err
		}

		if openingTxn != nil {
			s.publishPosting(ctx, created, *openingTxn)
		}
		logger.Info("posting service account opened", logger.Fields{
			"accountId":     created.AccountID,
			"accountNumber": created.AccountNumber,
			"balance":       domain.FormatCurrency(created.Balance, created.Currency),
		})
		return created, nil
	}
}

func (s *PostingService) Credit(ctx context.Context, req service_interfaces.PostingRequest) (domain.Account, domain.Transaction, error) {
	unlock := s.lockAccount(req.AccountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return domain.Account{}, domain.Transaction{}, err
	}

	if err := account.Credit(req.Amount); err != nil {
		return domain.Account{}, domain.Transaction{}, err
	}

	txn, err := domain.NewTransaction(
		account.AccountID,
		domain.TransactionTypeCredit,
		domain.CategoryDeposit,
		req.Amount,
		account.Currency,
		account.Balance,
		descriptionOrDefault(req.Description, "Deposit"),
		req.Reference,
		s.channel(req.Channel),
		req.CreatedBy,
	)
	if err != nil {
		return domain.Account{}, domain.Transaction{}, err
	}

	updated, err := s.postingRepo.PostBalanceChange(ctx, account, []domain.Transaction{txn})
	if err != nil {
		logger.Error("posting service credit commit failed", err, logger.Fields{
			"accountId": account.AccountID,
		})
		return domain.Account{}, domain.Transaction{}, err
	}

	s.publishPosting(ctx, updated, txn)
	return updated, txn, nil
}

func (s *PostingService) Debit(ctx context.Context, req service_interfaces.PostingRequest) (domain.Account, []domain.Transaction, error) {
	unlock := s.lockAccount(req.AccountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return domain.Account{}, nil, err
	}
	product, err := s.productRepo.GetByID(ctx, account.ProductID)
	if err != nil {
		return domain.Account{}, nil, err
	}

	if !req.Amount.IsPositive() {
		return domain.Account{}, nil, domain.NewValidationError("debit amount must be positive, got %s", req.Amount)
	}

	fee := product.TransactionFee
	total := req.Amount.Add(fee)
	if !account.HasSufficientBalance(total) {
		return domain.Account{}, nil, &domain.InsufficientBalanceError{
			Available: account.Balance,
			Required:  total,
		}
	}

	if err := account.Debit(req.Amount); err != nil {
		return domain.Account{}, nil, err
	}
	txn, err := domain.NewTransaction(
		account.AccountID,
		domain.TransactionTypeDebit,
		domain.CategoryWithdrawal,
		req.Amount,
		account.Currency,
		account.Balance,
		descriptionOrDefault(req.Description, "Withdrawal"),
		req.Reference,
		s.channel(req.Channel),
		req.CreatedBy,
	)
	if err != nil {
		return domain.Account{}, nil, err
	}
	txns := []domain.Transaction{txn}

	if fee.IsPositive() {
		if err := account.Debit(fee); err != nil {
			return domain.Account{}, nil, err
		}
		feeTxn, err := domain.NewTransaction(
			account.AccountID,
			domain.TransactionTypeDebit,
			domain.CategoryFee,
			fee,
			account.Currency,
			account.Balance,
			"Transaction fee",
			req.Reference,
			s.channel(req.Channel),
			req.CreatedBy,
		)
		if err != nil {
			return domain.Account{}, nil, err
		}
		txns = append(txns, feeTxn)
	}

	updated, err := s.postingRepo.PostBalanceChange(ctx, account, txns)
	if err != nil {
		logger.Error("posting service debit commit failed", err, logger.Fields{
			"accountId": account.AccountID,
		})
		return domain.Account{}, nil, err
	}

	for _, posted := range txns {
		s.publishPosting(ctx, updated, posted)
	}
	return updated, txns, nil
}

func (s *PostingService) CloseAccount(ctx context.Context, accountID string) (domain.Account, error) {
	unlock := s.lockAccount(accountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}

	if err := account.Close(); err != nil {
		return domain.Account{}, err
	}

	updated, err := s.postingRepo.PostBalanceChange(ctx, account, nil)
	if err != nil {
		logger.Error("posting service close account commit failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, err
	}

	logger.Info("posting service account closed", logger.Fields{
		"accountId": accountID,
	})
	return updated, nil
}

func (s *PostingService) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	return s.accountRepo.GetByID(ctx, accountID)
}

func (s *PostingService) ListTransactions(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	return s.txnRepo.FindByAccount(ctx, accountID, limit)
}

func (s *PostingService) lockAccount(accountID string) func() {
	s.locksMu.Lock()
	mu, ok := s.accountLocks[accountID]
	if !ok {
		mu = &sync.Mutex{}
		s.accountLocks[accountID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func (s *PostingService) channel(channel string) string {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return s.defaultChannel
	}
	return channel
}

func (s *PostingService) publishPosting(ctx context.Context, account domain.Account, txn domain.Transaction) {
	publishPostingEvent(ctx, s.publisher, account, txn)
}

// publishPostingEvent emits the event for a committed transaction. Failures
// are logged and swallowed; the posting has already committed.
func publishPostingEvent(ctx context.Context, publisher events.Publisher, account domain.Account, txn domain.Transaction) {
	event := events.PostingEvent{
		TransactionID:  txn.TransactionID,
		AccountID:      account.AccountID,
		AccountNumber:  account.AccountNumber,
		Type:           string(txn.Type),
		Category:       string(txn.Category),
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		RunningBalance: txn.RunningBalance,
		Channel:        txn.Channel,
		PostedAt:       txn.CreatedAt,
	}
	if err := publisher.PublishPosting(ctx, event); err != nil {
		logger.Error("posting event publish failed", err, logger.Fields{
			"transactionId": txn.TransactionID,
		})
	}
}

func descriptionOrDefault(description, fallback string) string {
	if strings.TrimSpace(description) == "" {
		return fallback
	}
	return description
}

func formatAccountNumber(asOf time.Time, seq int64) string {
	return fmt.Sprintf("%d%05d", asOf.Year(), seq)
}

var _ service_interfaces.PostingService = (*PostingService)(nil)
