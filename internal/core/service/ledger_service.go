package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
)

// SellerPicker resolves the seller for a bar sale from the counter's active
// session. Implemented by the session registry.
type SellerPicker interface {
	PickRandomActive(counterID string) (string, error)
}

// DedupChecker abstracts the idempotency fast path (Redis). Scope separates
// sale keys from refill keys.
type DedupChecker interface {
	Seen(ctx context.Context, scope, key string) (bool, error)
	Mark(ctx context.Context, scope, key string) error
}

const (
	dedupScopeSale   = "sale"
	dedupScopeRefill = "refill"

	defaultStatementLimit = 50
)

// LedgerService implements the money-moving use cases: account creation,
// sales, refills, statements. Every balance change goes through the
// transaction repository as a single atomic unit.
type LedgerService struct {
	customers ports.CustomerRepository
	catalog   ports.CatalogRepository
	txns      ports.TransactionRepository
	sessions  SellerPicker
	dedup     DedupChecker
	log       zerolog.Logger
}

func NewLedgerService(
	customers ports.CustomerRepository,
	catalog ports.CatalogRepository,
	txns ports.TransactionRepository,
	sessions SellerPicker,
	dedup DedupChecker,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		customers: customers,
		catalog:   catalog,
		txns:      txns,
		sessions:  sessions,
		dedup:     dedup,
		log:       log,
	}
}

// CreateAccount opens a ledger account for a user with a zero balance and a
// server-assigned account ID.
func (s *LedgerService) CreateAccount(ctx context.Context, userID string) (*ports.AccountStatement, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", domain.ErrValidation)
	}
	if existing, err := s.customers.FindByUserID(ctx, userID); err == nil && existing != nil {
		return nil, domain.ErrAccountExists
	}

	customer := &domain.Customer{
		UserID:    userID,
		AccountID: generateAccountID(),
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create ledger account")
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("account_id", customer.AccountID).Msg("ledger account created")
	return &ports.AccountStatement{
		AccountID: customer.AccountID,
		UserID:    customer.UserID,
		Balance:   customer.Balance,
	}, nil
}

// ApplySale validates and records a sale, debiting the customer balance by
// unit price times quantity. Validation failures leave both the balance and
// the transaction log untouched.
func (s *LedgerService) ApplySale(ctx context.Context, input ports.ApplySaleInput) (*ports.SaleResult, error) {
	if input.IdempotencyKey != "" {
		if replay := s.replaySale(ctx, input.IdempotencyKey); replay != nil {
			return replay, nil
		}
	}

	counter, err := s.catalog.FindCounter(ctx, input.CounterID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.FindProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Archived {
		return nil, domain.ErrProductArchived
	}
	if !counter.Sells(product.ID) {
		return nil, domain.ErrProductNotAvailable
	}

	sellerID, err := s.resolveSeller(counter, input.SellerID)
	if err != nil {
		return nil, err
	}

	unitPrice := product.Price(input.Special)
	if input.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", domain.ErrValidation)
	}

	customer, err := s.customers.FindByAccountID(ctx, input.CustomerAccount)
	if err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		ID:              uuid.NewString(),
		ProductID:       product.ID,
		CounterID:       counter.ID,
		UnitPrice:       unitPrice,
		Quantity:        input.Quantity,
		SellerID:        sellerID,
		CustomerAccount: customer.AccountID,
		Date:            time.Now().UTC(),
		IdempotencyKey:  input.IdempotencyKey,
	}

	balance, err := s.txns.CreateSale(ctx, sale)
	if err != nil {
		// A concurrent request with the same key won the race; the log entry
		// it wrote is the authoritative result.
		if input.IdempotencyKey != "" && errors.Is(err, domain.ErrDuplicateTransaction) {
			if replay := s.loadSaleReplay(ctx, input.IdempotencyKey); replay != nil {
				return replay, nil
			}
		}
		s.log.Error().Err(err).Str("account_id", customer.AccountID).Msg("failed to record sale")
		return nil, err
	}
	if input.IdempotencyKey != "" {
		if markErr := s.dedup.Mark(ctx, dedupScopeSale, input.IdempotencyKey); markErr != nil {
			s.log.Warn().Err(markErr).Msg("failed to set sale dedup key")
		}
	}

	s.log.Info().
		Str("sale_id", sale.ID).
		Str("account_id", customer.AccountID).
		Str("product_id", product.ID).
		Int("quantity", sale.Quantity).
		Str("total", sale.Total().String()).
		Msg("sale recorded")

	return &ports.SaleResult{
		SaleID:    sale.ID,
		UnitPrice: sale.UnitPrice,
		Quantity:  sale.Quantity,
		Total:     sale.Total(),
		SellerID:  sale.SellerID,
		Balance:   balance,
		Date:      sale.Date,
	}, nil
}

// ApplyRefill validates and records a refill, crediting the customer balance.
func (s *LedgerService) ApplyRefill(ctx context.Context, input ports.ApplyRefillInput) (*ports.RefillResult, error) {
	if input.IdempotencyKey != "" {
		if replay := s.replayRefill(ctx, input.IdempotencyKey); replay != nil {
			return replay, nil
		}
	}

	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if input.OperatorID == "" {
		return nil, fmt.Errorf("%w: operator required", domain.ErrValidation)
	}
	method := domain.PaymentMethod(input.PaymentMethod)
	switch method {
	case domain.PaymentCheque, domain.PaymentCash, domain.PaymentCard, domain.PaymentOther:
	case "":
		method = domain.PaymentCash
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, input.PaymentMethod)
	}
	bank := domain.Bank(input.Bank)
	if bank == "" {
		bank = domain.BankOther
	}

	if _, err := s.catalog.FindCounter(ctx, input.CounterID); err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByAccountID(ctx, input.CustomerAccount)
	if err != nil {
		return nil, err
	}

	refill := &domain.Refill{
		ID:              uuid.NewString(),
		CounterID:       input.CounterID,
		Amount:          input.Amount,
		OperatorID:      input.OperatorID,
		CustomerAccount: customer.AccountID,
		Date:            time.Now().UTC(),
		PaymentMethod:   method,
		Bank:            bank,
		IdempotencyKey:  input.IdempotencyKey,
	}

	balance, err := s.txns.CreateRefill(ctx, refill)
	if err != nil {
		if input.IdempotencyKey != "" && errors.Is(err, domain.ErrDuplicateTransaction) {
			if replay := s.loadRefillReplay(ctx, input.IdempotencyKey); replay != nil {
				return replay, nil
			}
		}
		s.log.Error().Err(err).Str("account_id", customer.AccountID).Msg("failed to record refill")
		return nil, err
	}
	if input.IdempotencyKey != "" {
		if markErr := s.dedup.Mark(ctx, dedupScopeRefill, input.IdempotencyKey); markErr != nil {
			s.log.Warn().Err(markErr).Msg("failed to set refill dedup key")
		}
	}

	s.log.Info().
		Str("refill_id", refill.ID).
		Str("account_id", customer.AccountID).
		Str("amount", refill.Amount.String()).
		Str("payment_method", string(refill.PaymentMethod)).
		Msg("refill recorded")

	return &ports.RefillResult{
		RefillID: refill.ID,
		Amount:   refill.Amount,
		Balance:  balance,
		Date:     refill.Date,
	}, nil
}

// GetStatement returns the current balance and the most recent log entries
// for an account.
func (s *LedgerService) GetStatement(ctx context.Context, accountID string, limit int) (*ports.AccountStatement, error) {
	if limit <= 0 {
		limit = defaultStatementLimit
	}

	customer, err := s.customers.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sales, err := s.txns.ListSalesByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	refills, err := s.txns.ListRefillsByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}

	statement := &ports.AccountStatement{
		AccountID: customer.AccountID,
		UserID:    customer.UserID,
		Balance:   customer.Balance,
	}
	for _, sale := range sales {
		statement.Sales = append(statement.Sales, ports.StatementSale{
			SaleID:    sale.ID,
			ProductID: sale.ProductID,
			CounterID: sale.CounterID,
			UnitPrice: sale.UnitPrice,
			Quantity:  sale.Quantity,
			Total:     sale.Total(),
			Date:      sale.Date,
		})
	}
	for _, refill := range refills {
		statement.Refills = append(statement.Refills, ports.StatementRefill{
			RefillID:      refill.ID,
			CounterID:     refill.CounterID,
			Amount:        refill.Amount,
			PaymentMethod: string(refill.PaymentMethod),
			Date:          refill.Date,
		})
	}
	return statement, nil
}

// replaySale returns the previous result when the idempotency key has been
// seen before. The dedup check is a Redis fast path; on any miss or error the
// caller proceeds with a fresh sale.
func (s *LedgerService) replaySale(ctx context.Context, key string) *ports.SaleResult {
	seen, err := s.dedup.Seen(ctx, dedupScopeSale, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("sale dedup check failed, processing anyway")
		return nil
	}
	if !seen {
		return nil
	}
	return s.loadSaleReplay(ctx, key)
}

// loadSaleReplay rebuilds a sale result from the transaction log, which is
// the authority when Redis and Mongo disagree.
func (s *LedgerService) loadSaleReplay(ctx context.Context, key string) *ports.SaleResult {
	existing, err := s.txns.FindSaleByIdempotencyKey(ctx, key)
	if err != nil || existing == nil {
		return nil
	}
	s.log.Info().Str("idempotency_key", key).Str("sale_id", existing.ID).Msg("idempotent sale replay")
	return &ports.SaleResult{
		SaleID:         existing.ID,
		UnitPrice:      existing.UnitPrice,
		Quantity:       existing.Quantity,
		Total:          existing.Total(),
		SellerID:       existing.SellerID,
		Balance:        s.currentBalance(ctx, existing.CustomerAccount),
		Date:           existing.Date,
		AlreadyExisted: true,
	}
}

// currentBalance is best-effort for replay responses; the original mutation
// already happened, so a lookup failure only costs response detail.
func (s *LedgerService) currentBalance(ctx context.Context, accountID string) decimal.Decimal {
	customer, err := s.customers.FindByAccountID(ctx, accountID)
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", accountID).Msg("balance lookup for replay failed")
		return decimal.Zero
	}
	return customer.Balance
}

func (s *LedgerService) replayRefill(ctx context.Context, key string) *ports.RefillResult {
	seen, err := s.dedup.Seen(ctx, dedupScopeRefill, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("refill dedup check failed, processing anyway")
		return nil
	}
	if !seen {
		return nil
	}
	return s.loadRefillReplay(ctx, key)
}

func (s *LedgerService) loadRefillReplay(ctx context.Context, key string) *ports.RefillResult {
	existing, err := s.txns.FindRefillByIdempotencyKey(ctx, key)
	if err != nil || existing == nil {
		return nil
	}
	s.log.Info().Str("idempotency_key", key).Str("refill_id", existing.ID).Msg("idempotent refill replay")
	return &ports.RefillResult{
		RefillID:       existing.ID,
		Amount:         existing.Amount,
		Balance:        s.currentBalance(ctx, existing.CustomerAccount),
		Date:           existing.Date,
		AlreadyExisted: true,
	}
}

// resolveSeller picks the seller for a sale. Bar counters fall back to an
// arbitrary clocked-in operator; office counters always need an explicit one.
func (s *LedgerService) resolveSeller(counter *domain.Counter, sellerID string) (string, error) {
	if sellerID != "" {
		return sellerID, nil
	}
	if counter.Kind == domain.CounterBar {
		return s.sessions.PickRandomActive(counter.ID)
	}
	return "", fmt.Errorf("%w: seller required for %s counters", domain.ErrValidation, counter.Kind)
}

// generateAccountID derives a short, unique, human-enterable account code.
func generateAccountID() string {
	id := uuid.New()
	return fmt.Sprintf("%08X", id.ID())
}
