package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ApplySaleInput carries all data needed to record a sale at a counter.
type ApplySaleInput struct {
	CounterID       string
	CustomerAccount string
	ProductID       string
	Quantity        int
	// Special selects the special/discounted tariff instead of the standard one.
	Special bool
	// SellerID is optional for bar counters: when empty, an arbitrary active
	// operator from the counter session is used. Office counters require it.
	SellerID       string
	IdempotencyKey string
}

// SaleResult is returned after a sale has been recorded.
type SaleResult struct {
	SaleID    string
	UnitPrice decimal.Decimal
	Quantity  int
	Total     decimal.Decimal
	SellerID  string
	Balance   decimal.Decimal
	Date      time.Time
	// AlreadyExisted is true when the Idempotency-Key matched a previous sale.
	AlreadyExisted bool
}

// ApplyRefillInput carries all data needed to credit an account.
type ApplyRefillInput struct {
	CounterID       string
	CustomerAccount string
	Amount          decimal.Decimal
	OperatorID      string
	PaymentMethod   string
	Bank            string
	IdempotencyKey  string
}

// RefillResult is returned after a refill has been recorded.
type RefillResult struct {
	RefillID       string
	Amount         decimal.Decimal
	Balance        decimal.Decimal
	Date           time.Time
	AlreadyExisted bool
}

// AccountStatement is the customer view: current balance plus recent log entries.
type AccountStatement struct {
	AccountID string
	UserID    string
	Balance   decimal.Decimal
	Sales     []StatementSale
	Refills   []StatementRefill
}

// StatementSale is one debit line in an account statement.
type StatementSale struct {
	SaleID    string
	ProductID string
	CounterID string
	UnitPrice decimal.Decimal
	Quantity  int
	Total     decimal.Decimal
	Date      time.Time
}

// StatementRefill is one credit line in an account statement.
type StatementRefill struct {
	RefillID      string
	CounterID     string
	Amount        decimal.Decimal
	PaymentMethod string
	Date          time.Time
}

// LedgerService defines the money-moving use cases.
type LedgerService interface {
	ApplySale(ctx context.Context, input ApplySaleInput) (*SaleResult, error)
	ApplyRefill(ctx context.Context, input ApplyRefillInput) (*RefillResult, error)
	CreateAccount(ctx context.Context, userID string) (*AccountStatement, error)
	GetStatement(ctx context.Context, accountID string, limit int) (*AccountStatement, error)
}
