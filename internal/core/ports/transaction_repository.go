package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/studorg/counter-system/internal/core/domain"
)

// TransactionRepository owns the append-only transaction log and the balance
// mutations bound to it. CreateSale and CreateRefill must apply the record
// insert and the balance change as a single all-or-nothing unit: a failure
// partway leaves the balance untouched and no orphaned record behind.
// Concurrent writes against the same account must serialize (atomic
// read-modify-write at the storage layer), and both calls return the balance
// as it stood after the mutation.
type TransactionRepository interface {
	CreateSale(ctx context.Context, s *domain.Sale) (decimal.Decimal, error)
	CreateRefill(ctx context.Context, r *domain.Refill) (decimal.Decimal, error)

	FindSaleByIdempotencyKey(ctx context.Context, key string) (*domain.Sale, error)
	FindRefillByIdempotencyKey(ctx context.Context, key string) (*domain.Refill, error)

	// ListByAccount returns the most recent log entries for one account,
	// newest first, capped at limit.
	ListSalesByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Sale, error)
	ListRefillsByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Refill, error)
}
