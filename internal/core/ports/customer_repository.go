package ports

import (
	"context"

	"github.com/studorg/counter-system/internal/core/domain"
)

// CustomerRepository defines persistence operations for ledger accounts.
// Balance mutation is deliberately absent: balances change only through
// TransactionRepository writes.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	FindByAccountID(ctx context.Context, accountID string) (*domain.Customer, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}
