package ports

import (
	"context"

	"github.com/studorg/counter-system/internal/core/domain"
)

// AuthRepository defines the interface for operator credential persistence.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Operator, error)
	Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error)
}
