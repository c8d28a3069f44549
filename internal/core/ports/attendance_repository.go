package ports

import (
	"context"

	"github.com/studorg/counter-system/internal/core/domain"
)

// AttendanceRepository stores the durable attendance log. Append-only; entries
// are produced by session-registry eviction and never updated.
type AttendanceRepository interface {
	Append(ctx context.Context, p *domain.Permanency) error
	ListByCounter(ctx context.Context, counterID string, limit int) ([]*domain.Permanency, error)
}
