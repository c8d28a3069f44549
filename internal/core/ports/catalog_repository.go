package ports

import (
	"context"

	"github.com/studorg/counter-system/internal/core/domain"
)

// CatalogRepository defines persistence operations for reference data:
// products, product types and counters.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
	// ListProducts returns all products; archived ones are included only when
	// includeArchived is set.
	ListProducts(ctx context.Context, includeArchived bool) ([]*domain.Product, error)
	ArchiveProduct(ctx context.Context, id string) error

	CreateProductType(ctx context.Context, t *domain.ProductType) error
	ListProductTypes(ctx context.Context) ([]*domain.ProductType, error)

	CreateCounter(ctx context.Context, c *domain.Counter) error
	FindCounter(ctx context.Context, id string) (*domain.Counter, error)
	ListCounters(ctx context.Context) ([]*domain.Counter, error)
}
