package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/studorg/counter-system/internal/core/domain"
)

// CreateProductInput carries the fields for a new catalog item.
type CreateProductInput struct {
	Name                string
	Description         string
	Code                string
	TypeID              string
	PurchasePrice       decimal.Decimal
	SellingPrice        decimal.Decimal
	SpecialSellingPrice decimal.Decimal
	ClubID              string
	ParentID            string
}

// CreateCounterInput carries the fields for a new counter.
type CreateCounterInput struct {
	Name       string
	ClubID     string
	Kind       string
	ProductIDs []string
}

// CatalogService defines reference-data use cases.
type CatalogService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context, includeArchived bool) ([]*domain.Product, error)
	ArchiveProduct(ctx context.Context, id string) error

	CreateProductType(ctx context.Context, name, description string) (*domain.ProductType, error)
	ListProductTypes(ctx context.Context) ([]*domain.ProductType, error)

	CreateCounter(ctx context.Context, input CreateCounterInput) (*domain.Counter, error)
	GetCounter(ctx context.Context, id string) (*domain.Counter, error)
	ListCounters(ctx context.Context) ([]*domain.Counter, error)
}
