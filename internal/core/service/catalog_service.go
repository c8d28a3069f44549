package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
)

// CatalogService manages the reference data transaction records point at:
// products, product types and counters.
type CatalogService struct {
	repo ports.CatalogRepository
	log  zerolog.Logger
}

func NewCatalogService(repo ports.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if input.Name == "" || input.Code == "" {
		return nil, fmt.Errorf("%w: name and code required", domain.ErrValidation)
	}
	if input.PurchasePrice.IsNegative() || input.SellingPrice.IsNegative() || input.SpecialSellingPrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", domain.ErrValidation)
	}
	if input.ParentID != "" {
		if _, err := s.repo.FindProduct(ctx, input.ParentID); err != nil {
			return nil, err
		}
	}

	product := &domain.Product{
		ID:                  uuid.NewString(),
		Name:                input.Name,
		Description:         input.Description,
		Code:                input.Code,
		TypeID:              input.TypeID,
		PurchasePrice:       input.PurchasePrice,
		SellingPrice:        input.SellingPrice,
		SpecialSellingPrice: input.SpecialSellingPrice,
		ClubID:              input.ClubID,
		ParentID:            input.ParentID,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		s.log.Error().Err(err).Str("code", input.Code).Msg("failed to create product")
		return nil, err
	}

	s.log.Info().Str("product_id", product.ID).Str("code", product.Code).Msg("product created")
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, includeArchived bool) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, includeArchived)
}

// ArchiveProduct flags a product as no longer sellable. Products referenced
// by past sales are never deleted, only archived.
func (s *CatalogService) ArchiveProduct(ctx context.Context, id string) error {
	if _, err := s.repo.FindProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ArchiveProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product archived")
	return nil
}

func (s *CatalogService) CreateProductType(ctx context.Context, name, description string) (*domain.ProductType, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	t := &domain.ProductType{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	if err := s.repo.CreateProductType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *CatalogService) ListProductTypes(ctx context.Context) ([]*domain.ProductType, error) {
	return s.repo.ListProductTypes(ctx)
}

func (s *CatalogService) CreateCounter(ctx context.Context, input ports.CreateCounterInput) (*domain.Counter, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	kind := domain.CounterKind(input.Kind)
	if kind != domain.CounterBar && kind != domain.CounterOffice {
		return nil, fmt.Errorf("%w: counter kind must be bar or office", domain.ErrValidation)
	}
	for _, productID := range input.ProductIDs {
		if _, err := s.repo.FindProduct(ctx, productID); err != nil {
			return nil, err
		}
	}

	counter := &domain.Counter{
		ID:         uuid.NewString(),
		Name:       input.Name,
		ClubID:     input.ClubID,
		Kind:       kind,
		ProductIDs: input.ProductIDs,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateCounter(ctx, counter); err != nil {
		s.log.Error().Err(err).Str("name", input.Name).Msg("failed to create counter")
		return nil, err
	}

	s.log.Info().Str("counter_id", counter.ID).Str("kind", string(kind)).Msg("counter created")
	return counter, nil
}

func (s *CatalogService) GetCounter(ctx context.Context, id string) (*domain.Counter, error) {
	return s.repo.FindCounter(ctx, id)
}

func (s *CatalogService) ListCounters(ctx context.Context) ([]*domain.Counter, error) {
	return s.repo.ListCounters(ctx)
}
