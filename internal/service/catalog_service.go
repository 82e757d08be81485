package service

import (
	"context"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	source  catalog.Source
	engine  *catalog.Engine
	browser *catalog.Browser
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(source catalog.Source, logger zerolog.Logger) CatalogService {
	return &catalogService{
		source:  source,
		engine:  catalog.NewEngine(),
		browser: catalog.NewBrowser(),
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

// Browse runs a catalogue query.
func (s *catalogService) Browse(ctx context.Context, spec catalog.Spec) (catalog.Result, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return catalog.Result{}, fmt.Errorf("failed to get products: %w", err)
	}

	requested := spec.Page
	spec = s.browser.Peek(spec)

	result, err := s.engine.Query(products, spec)
	if err != nil {
		s.logger.Warn().Err(err).Msg("invalid catalog query")
		return catalog.Result{}, err
	}
	s.browser.Commit(spec)

	s.logger.Debug().
		Int("total", result.TotalCount).
		Int("requested_page", requested).
		Int("page", result.Page).
		Str("sort", string(spec.Sort)).
		Msg("catalog query")

	return result, nil
}

// Product retrieves a single product by ID.
func (s *catalogService) Product(ctx context.Context, id int) (*model.Product, error) {
	if id <= 0 {
		s.logger.Warn().Int("product_id", id).Msg("invalid product ID")
		return nil, model.ErrProductNotFound
	}

	product, err := s.source.Product(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Products retrieves multiple products by their IDs. Unknown IDs are skipped.
func (s *catalogService) Products(ctx context.Context, ids []int) ([]model.Product, error) {
	products := make([]model.Product, 0, len(ids))

	for _, id := range ids {
		p, err := s.source.Product(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Int("product_id", id).Msg("failed to get product by ID")
			return nil, fmt.Errorf("failed to get products: %w", err)
		}
		if p != nil {
			products = append(products, *p)
		}
	}

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(products)).
		Msg("retrieved products by IDs")

	return products, nil
}

// Categories lists all categories.
func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.source.Categories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// Brands lists all brands.
func (s *catalogService) Brands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.source.Brands(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get brands")
		return nil, fmt.Errorf("failed to get brands: %w", err)
	}
	return brands, nil
}
