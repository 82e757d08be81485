package service

import (
	"context"
	"fmt"

	"storefront/internal/collection"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// CompareCapacity is the maximum number of products in the compare list.
const CompareCapacity = 4

// compareService implements CompareService.
type compareService struct {
	store  *collection.Store[model.ProductSummary]
	logger zerolog.Logger
}

// NewCompareService loads the compare list from adapter.
func NewCompareService(ctx context.Context, adapter storage.Adapter, logger zerolog.Logger) (CompareService, error) {
	logger = logger.With().Str("service", "compare").Logger()

	store, err := collection.New(ctx, adapter, collection.Policy[model.ProductSummary]{
		Key:      storage.KeyCompare,
		Identity: model.ProductSummary.Key,
		Merge:    collection.MergeReject,
		Capacity: CompareCapacity,
		FullErr:  model.ErrCompareFull,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open compare list: %w", err)
	}

	return &compareService{store: store, logger: logger}, nil
}

// Add puts a product in the compare list.
func (s *compareService) Add(ctx context.Context, product model.Product) error {
	if _, err := s.store.Add(ctx, product.Summary()); err != nil {
		s.logger.Debug().Err(err).Int("product_id", product.ID).Msg("compare add rejected")
		return err
	}
	return nil
}

// Remove deletes a product from the compare list.
func (s *compareService) Remove(ctx context.Context, productID int) error {
	removed, err := s.store.Remove(ctx, model.ProductKey(productID))
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrNotFound
	}
	return nil
}

// Contains reports whether the product is being compared.
func (s *compareService) Contains(productID int) bool {
	return s.store.Contains(model.ProductKey(productID))
}

// Items returns the compared products.
func (s *compareService) Items() []model.ProductSummary {
	return s.store.List()
}

// Clear empties the compare list.
func (s *compareService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
