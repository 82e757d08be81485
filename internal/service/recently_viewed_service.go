package service

import (
	"context"
	"fmt"

	"storefront/internal/collection"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// recentlyViewedService implements RecentlyViewedService.
type recentlyViewedService struct {
	store *collection.Store[model.ProductSummary]
}

// NewRecentlyViewedService loads the recently viewed list, keeping at most
// maxItems entries.
func NewRecentlyViewedService(ctx context.Context, adapter storage.Adapter, maxItems int, logger zerolog.Logger) (RecentlyViewedService, error) {
	if maxItems < 1 {
		return nil, fmt.Errorf("recently viewed capacity must be at least 1, got %d", maxItems)
	}

	store, err := collection.New(ctx, adapter, collection.Policy[model.ProductSummary]{
		Key:      storage.KeyRecentlyViewed,
		Identity: model.ProductSummary.Key,
		Merge:    collection.MergeMoveToFront,
		Capacity: maxItems,
		Truncate: true,
	}, logger.With().Str("service", "recently-viewed").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to open recently viewed list: %w", err)
	}

	return &recentlyViewedService{store: store}, nil
}

// View records a product view.
func (s *recentlyViewedService) View(ctx context.Context, product model.Product) error {
	_, err := s.store.Add(ctx, product.Summary())
	return err
}

// Items returns viewed products, newest first.
func (s *recentlyViewedService) Items() []model.ProductSummary {
	return s.store.List()
}

// Clear empties the list.
func (s *recentlyViewedService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
