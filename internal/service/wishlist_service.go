package service

import (
	"context"
	"fmt"

	"storefront/internal/collection"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// wishlistService implements WishlistService.
type wishlistService struct {
	store  *collection.Store[model.Product]
	logger zerolog.Logger
}

// NewWishlistService loads the wishlist from adapter.
func NewWishlistService(ctx context.Context, adapter storage.Adapter, logger zerolog.Logger) (WishlistService, error) {
	logger = logger.With().Str("service", "wishlist").Logger()

	store, err := collection.New(ctx, adapter, collection.Policy[model.Product]{
		Key:      storage.KeyWishlist,
		Identity: model.Product.Key,
		Merge:    collection.MergeReject,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open wishlist: %w", err)
	}

	return &wishlistService{store: store, logger: logger}, nil
}

// Add saves a product. Saving it twice yields model.ErrAlreadyPresent.
func (s *wishlistService) Add(ctx context.Context, product model.Product) error {
	if _, err := s.store.Add(ctx, product); err != nil {
		return err
	}
	s.logger.Debug().Int("product_id", product.ID).Msg("added to wishlist")
	return nil
}

// Remove deletes a saved product.
func (s *wishlistService) Remove(ctx context.Context, productID int) error {
	removed, err := s.store.Remove(ctx, model.ProductKey(productID))
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrNotFound
	}
	return nil
}

// Toggle flips the product's wishlist membership.
func (s *wishlistService) Toggle(ctx context.Context, product model.Product) (bool, error) {
	if s.store.Contains(product.Key()) {
		if err := s.Remove(ctx, product.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.Add(ctx, product); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether the product is saved.
func (s *wishlistService) Contains(productID int) bool {
	return s.store.Contains(model.ProductKey(productID))
}

// Items returns the saved products.
func (s *wishlistService) Items() []model.Product {
	return s.store.List()
}

// Clear empties the wishlist.
func (s *wishlistService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
