package service

import (
	"context"
	"fmt"
	"slices"

	"storefront/internal/collection"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService over a persistent collection.
type cartService struct {
	store  *collection.Store[model.CartLine]
	logger zerolog.Logger
}

// NewCartService loads the cart from adapter.
func NewCartService(ctx context.Context, adapter storage.Adapter, logger zerolog.Logger) (CartService, error) {
	logger = logger.With().Str("service", "cart").Logger()

	store, err := collection.New(ctx, adapter, collection.Policy[model.CartLine]{
		Key:      storage.KeyCart,
		Identity: model.CartLine.Key,
		Merge:    collection.MergeCombine,
		Combine: func(existing, incoming model.CartLine) model.CartLine {
			existing.Quantity += incoming.Quantity
			return existing
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cart: %w", err)
	}

	return &cartService{store: store, logger: logger}, nil
}

// Add puts quantity units of a product variant in the cart.
func (s *cartService) Add(ctx context.Context, product model.Product, variant model.Variant, quantity int) (model.CartLine, error) {
	if quantity <= 0 {
		s.logger.Warn().Int("product_id", product.ID).Int("quantity", quantity).Msg("invalid quantity")
		return model.CartLine{}, model.ErrInvalidQuantity
	}

	line := model.NewCartLine(product, variant, quantity)
	outcome, err := s.store.Add(ctx, line)
	if err != nil {
		return model.CartLine{}, err
	}

	stored, _ := s.store.Get(line.Key())

	s.logger.Debug().
		Str("line", line.Key()).
		Stringer("outcome", outcome).
		Int("quantity", stored.Quantity).
		Msg("cart line added")

	return stored, nil
}

// Remove deletes a line.
func (s *cartService) Remove(ctx context.Context, key string) error {
	removed, err := s.store.Remove(ctx, key)
	if err != nil {
		return err
	}
	if !removed {
		return model.ErrLineNotFound
	}
	return nil
}

// UpdateQuantity sets a line's quantity, removing it when quantity <= 0.
func (s *cartService) UpdateQuantity(ctx context.Context, key string, quantity int) error {
	return s.store.Update(ctx, func(lines []model.CartLine) ([]model.CartLine, error) {
		idx := slices.IndexFunc(lines, func(l model.CartLine) bool { return l.Key() == key })
		if idx < 0 {
			return nil, model.ErrLineNotFound
		}
		if quantity <= 0 {
			return slices.Delete(lines, idx, idx+1), nil
		}
		lines[idx].Quantity = quantity
		return lines, nil
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Lines returns the cart lines in insertion order.
func (s *cartService) Lines() []model.CartLine {
	return s.store.List()
}

// TotalItems is the sum of line quantities.
func (s *cartService) TotalItems() int {
	total := 0
	for _, l := range s.store.List() {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums the discounted line prices.
func (s *cartService) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.store.List() {
		total = total.Add(LinePrice(l).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// LinePrice is the unit price of a line: the snapshotted sale price when
// present, otherwise the base price less its percentage discount, in cents.
func LinePrice(l model.CartLine) decimal.Decimal {
	if l.SalePrice != nil {
		return decimal.NewFromFloat(*l.SalePrice).Round(2)
	}

	price := decimal.NewFromFloat(l.Price)
	if l.Discount > 0 {
		price = price.Sub(price.Mul(decimal.NewFromFloat(l.Discount)).Div(decimal.NewFromInt(100)))
	}
	return price.Round(2)
}

// Subscribe registers fn for cart changes.
func (s *cartService) Subscribe(fn func([]model.CartLine)) func() {
	return s.store.Subscribe(fn)
}
