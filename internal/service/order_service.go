package service

import (
	"context"
	"fmt"
	"slices"

	"storefront/internal/collection"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderHistory implements OrderHistory.
type orderHistory struct {
	store  *collection.Store[model.PlacedOrder]
	logger zerolog.Logger
}

// NewOrderHistory loads placed orders from adapter.
func NewOrderHistory(ctx context.Context, adapter storage.Adapter, logger zerolog.Logger) (OrderHistory, error) {
	logger = logger.With().Str("service", "order").Logger()

	store, err := collection.New(ctx, adapter, collection.Policy[model.PlacedOrder]{
		Key:      storage.KeyOrders,
		Identity: model.PlacedOrder.Key,
		Merge:    collection.MergeReject,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open order history: %w", err)
	}

	return &orderHistory{store: store, logger: logger}, nil
}

// Record stores a placed order at the front of the history.
func (h *orderHistory) Record(ctx context.Context, order model.PlacedOrder) error {
	err := h.store.Update(ctx, func(orders []model.PlacedOrder) ([]model.PlacedOrder, error) {
		if slices.ContainsFunc(orders, func(o model.PlacedOrder) bool { return o.ID == order.ID }) {
			return nil, model.ErrAlreadyPresent
		}
		return append([]model.PlacedOrder{order}, orders...), nil
	})
	if err != nil {
		h.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to record order")
		return err
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Int("line_count", len(order.Lines)).
		Msg("order recorded")

	return nil
}

// Get retrieves an order by its ID.
func (h *orderHistory) Get(id uuid.UUID) (model.PlacedOrder, error) {
	order, ok := h.store.Get(id.String())
	if !ok {
		h.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return model.PlacedOrder{}, model.ErrNotFound
	}
	return order, nil
}

// List returns placed orders, newest first.
func (h *orderHistory) List() []model.PlacedOrder {
	return h.store.List()
}
