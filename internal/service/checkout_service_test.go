package service

import (
	"context"
	"testing"

	"storefront/internal/checkout"
	"storefront/internal/coupon"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter()
	logger := zerolog.Nop()

	cart, err := NewCartService(ctx, adapter, logger)
	require.NoError(t, err)
	orders, err := NewOrderHistory(ctx, adapter, logger)
	require.NoError(t, err)
	coupons, err := coupon.NewValidator(ctx, nil, nil, logger)
	require.NoError(t, err)
	defer coupons.Close()

	svc := NewCheckoutService(cart, orders, coupons, checkout.Options{Currency: "USD"}, logger)

	_, err = svc.Current()
	assert.ErrorIs(t, err, model.ErrNoActiveCheckout)

	_, err = cart.Add(ctx, product(1, "jacket", 120), model.Variant{}, 1)
	require.NoError(t, err)

	w := svc.Begin()
	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, w, current)

	method := model.ShippingStandard
	require.NoError(t, w.Submit(ctx, checkout.Payload{ShippingInfo: &model.AddressInfo{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Address: "12 Analytical Way", City: "London", ZipCode: "N1C4AG", Country: "UK",
	}}))
	require.NoError(t, w.Submit(ctx, checkout.Payload{ShippingMethod: &method}))
	require.NoError(t, w.Submit(ctx, checkout.Payload{Payment: &model.PaymentInfo{
		CardName: "Ada Lovelace", CardNumber: "4111111111111111", ExpiryDate: "12/99", CVV: "123",
	}}))

	_, err = w.ApplyCoupon(ctx, "SAVE20")
	require.NoError(t, err)

	order, err := w.Place(ctx)
	require.NoError(t, err)

	assert.Equal(t, "104.40", order.Totals.GrandTotal.StringFixed(2))
	assert.Empty(t, cart.Lines())
	require.Len(t, orders.List(), 1)
	assert.Equal(t, order.ID, orders.List()[0].ID)

	fresh := svc.Begin()
	assert.NotSame(t, w, fresh)
	assert.Equal(t, model.StepShippingInfo, fresh.Step())

	svc.Discard()
	_, err = svc.Current()
	assert.ErrorIs(t, err, model.ErrNoActiveCheckout)
}
