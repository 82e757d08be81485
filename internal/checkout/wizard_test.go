package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/coupon"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeCart is an in-memory Cart.
type fakeCart struct {
	lines    []model.CartLine
	clearErr error
	cleared  bool
}

func (c *fakeCart) Lines() []model.CartLine { return c.lines }

func (c *fakeCart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c *fakeCart) Clear(context.Context) error {
	if c.clearErr != nil {
		return c.clearErr
	}
	c.lines = nil
	c.cleared = true
	return nil
}

// MockOrderRecorder is a mock implementation of OrderRecorder.
type MockOrderRecorder struct {
	mock.Mock
}

func (m *MockOrderRecorder) Record(ctx context.Context, order model.PlacedOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

var placedAt = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func validShipping() *model.AddressInfo {
	return &model.AddressInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Address:   "12 Analytical Way",
		City:      "London",
		ZipCode:   "N1C4AG",
		Country:   "UK",
	}
}

func validPayment() *model.PaymentInfo {
	return &model.PaymentInfo{
		CardName:   "Ada Lovelace",
		CardNumber: "4111111111111111",
		ExpiryDate: "12/99",
		CVV:        "123",
	}
}

func method(m model.ShippingMethod) *model.ShippingMethod { return &m }

func newWizard(t *testing.T, cart *fakeCart, orders OrderRecorder) *Wizard {
	t.Helper()
	coupons, err := coupon.NewValidator(context.Background(), nil, nil, zerolog.Nop())
	require.NoError(t, err)

	return New(cart, orders, coupons, Options{
		Currency: "USD",
		Now:      func() time.Time { return placedAt },
	}, zerolog.Nop())
}

func cartOf120() *fakeCart {
	return &fakeCart{lines: []model.CartLine{
		{ProductID: 1, Name: "Jacket", Quantity: 1, Price: 100},
		{ProductID: 2, Name: "Socks", Color: "black", Quantity: 2, Price: 10},
	}}
}

// toReview walks the wizard to the review step.
func toReview(t *testing.T, w *Wizard) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.Submit(ctx, Payload{ShippingInfo: validShipping()}))
	require.NoError(t, w.Submit(ctx, Payload{ShippingMethod: method(model.ShippingStandard)}))
	require.NoError(t, w.Submit(ctx, Payload{Payment: validPayment()}))
	require.Equal(t, model.StepReview, w.Step())
}

func TestWizard_HappyPath(t *testing.T) {
	ctx := context.Background()
	cart := cartOf120()
	orders := new(MockOrderRecorder)
	orders.On("Record", ctx, mock.AnythingOfType("model.PlacedOrder")).Return(nil)

	w := newWizard(t, cart, orders)
	assert.Equal(t, model.StepShippingInfo, w.Step())

	toReview(t, w)

	_, err := w.ApplyCoupon(ctx, "SAVE20")
	require.NoError(t, err)

	totals := w.Totals()
	assert.Equal(t, "120.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.ShippingCost.StringFixed(2))
	assert.Equal(t, "8.40", totals.Tax.StringFixed(2))
	assert.Equal(t, "24.00", totals.CouponDiscount.StringFixed(2))
	assert.Equal(t, "104.40", totals.GrandTotal.StringFixed(2))

	order, err := w.Place(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.StepPlaced, w.Step())
	assert.True(t, cart.cleared)
	assert.Len(t, order.Lines, 2)
	assert.Equal(t, "Ada", order.Address.FirstName)
	assert.Equal(t, model.ShippingStandard, order.ShippingMethod)
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "SAVE20", *order.CouponCode)
	assert.Equal(t, placedAt, order.PlacedAt)
	assert.Equal(t, "104.40", order.Totals.GrandTotal.StringFixed(2))

	// totals stay frozen at the placed order once the cart is gone
	assert.Equal(t, "104.40", w.Totals().GrandTotal.StringFixed(2))

	orders.AssertExpectations(t)
}

func TestWizard_SubmitAtReviewPlaces(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRecorder)
	orders.On("Record", ctx, mock.Anything).Return(nil)

	w := newWizard(t, cartOf120(), orders)
	toReview(t, w)

	require.NoError(t, w.Submit(ctx, Payload{}))
	assert.Equal(t, model.StepPlaced, w.Step())
	assert.NotNil(t, w.Snapshot().Order)
}

func TestWizard_SubmitValidationFailure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(t *testing.T, w *Wizard)
		payload Payload
		step    model.Step
		fields  []model.FieldError
	}{
		{
			name:    "missing shipping info",
			payload: Payload{},
			step:    model.StepShippingInfo,
			fields:  []model.FieldError{{Field: "shippingInfo", Rule: "required"}},
		},
		{
			name: "invalid email",
			payload: Payload{ShippingInfo: func() *model.AddressInfo {
				a := validShipping()
				a.Email = "ada"
				return a
			}()},
			step:   model.StepShippingInfo,
			fields: []model.FieldError{{Field: "email", Rule: "email"}},
		},
		{
			name: "unknown shipping method",
			prepare: func(t *testing.T, w *Wizard) {
				require.NoError(t, w.Submit(ctx, Payload{ShippingInfo: validShipping()}))
			},
			payload: Payload{ShippingMethod: method("drone")},
			step:    model.StepShippingMethod,
			fields:  []model.FieldError{{Field: "shippingMethod", Rule: "oneof"}},
		},
		{
			name: "short card number",
			prepare: func(t *testing.T, w *Wizard) {
				require.NoError(t, w.Submit(ctx, Payload{ShippingInfo: validShipping()}))
				require.NoError(t, w.Submit(ctx, Payload{ShippingMethod: method(model.ShippingExpress)}))
			},
			payload: Payload{Payment: func() *model.PaymentInfo {
				p := validPayment()
				p.CardNumber = "4111"
				return p
			}()},
			step:   model.StepPayment,
			fields: []model.FieldError{{Field: "cardNumber", Rule: "min"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWizard(t, cartOf120(), new(MockOrderRecorder))
			if tt.prepare != nil {
				tt.prepare(t, w)
			}

			err := w.Submit(ctx, tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidationFailed)

			snap := w.Snapshot()
			assert.Equal(t, tt.step, snap.Step)
			assert.Equal(t, tt.fields, snap.Errors[tt.step])
		})
	}
}

func TestWizard_FailedSubmitKeepsStoredData(t *testing.T) {
	ctx := context.Background()
	w := newWizard(t, cartOf120(), new(MockOrderRecorder))

	require.NoError(t, w.Submit(ctx, Payload{ShippingInfo: validShipping()}))
	require.NoError(t, w.Back(model.StepShippingInfo))

	bad := validShipping()
	bad.City = ""
	require.Error(t, w.Submit(ctx, Payload{ShippingInfo: bad}))

	snap := w.Snapshot()
	require.NotNil(t, snap.ShippingInfo)
	assert.Equal(t, "London", snap.ShippingInfo.City)
	assert.Equal(t, model.StepShippingInfo, snap.Step)

	// a later valid submit clears the step errors
	require.NoError(t, w.Submit(ctx, Payload{ShippingInfo: validShipping()}))
	assert.Empty(t, w.Snapshot().Errors)
}

func TestWizard_Back(t *testing.T) {
	ctx := context.Background()
	w := newWizard(t, cartOf120(), new(MockOrderRecorder))
	toReview(t, w)

	assert.ErrorIs(t, w.Back(model.StepReview), model.ErrInvalidStep)
	assert.ErrorIs(t, w.Back(model.StepPlaced), model.ErrInvalidStep)
	assert.ErrorIs(t, w.Back(model.Step(-1)), model.ErrInvalidStep)

	require.NoError(t, w.Back(model.StepShippingMethod))
	snap := w.Snapshot()
	assert.Equal(t, model.StepShippingMethod, snap.Step)
	assert.NotNil(t, snap.ShippingInfo)
	assert.NotNil(t, snap.Payment)

	require.NoError(t, w.Submit(ctx, Payload{ShippingMethod: method(model.ShippingNextDay)}))
	assert.Equal(t, model.StepPayment, w.Step())
	assert.Equal(t, "25.00", w.Totals().ShippingCost.StringFixed(2))
}

func TestWizard_Coupons(t *testing.T) {
	ctx := context.Background()
	w := newWizard(t, cartOf120(), new(MockOrderRecorder))

	_, err := w.ApplyCoupon(ctx, "BOGUS")
	assert.ErrorIs(t, err, model.ErrUnknownCoupon)
	assert.Nil(t, w.Snapshot().Coupon)

	c, err := w.ApplyCoupon(ctx, "save10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)

	_, err = w.ApplyCoupon(ctx, "BOGUS")
	assert.ErrorIs(t, err, model.ErrCouponAlreadyApplied)

	_, err = w.ApplyCoupon(ctx, "SAVE20")
	assert.ErrorIs(t, err, model.ErrCouponAlreadyApplied)
	assert.Equal(t, "SAVE10", w.Snapshot().Coupon.Code)
	assert.Equal(t, "12.00", w.Totals().CouponDiscount.StringFixed(2))

	require.NoError(t, w.RemoveCoupon())
	assert.Nil(t, w.Snapshot().Coupon)

	_, err = w.ApplyCoupon(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, "24.00", w.Totals().CouponDiscount.StringFixed(2))
}

func TestWizard_TotalsFollowCart(t *testing.T) {
	cart := cartOf120()
	w := newWizard(t, cart, new(MockOrderRecorder))

	assert.Equal(t, "0.00", w.Totals().ShippingCost.StringFixed(2))

	cart.lines = cart.lines[:1]
	cart.lines[0].Price = 50

	totals := w.Totals()
	assert.Equal(t, "50.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "7.00", totals.ShippingCost.StringFixed(2))
}

func TestWizard_PlaceRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("before review", func(t *testing.T) {
		w := newWizard(t, cartOf120(), new(MockOrderRecorder))
		_, err := w.Place(ctx)
		assert.ErrorIs(t, err, model.ErrInvalidStep)
	})

	t.Run("empty cart", func(t *testing.T) {
		cart := cartOf120()
		w := newWizard(t, cart, new(MockOrderRecorder))
		toReview(t, w)
		cart.lines = nil

		_, err := w.Place(ctx)
		assert.ErrorIs(t, err, model.ErrEmptyCart)
		assert.Equal(t, model.StepReview, w.Step())
	})

	t.Run("recorder failure stays on review", func(t *testing.T) {
		orders := new(MockOrderRecorder)
		orders.On("Record", ctx, mock.Anything).Return(errors.New("disk full"))

		cart := cartOf120()
		w := newWizard(t, cart, orders)
		toReview(t, w)

		_, err := w.Place(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to place order")
		assert.Equal(t, model.StepReview, w.Step())
		assert.False(t, cart.cleared)
	})

	t.Run("cart clear failure still places", func(t *testing.T) {
		orders := new(MockOrderRecorder)
		orders.On("Record", ctx, mock.Anything).Return(nil)

		cart := cartOf120()
		cart.clearErr = errors.New("disk full")
		w := newWizard(t, cart, orders)
		toReview(t, w)

		_, err := w.Place(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.StepPlaced, w.Step())
	})
}

func TestWizard_ClosedAfterPlacement(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRecorder)
	orders.On("Record", ctx, mock.Anything).Return(nil)

	w := newWizard(t, cartOf120(), orders)
	toReview(t, w)
	_, err := w.Place(ctx)
	require.NoError(t, err)

	_, err = w.Place(ctx)
	assert.ErrorIs(t, err, model.ErrCheckoutClosed)
	assert.ErrorIs(t, w.Submit(ctx, Payload{}), model.ErrCheckoutClosed)
	assert.ErrorIs(t, w.Back(model.StepShippingInfo), model.ErrCheckoutClosed)
	_, err = w.ApplyCoupon(ctx, "SAVE10")
	assert.ErrorIs(t, err, model.ErrCheckoutClosed)
	assert.ErrorIs(t, w.RemoveCoupon(), model.ErrCheckoutClosed)

	orders.AssertNumberOfCalls(t, "Record", 1)
}

func TestWizard_SnapshotMasksPayment(t *testing.T) {
	w := newWizard(t, cartOf120(), new(MockOrderRecorder))
	toReview(t, w)

	snap := w.Snapshot()
	require.NotNil(t, snap.Payment)
	assert.Equal(t, "**** 1111", snap.Payment.CardNumber)
	assert.Equal(t, "***", snap.Payment.CVV)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "4111111111111111")
	assert.Contains(t, string(data), `"step":"review"`)
}
