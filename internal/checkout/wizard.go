// Package checkout implements the multi-step checkout wizard.
package checkout

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"storefront/internal/model"
	"storefront/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Cart is the view of the shopping cart the wizard needs.
type Cart interface {
	Lines() []model.CartLine
	TotalPrice() decimal.Decimal
	Clear(ctx context.Context) error
}

// OrderRecorder stores placed orders.
type OrderRecorder interface {
	Record(ctx context.Context, order model.PlacedOrder) error
}

// Coupons resolves coupon codes.
type Coupons interface {
	Validate(ctx context.Context, code string) (model.Coupon, error)
}

// Payload carries the data for one step. Only the field belonging to the
// current step is read.
type Payload struct {
	ShippingInfo   *model.AddressInfo    `json:"shippingInfo,omitempty"`
	ShippingMethod *model.ShippingMethod `json:"shippingMethod,omitempty"`
	Payment        *model.PaymentInfo    `json:"payment,omitempty"`
}

// Options configures a wizard.
type Options struct {
	Currency  string
	Validator *validation.Validator
	Now       func() time.Time
}

// Snapshot is a read-only view of the wizard. Payment details are masked.
type Snapshot struct {
	Step           model.Step                        `json:"step"`
	ShippingInfo   *model.AddressInfo                `json:"shippingInfo,omitempty"`
	ShippingMethod model.ShippingMethod              `json:"shippingMethod"`
	Payment        *model.PaymentInfo                `json:"payment,omitempty"`
	Coupon         *model.Coupon                     `json:"coupon,omitempty"`
	Errors         map[model.Step][]model.FieldError `json:"errors,omitempty"`
	Totals         model.Totals                      `json:"totals"`
	Order          *model.PlacedOrder                `json:"order,omitempty"`
}

// Wizard walks a shopper through ShippingInfo, ShippingMethod, Payment and
// Review to Placed. It is safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	step     model.Step
	shipping *model.AddressInfo
	method   model.ShippingMethod
	payment  *model.PaymentInfo
	coupon   *model.Coupon
	errors   map[model.Step][]model.FieldError
	order    *model.PlacedOrder

	cart     Cart
	orders   OrderRecorder
	coupons  Coupons
	validate *validation.Validator
	currency string
	now      func() time.Time
	logger   zerolog.Logger
}

// New starts a wizard at the shipping info step with standard shipping selected.
func New(cart Cart, orders OrderRecorder, coupons Coupons, opts Options, logger zerolog.Logger) *Wizard {
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Wizard{
		step:     model.StepShippingInfo,
		method:   model.ShippingStandard,
		errors:   make(map[model.Step][]model.FieldError),
		cart:     cart,
		orders:   orders,
		coupons:  coupons,
		validate: opts.Validator,
		currency: opts.Currency,
		now:      opts.Now,
		logger:   logger.With().Str("component", "checkout").Logger(),
	}
}

// Step returns the current step.
func (w *Wizard) Step() model.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Submit validates the current step's data and advances one step. On a
// validation failure the wizard stays put, records the field errors and keeps
// previously stored data. Submitting at Review places the order.
func (w *Wizard) Submit(ctx context.Context, p Payload) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case model.StepShippingInfo:
		return w.submitShippingInfo(p.ShippingInfo)
	case model.StepShippingMethod:
		return w.submitShippingMethod(p.ShippingMethod)
	case model.StepPayment:
		return w.submitPayment(p.Payment)
	case model.StepReview:
		return w.placeLocked(ctx)
	default:
		return model.ErrCheckoutClosed
	}
}

func (w *Wizard) submitShippingInfo(info *model.AddressInfo) error {
	if info == nil {
		return w.reject(model.FieldError{Field: "shippingInfo", Rule: "required"})
	}
	if err := w.validate.Struct(*info, "Shipping information is incomplete"); err != nil {
		return w.rejectErr(err)
	}

	stored := *info
	w.shipping = &stored
	w.advance()
	return nil
}

func (w *Wizard) submitShippingMethod(method *model.ShippingMethod) error {
	if method == nil {
		return w.reject(model.FieldError{Field: "shippingMethod", Rule: "required"})
	}
	if !method.Valid() {
		return w.reject(model.FieldError{Field: "shippingMethod", Rule: "oneof"})
	}

	w.method = *method
	w.advance()
	return nil
}

func (w *Wizard) submitPayment(payment *model.PaymentInfo) error {
	if payment == nil {
		return w.reject(model.FieldError{Field: "payment", Rule: "required"})
	}
	if err := w.validate.Struct(*payment, "Payment details are invalid"); err != nil {
		return w.rejectErr(err)
	}

	stored := *payment
	w.payment = &stored
	w.advance()
	return nil
}

func (w *Wizard) advance() {
	delete(w.errors, w.step)
	w.logger.Debug().Stringer("from", w.step).Stringer("to", w.step+1).Msg("checkout step completed")
	w.step++
}

func (w *Wizard) reject(fields ...model.FieldError) error {
	return w.rejectErr(model.NewValidationError(fmt.Sprintf("Step %s is invalid", w.step), fields))
}

func (w *Wizard) rejectErr(err error) error {
	if de, ok := model.AsDomainError(err); ok {
		w.errors[w.step] = de.Fields
	}
	w.logger.Debug().Err(err).Stringer("step", w.step).Msg("checkout step rejected")
	return err
}

// Back returns to an earlier step. Entered data is kept.
func (w *Wizard) Back(step model.Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == model.StepPlaced {
		return model.ErrCheckoutClosed
	}
	if step < model.StepShippingInfo || step >= w.step {
		return model.ErrInvalidStep
	}

	w.step = step
	return nil
}

// ApplyCoupon activates a coupon. Only one coupon may be active; an unknown
// code leaves the current coupon in place.
func (w *Wizard) ApplyCoupon(ctx context.Context, code string) (model.Coupon, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == model.StepPlaced {
		return model.Coupon{}, model.ErrCheckoutClosed
	}
	if w.coupon != nil {
		return model.Coupon{}, model.ErrCouponAlreadyApplied
	}

	c, err := w.coupons.Validate(ctx, code)
	if err != nil {
		w.logger.Debug().Err(err).Str("coupon_code", code).Msg("coupon rejected")
		return model.Coupon{}, err
	}

	w.coupon = &c
	w.logger.Info().Str("coupon_code", c.Code).Float64("percentage", c.Percentage).Msg("coupon applied")

	return c, nil
}

// RemoveCoupon clears the active coupon, if any.
func (w *Wizard) RemoveCoupon() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == model.StepPlaced {
		return model.ErrCheckoutClosed
	}
	w.coupon = nil
	return nil
}

// Totals recomputes the order totals from the current cart.
func (w *Wizard) Totals() model.Totals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalsLocked()
}

func (w *Wizard) totalsLocked() model.Totals {
	if w.order != nil {
		return w.order.Totals
	}
	return ComputeTotals(w.cart.TotalPrice(), w.method, w.coupon, w.currency)
}

// Place records the order, clears the cart and closes the wizard. It is only
// valid at the review step.
func (w *Wizard) Place(ctx context.Context) (model.PlacedOrder, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.placeLocked(ctx); err != nil {
		return model.PlacedOrder{}, err
	}
	return *w.order, nil
}

func (w *Wizard) placeLocked(ctx context.Context) error {
	switch w.step {
	case model.StepPlaced:
		return model.ErrCheckoutClosed
	case model.StepReview:
	default:
		return model.ErrInvalidStep
	}

	lines := w.cart.Lines()
	if len(lines) == 0 {
		return model.ErrEmptyCart
	}

	order := model.PlacedOrder{
		ID:             uuid.New(),
		Lines:          lines,
		Address:        *w.shipping,
		ShippingMethod: w.method,
		Totals:         ComputeTotals(w.cart.TotalPrice(), w.method, w.coupon, w.currency),
		PlacedAt:       w.now().UTC(),
	}
	if w.coupon != nil {
		code := w.coupon.Code
		order.CouponCode = &code
	}

	if err := w.orders.Record(ctx, order); err != nil {
		w.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to record order")
		return fmt.Errorf("failed to place order: %w", err)
	}

	// The order is already recorded, so a failed clear is only logged.
	if err := w.cart.Clear(ctx); err != nil {
		w.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to clear cart after placing order")
	}

	w.order = &order
	w.payment = nil
	w.step = model.StepPlaced

	w.logger.Info().
		Str("order_id", order.ID.String()).
		Int("line_count", len(order.Lines)).
		Str("grand_total", order.Totals.GrandTotal.StringFixed(2)).
		Msg("order placed")

	return nil
}

// Snapshot returns the current state.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		Step:           w.step,
		ShippingMethod: w.method,
		Totals:         w.totalsLocked(),
	}
	if w.shipping != nil {
		info := *w.shipping
		s.ShippingInfo = &info
	}
	if w.payment != nil {
		masked := w.payment.Masked()
		s.Payment = &masked
	}
	if w.coupon != nil {
		c := *w.coupon
		s.Coupon = &c
	}
	if len(w.errors) > 0 {
		s.Errors = maps.Clone(w.errors)
	}
	if w.order != nil {
		o := *w.order
		s.Order = &o
	}

	return s
}
