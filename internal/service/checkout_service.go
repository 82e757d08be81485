package service

import (
	"sync"

	"storefront/internal/checkout"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	mu      sync.Mutex
	current *checkout.Wizard

	cart    CartService
	orders  OrderHistory
	coupons checkout.Coupons
	opts    checkout.Options
	logger  zerolog.Logger
}

// NewCheckoutService creates a checkout service with no checkout in progress.
func NewCheckoutService(cart CartService, orders OrderHistory, coupons checkout.Coupons, opts checkout.Options, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		cart:    cart,
		orders:  orders,
		coupons: coupons,
		opts:    opts,
		logger:  logger.With().Str("service", "checkout").Logger(),
	}
}

// Begin starts a fresh checkout, replacing any current one.
func (s *checkoutService) Begin() *checkout.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = checkout.New(s.cart, s.orders, s.coupons, s.opts, s.logger)
	s.logger.Debug().Int("cart_items", s.cart.TotalItems()).Msg("checkout started")

	return s.current
}

// Current returns the checkout in progress.
func (s *checkoutService) Current() (*checkout.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, model.ErrNoActiveCheckout
	}
	return s.current, nil
}

// Discard drops the current checkout.
func (s *checkoutService) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
