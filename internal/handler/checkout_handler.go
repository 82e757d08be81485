package handler

import (
	"net/http"
	"strings"

	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler drives the checkout wizard over HTTP.
type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// BackRequest is the body of POST /api/checkout/back.
type BackRequest struct {
	Step string `json:"step"`
}

// CouponRequest is the body of POST /api/checkout/coupon.
type CouponRequest struct {
	Code string `json:"code"`
}

// Begin handles POST /api/checkout. Any checkout in progress is discarded.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	wizard := h.checkout.Begin()
	writeJSON(w, http.StatusCreated, wizard.Snapshot())
}

// Get handles GET /api/checkout.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, wizard.Snapshot())
}

// Discard handles DELETE /api/checkout.
func (h *CheckoutHandler) Discard(w http.ResponseWriter, r *http.Request) {
	h.checkout.Discard()
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/checkout/submit. Only the payload field for the
// current step is read.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.current(w, r)
	if !ok {
		return
	}

	var payload checkout.Payload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := wizard.Submit(r.Context(), payload); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, wizard.Snapshot())
}

// Back handles POST /api/checkout/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.current(w, r)
	if !ok {
		return
	}

	var req BackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	step, known := model.ParseStep(req.Step)
	if !known {
		writeError(w, r, model.ErrInvalidStep, h.logger)
		return
	}

	if err := wizard.Back(step); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, wizard.Snapshot())
}

// ApplyCoupon handles POST /api/checkout/coupon.
func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.current(w, r)
	if !ok {
		return
	}

	var req CouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, r, model.NewValidationError("code is required", []model.FieldError{{Field: "code", Rule: "required"}}), h.logger)
		return
	}

	if _, err := wizard.ApplyCoupon(r.Context(), req.Code); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, wizard.Snapshot())
}

// RemoveCoupon handles DELETE /api/checkout/coupon.
func (h *CheckoutHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.current(w, r)
	if !ok {
		return
	}

	if err := wizard.RemoveCoupon(); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, wizard.Snapshot())
}

// Place handles POST /api/checkout/place.
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.current(w, r)
	if !ok {
		return
	}

	order, err := wizard.Place(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) current(w http.ResponseWriter, r *http.Request) (*checkout.Wizard, bool) {
	wizard, err := h.checkout.Current()
	if err != nil {
		writeError(w, r, err, h.logger)
		return nil, false
	}
	return wizard, true
}
