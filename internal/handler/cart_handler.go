package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartHandler handles shopping cart requests.
type CartHandler struct {
	catalog service.CatalogService
	cart    service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(catalog service.CatalogService, cart service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		catalog: catalog,
		cart:    cart,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// CartView is the cart as returned to clients.
type CartView struct {
	Lines      []CartLineView  `json:"lines"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CartLineView is a cart line with its key and discounted unit price.
type CartLineView struct {
	Key string `json:"key"`
	model.CartLine
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// AddToCartRequest is the body of POST /api/cart. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID int    `json:"productId"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest is the body of PUT /api/cart/{key}.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) view() CartView {
	lines := h.cart.Lines()
	views := make([]CartLineView, len(lines))
	for i, l := range lines {
		views[i] = CartLineView{Key: l.Key(), CartLine: l, UnitPrice: service.LinePrice(l).Round(2)}
	}

	return CartView{
		Lines:      views,
		TotalItems: h.cart.TotalItems(),
		TotalPrice: h.cart.TotalPrice().Round(2),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if err := (productRef{ProductID: req.ProductID}).validate(); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if _, err := h.cart.Add(r.Context(), *product, model.Variant{Color: req.Color, Size: req.Size}, quantity); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, h.view())
}

// UpdateQuantity handles PUT /api/cart/{key}. A quantity of zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if req.Quantity == nil {
		writeError(w, r, model.NewValidationError("quantity is required", []model.FieldError{{Field: "quantity", Rule: "required"}}), h.logger)
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), r.PathValue("key"), *req.Quantity); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.view())
}

// Remove handles DELETE /api/cart/{key}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Remove(r.Context(), r.PathValue("key")); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
