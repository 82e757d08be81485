package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// WishlistHandler handles wishlist requests.
type WishlistHandler struct {
	catalog  service.CatalogService
	wishlist service.WishlistService
	logger   zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(catalog service.CatalogService, wishlist service.WishlistService, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		catalog:  catalog,
		wishlist: wishlist,
		logger:   logger.With().Str("handler", "wishlist").Logger(),
	}
}

// ToggleResponse reports wishlist membership after a toggle.
type ToggleResponse struct {
	ProductID  int  `json:"productId"`
	InWishlist bool `json:"inWishlist"`
}

// List handles GET /api/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.wishlist.Items())
}

// Add handles POST /api/wishlist.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	product, ok := resolveProduct(w, r, h.catalog, h.logger)
	if !ok {
		return
	}

	if err := h.wishlist.Add(r.Context(), *product); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, h.wishlist.Items())
}

// Toggle handles POST /api/wishlist/toggle.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	product, ok := resolveProduct(w, r, h.catalog, h.logger)
	if !ok {
		return
	}

	in, err := h.wishlist.Toggle(r.Context(), *product)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{ProductID: product.ID, InWishlist: in})
}

// Remove handles DELETE /api/wishlist/{id}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.wishlist.Remove(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/wishlist.
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlist.Clear(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveProduct decodes a productRef body and loads the product it names,
// writing the error response on failure.
func resolveProduct(w http.ResponseWriter, r *http.Request, catalog service.CatalogService, logger zerolog.Logger) (*model.Product, bool) {
	var ref productRef
	if err := decodeJSON(r, &ref); err != nil {
		writeError(w, r, err, logger)
		return nil, false
	}
	if err := ref.validate(); err != nil {
		writeError(w, r, err, logger)
		return nil, false
	}

	product, err := catalog.Product(r.Context(), ref.ProductID)
	if err != nil {
		writeError(w, r, err, logger)
		return nil, false
	}
	return product, true
}
