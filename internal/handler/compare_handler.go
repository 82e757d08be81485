package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CompareHandler handles product comparison requests.
type CompareHandler struct {
	catalog service.CatalogService
	compare service.CompareService
	logger  zerolog.Logger
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(catalog service.CatalogService, compare service.CompareService, logger zerolog.Logger) *CompareHandler {
	return &CompareHandler{
		catalog: catalog,
		compare: compare,
		logger:  logger.With().Str("handler", "compare").Logger(),
	}
}

// List handles GET /api/compare.
func (h *CompareHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.compare.Items())
}

// Products handles GET /api/compare/products, returning the full catalogue
// records of the compared products for side-by-side display.
func (h *CompareHandler) Products(w http.ResponseWriter, r *http.Request) {
	items := h.compare.Items()
	ids := make([]int, len(items))
	for i, s := range items {
		ids[i] = s.ID
	}

	products, err := h.catalog.Products(r.Context(), ids)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Add handles POST /api/compare.
func (h *CompareHandler) Add(w http.ResponseWriter, r *http.Request) {
	product, ok := resolveProduct(w, r, h.catalog, h.logger)
	if !ok {
		return
	}

	if err := h.compare.Add(r.Context(), *product); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, h.compare.Items())
}

// Remove handles DELETE /api/compare/{id}.
func (h *CompareHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.compare.Remove(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/compare.
func (h *CompareHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.compare.Clear(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
