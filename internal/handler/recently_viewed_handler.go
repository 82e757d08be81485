package handler

import (
	"net/http"

	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// RecentlyViewedHandler handles the recently viewed products list.
type RecentlyViewedHandler struct {
	catalog service.CatalogService
	viewed  service.RecentlyViewedService
	logger  zerolog.Logger
}

// NewRecentlyViewedHandler creates a new recently viewed handler.
func NewRecentlyViewedHandler(catalog service.CatalogService, viewed service.RecentlyViewedService, logger zerolog.Logger) *RecentlyViewedHandler {
	return &RecentlyViewedHandler{
		catalog: catalog,
		viewed:  viewed,
		logger:  logger.With().Str("handler", "recently-viewed").Logger(),
	}
}

// List handles GET /api/recently-viewed.
func (h *RecentlyViewedHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.viewed.Items())
}

// View handles POST /api/recently-viewed.
func (h *RecentlyViewedHandler) View(w http.ResponseWriter, r *http.Request) {
	product, ok := resolveProduct(w, r, h.catalog, h.logger)
	if !ok {
		return
	}

	if err := h.viewed.View(r.Context(), *product); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.viewed.Items())
}

// Clear handles DELETE /api/recently-viewed.
func (h *RecentlyViewedHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.viewed.Clear(r.Context()); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
