package handler

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CatalogHandler handles catalogue browsing requests.
type CatalogHandler struct {
	catalog service.CatalogService
	viewed  service.RecentlyViewedService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler. Product detail requests are
// recorded in viewed.
func NewCatalogHandler(catalog service.CatalogService, viewed service.RecentlyViewedService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		viewed:  viewed,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// Browse handles GET /api/products.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	spec, err := parseSpec(r.URL.Query())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	result, err := h.catalog.Browse(r.Context(), spec)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Product handles GET /api/products/{id}.
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrProductNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.viewed.View(r.Context(), *product); err != nil {
		h.logger.Warn().Err(err).Int("product_id", id).Msg("failed to record product view")
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Brands handles GET /api/brands.
func (h *CatalogHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.Brands(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

// parseSpec reads a catalogue query from URL parameters. List parameters may
// be repeated or comma separated.
func parseSpec(q url.Values) (catalog.Spec, error) {
	spec := catalog.Spec{
		Search: strings.TrimSpace(q.Get("search")),
		Colors: listParam(q, "color"),
		Sizes:  listParam(q, "size"),
		Tab:    q.Get("tab"),
		Expr:   q.Get("expr"),
		Sort:   catalog.SortKey(q.Get("sort")),
	}

	var err error
	if spec.CategoryID, err = intParam(q, "category"); err != nil {
		return catalog.Spec{}, err
	}
	if spec.Page, err = intParam(q, "page"); err != nil {
		return catalog.Spec{}, err
	}

	for _, raw := range listParam(q, "brand") {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.Spec{}, invalidParam("brand", raw)
		}
		spec.BrandIDs = append(spec.BrandIDs, id)
	}

	if spec.MinPrice, err = floatPtrParam(q, "minPrice"); err != nil {
		return catalog.Spec{}, err
	}
	if spec.MaxPrice, err = floatPtrParam(q, "maxPrice"); err != nil {
		return catalog.Spec{}, err
	}
	if p, err := floatPtrParam(q, "minRating"); err != nil {
		return catalog.Spec{}, err
	} else if p != nil {
		spec.MinRating = *p
	}

	if raw := q.Get("inStock"); raw != "" {
		if spec.InStockOnly, err = strconv.ParseBool(raw); err != nil {
			return catalog.Spec{}, invalidParam("inStock", raw)
		}
	}

	return spec, nil
}

func listParam(q url.Values, name string) []string {
	var out []string
	for _, v := range q[name] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, raw)
	}
	return v, nil
}

func floatPtrParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, invalidParam(name, raw)
	}
	return &v, nil
}

func invalidParam(name, raw string) error {
	return model.NewDomainError(model.ErrCodeInvalidQuery, fmt.Sprintf("invalid %s parameter %q", name, raw))
}
