package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Catalog        *handler.CatalogHandler
	Cart           *handler.CartHandler
	Wishlist       *handler.WishlistHandler
	Compare        *handler.CompareHandler
	RecentlyViewed *handler.RecentlyViewedHandler
	Checkout       *handler.CheckoutHandler
	Addresses      *handler.AddressHandler
	Orders         *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/products", h.Catalog.Browse)
	mux.HandleFunc("GET /api/products/{id}", h.Catalog.Product)
	mux.HandleFunc("GET /api/categories", h.Catalog.Categories)
	mux.HandleFunc("GET /api/brands", h.Catalog.Brands)

	// Cart line keys contain "/" and must be path-escaped by clients.
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("POST /api/cart", h.Cart.Add)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("PUT /api/cart/{key}", h.Cart.UpdateQuantity)
	mux.HandleFunc("DELETE /api/cart/{key}", h.Cart.Remove)

	mux.HandleFunc("GET /api/wishlist", h.Wishlist.List)
	mux.HandleFunc("POST /api/wishlist", h.Wishlist.Add)
	mux.HandleFunc("POST /api/wishlist/toggle", h.Wishlist.Toggle)
	mux.HandleFunc("DELETE /api/wishlist", h.Wishlist.Clear)
	mux.HandleFunc("DELETE /api/wishlist/{id}", h.Wishlist.Remove)

	mux.HandleFunc("GET /api/compare", h.Compare.List)
	mux.HandleFunc("GET /api/compare/products", h.Compare.Products)
	mux.HandleFunc("POST /api/compare", h.Compare.Add)
	mux.HandleFunc("DELETE /api/compare", h.Compare.Clear)
	mux.HandleFunc("DELETE /api/compare/{id}", h.Compare.Remove)

	mux.HandleFunc("GET /api/recently-viewed", h.RecentlyViewed.List)
	mux.HandleFunc("POST /api/recently-viewed", h.RecentlyViewed.View)
	mux.HandleFunc("DELETE /api/recently-viewed", h.RecentlyViewed.Clear)

	mux.HandleFunc("POST /api/checkout", h.Checkout.Begin)
	mux.HandleFunc("GET /api/checkout", h.Checkout.Get)
	mux.HandleFunc("DELETE /api/checkout", h.Checkout.Discard)
	mux.HandleFunc("POST /api/checkout/submit", h.Checkout.Submit)
	mux.HandleFunc("POST /api/checkout/back", h.Checkout.Back)
	mux.HandleFunc("POST /api/checkout/coupon", h.Checkout.ApplyCoupon)
	mux.HandleFunc("DELETE /api/checkout/coupon", h.Checkout.RemoveCoupon)
	mux.HandleFunc("POST /api/checkout/place", h.Checkout.Place)

	mux.HandleFunc("GET /api/addresses", h.Addresses.List)
	mux.HandleFunc("GET /api/addresses/default", h.Addresses.Default)
	mux.HandleFunc("POST /api/addresses", h.Addresses.Create)
	mux.HandleFunc("PUT /api/addresses/{id}", h.Addresses.Update)
	mux.HandleFunc("DELETE /api/addresses/{id}", h.Addresses.Remove)
	mux.HandleFunc("POST /api/addresses/{id}/default", h.Addresses.SetDefault)

	mux.HandleFunc("GET /api/orders", h.Orders.List)
	mux.HandleFunc("GET /api/orders/{id}", h.Orders.GetByID)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
