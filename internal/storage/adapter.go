// Package storage provides the key-value persistence adapters behind the
// storefront collections. Values are opaque strings; collections store JSON.
package storage

import "context"

// Adapter is a synchronous string key-value store.
type Adapter interface {
	// Get returns the value stored under key. The boolean is false when the
	// key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Collection keys shared by the storefront stores.
const (
	KeyCart           = "cart"
	KeyWishlist       = "wishlist"
	KeyCompare        = "compareItems"
	KeyRecentlyViewed = "recentlyViewedItems"
	KeyAddresses      = "addresses"
	KeyOrders         = "orders"
)
