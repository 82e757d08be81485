package service

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService defines read operations over the product catalogue.
type CatalogService interface {
	// Browse runs a catalogue query. The page resets to 1 whenever the
	// criteria differ from the previous call.
	Browse(ctx context.Context, spec catalog.Spec) (catalog.Result, error)

	// Product retrieves a single product by ID.
	Product(ctx context.Context, id int) (*model.Product, error)

	// Products retrieves the known products among ids, in the order given.
	Products(ctx context.Context, ids []int) ([]model.Product, error)

	Categories(ctx context.Context) ([]model.Category, error)
	Brands(ctx context.Context) ([]model.Brand, error)
}

// CartService manages the shopping cart.
type CartService interface {
	// Add puts quantity units of the product variant in the cart, summing
	// with an existing line for the same variant.
	Add(ctx context.Context, product model.Product, variant model.Variant, quantity int) (model.CartLine, error)

	// Remove deletes the line with the given key.
	Remove(ctx context.Context, key string) error

	// UpdateQuantity sets a line's quantity. A quantity of zero or less removes the line.
	UpdateQuantity(ctx context.Context, key string, quantity int) error

	Clear(ctx context.Context) error
	Lines() []model.CartLine

	// TotalItems is the sum of line quantities.
	TotalItems() int

	// TotalPrice is the discounted value of the cart.
	TotalPrice() decimal.Decimal

	// Subscribe registers fn for cart changes and returns a cancel function.
	Subscribe(fn func([]model.CartLine)) func()
}

// WishlistService manages saved products.
type WishlistService interface {
	Add(ctx context.Context, product model.Product) error
	Remove(ctx context.Context, productID int) error

	// Toggle adds the product when absent and removes it when present. It
	// reports whether the product is now on the wishlist.
	Toggle(ctx context.Context, product model.Product) (bool, error)

	Contains(productID int) bool
	Items() []model.Product
	Clear(ctx context.Context) error
}

// CompareService manages the bounded product comparison list.
type CompareService interface {
	Add(ctx context.Context, product model.Product) error
	Remove(ctx context.Context, productID int) error
	Contains(productID int) bool
	Items() []model.ProductSummary
	Clear(ctx context.Context) error
}

// RecentlyViewedService tracks the most recently viewed products, newest first.
type RecentlyViewedService interface {
	View(ctx context.Context, product model.Product) error
	Items() []model.ProductSummary
	Clear(ctx context.Context) error
}

// AddressBook manages saved shipping addresses. Exactly one address is the
// default whenever the book is not empty.
type AddressBook interface {
	Add(ctx context.Context, address model.Address) (model.Address, error)
	Update(ctx context.Context, address model.Address) (model.Address, error)
	Remove(ctx context.Context, id string) error
	SetDefault(ctx context.Context, id string) error
	Default() (model.Address, bool)
	List() []model.Address
}

// OrderHistory records placed orders, newest first.
type OrderHistory interface {
	Record(ctx context.Context, order model.PlacedOrder) error
	Get(id uuid.UUID) (model.PlacedOrder, error)
	List() []model.PlacedOrder
}

// CheckoutService owns the single in-progress checkout.
type CheckoutService interface {
	// Begin discards any current checkout and starts a new one.
	Begin() *checkout.Wizard

	// Current returns the checkout in progress or model.ErrNoActiveCheckout.
	Current() (*checkout.Wizard, error)

	Discard()
}
