package repository

import (
	"context"

	"storefront/internal/catalog"
)

// ProductRepository is a PostgreSQL-backed catalogue. It serves reads through
// catalog.Source and owns the catalogue schema.
type ProductRepository interface {
	catalog.Source

	// EnsureSchema creates the catalogue tables when they do not exist.
	EnsureSchema(ctx context.Context) error

	// Import upserts every category, brand and product of src in a single
	// transaction.
	Import(ctx context.Context, src catalog.Source) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)
}
