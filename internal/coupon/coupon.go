// Package coupon resolves checkout coupon codes to percentage discounts.
// Codes come from a built-in table and, optionally, from gzipped
// "CODE,PERCENT" files stored locally or in S3.
package coupon

import (
	"context"

	"storefront/internal/model"
)

// Validator resolves coupon codes.
type Validator interface {
	// Validate returns the coupon for code. Codes are matched
	// case-insensitively; unknown codes yield model.ErrUnknownCoupon.
	Validate(ctx context.Context, code string) (model.Coupon, error)

	// Close releases resources held by the validator.
	Close() error
}

// Table maps coupon codes to coupons.
type Table interface {
	// Lookup finds a coupon by code, ignoring case and surrounding space.
	Lookup(code string) (model.Coupon, bool)

	// Size returns the number of coupons in the table.
	Size() int
}

// Loader reads a coupon table from a gzipped file.
type Loader interface {
	Load(ctx context.Context, filePath string) (Table, error)
}
