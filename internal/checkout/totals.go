package checkout

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

var (
	taxRate               = decimal.RequireFromString("0.07")
	freeShippingThreshold = decimal.NewFromInt(100)
	standardShipping      = decimal.NewFromInt(7)
	expressShipping       = decimal.NewFromInt(15)
	nextDayShipping       = decimal.NewFromInt(25)
	hundred               = decimal.NewFromInt(100)
)

// ShippingCost returns the price of method for an order with the given subtotal.
// Standard shipping is free above 100.
func ShippingCost(method model.ShippingMethod, subtotal decimal.Decimal) decimal.Decimal {
	switch method {
	case model.ShippingExpress:
		return expressShipping
	case model.ShippingNextDay:
		return nextDayShipping
	default:
		if subtotal.GreaterThan(freeShippingThreshold) {
			return decimal.Zero
		}
		return standardShipping
	}
}

// ComputeTotals derives order totals. Every amount is rounded to cents.
func ComputeTotals(subtotal decimal.Decimal, method model.ShippingMethod, coupon *model.Coupon, currency string) model.Totals {
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	if coupon != nil {
		discount = subtotal.Mul(decimal.NewFromFloat(coupon.Percentage)).Div(hundred).Round(2)
	}

	tax := subtotal.Mul(taxRate).Round(2)
	shipping := ShippingCost(method, subtotal)

	return model.Totals{
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		Tax:            tax,
		CouponDiscount: discount,
		GrandTotal:     subtotal.Sub(discount).Add(tax).Add(shipping).Round(2),
		Currency:       currency,
	}
}
