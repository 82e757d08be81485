package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Step is a checkout wizard state.
type Step int

// Checkout steps in wizard order. StepPlaced is terminal.
const (
	StepShippingInfo Step = iota
	StepShippingMethod
	StepPayment
	StepReview
	StepPlaced
)

var stepNames = map[Step]string{
	StepShippingInfo:   "shippingInfo",
	StepShippingMethod: "shippingMethod",
	StepPayment:        "payment",
	StepReview:         "review",
	StepPlaced:         "placed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the step by name.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a step name.
func (s *Step) UnmarshalText(text []byte) error {
	step, ok := ParseStep(string(text))
	if !ok {
		return fmt.Errorf("unknown checkout step %q", text)
	}
	*s = step
	return nil
}

// ParseStep converts a step name back to its value.
func ParseStep(name string) (Step, bool) {
	for step, n := range stepNames {
		if n == name {
			return step, true
		}
	}
	return 0, false
}

// ShippingMethod selects a delivery speed.
type ShippingMethod string

// Supported shipping methods.
const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingNextDay  ShippingMethod = "nextDay"
)

// Valid reports whether m is a supported method.
func (m ShippingMethod) Valid() bool {
	switch m {
	case ShippingStandard, ShippingExpress, ShippingNextDay:
		return true
	}
	return false
}

// AddressInfo is the contact and delivery data entered in the first checkout step.
type AddressInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode" validate:"required,alphanum,min=3,max=10"`
	Country   string `json:"country" validate:"required"`
}

// PaymentInfo holds card details. It is kept in memory for the lifetime of a
// checkout attempt only.
type PaymentInfo struct {
	CardName   string `json:"cardName" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required,numeric,min=13,max=19"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// Masked returns a copy safe to hand back to callers.
func (p PaymentInfo) Masked() PaymentInfo {
	masked := PaymentInfo{CardName: p.CardName, ExpiryDate: p.ExpiryDate}
	if n := len(p.CardNumber); n >= 4 {
		masked.CardNumber = "**** " + p.CardNumber[n-4:]
	}
	if p.CVV != "" {
		masked.CVV = "***"
	}
	return masked
}

// Coupon is a percentage discount code.
type Coupon struct {
	Code       string  `json:"code"`
	Percentage float64 `json:"percentage"`
}

// Totals are the monetary values derived from the cart and checkout state.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	Tax            decimal.Decimal `json:"tax"`
	CouponDiscount decimal.Decimal `json:"couponDiscount"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	Currency       string          `json:"currency"`
}

// PlacedOrder is the receipt recorded when checkout completes.
type PlacedOrder struct {
	ID             uuid.UUID      `json:"id"`
	Lines          []CartLine     `json:"lines"`
	Address        AddressInfo    `json:"address"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	CouponCode     *string        `json:"couponCode,omitempty"`
	Totals         Totals         `json:"totals"`
	PlacedAt       time.Time      `json:"placedAt"`
}

// Key returns the collection identity of the order.
func (o PlacedOrder) Key() string {
	return o.ID.String()
}
