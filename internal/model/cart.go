package model

import "fmt"

// Variant identifies the selected colour and size of a product. Both may be empty.
type Variant struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// Signature returns the "color/size" form used in cart line identity.
func (v Variant) Signature() string {
	return v.Color + "/" + v.Size
}

// CartLine is a single product variant in the cart with its price snapshot.
type CartLine struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount,omitempty"`
	// SalePrice is the catalogue's discounted unit price at the time the
	// line was added. Discount is kept for display only when this is set.
	SalePrice *float64 `json:"salePrice,omitempty"`
}

// Variant returns the variant part of the line identity.
func (l CartLine) Variant() Variant {
	return Variant{Color: l.Color, Size: l.Size}
}

// Key returns the line identity: product id plus variant signature.
func (l CartLine) Key() string {
	return LineKey(l.ProductID, l.Variant())
}

// LineKey formats a cart line identity.
func LineKey(productID int, v Variant) string {
	return fmt.Sprintf("%d:%s", productID, v.Signature())
}

// NewCartLine snapshots the product price and discount for the given variant.
func NewCartLine(p Product, v Variant, quantity int) CartLine {
	p = NormalizeProduct(p)

	var sale *float64
	if p.DiscountPrice != nil {
		dp := *p.DiscountPrice
		sale = &dp
	}

	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image(),
		Color:     v.Color,
		Size:      v.Size,
		Quantity:  quantity,
		Price:     p.Price,
		Discount:  p.Discount,
		SalePrice: sale,
	}
}
