package model

import (
	"math"
	"strconv"
)

// Product represents an item in the storefront catalogue.
type Product struct {
	ID            int      `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	Description   string   `json:"description" db:"description"`
	Price         float64  `json:"price" db:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty" db:"discount_price"`
	Discount      float64  `json:"discount,omitempty" db:"discount"`
	Images        []string `json:"images" db:"images"`
	Rating        float64  `json:"rating" db:"rating"`
	RatingCount   int      `json:"ratingCount" db:"rating_count"`
	CategoryID    int      `json:"categoryId" db:"category_id"`
	BrandID       int      `json:"brandId" db:"brand_id"`
	Colors        []string `json:"colors,omitempty" db:"colors"`
	Sizes         []string `json:"sizes,omitempty" db:"sizes"`
	Features      []string `json:"features,omitempty" db:"features"`
	InStock       bool     `json:"inStock" db:"in_stock"`
	Stock         int      `json:"stock" db:"stock"`
	NewArrival    bool     `json:"newArrival" db:"new_arrival"`
	Bestseller    bool     `json:"bestseller" db:"bestseller"`
}

// Category groups products on the storefront.
type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Brand is a product manufacturer.
type Brand struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ProductSummary is the lightweight product record kept by the compare and
// recently viewed collections.
type ProductSummary struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Discount float64 `json:"discount,omitempty"`
	Rating   float64 `json:"rating"`
}

// EffectivePrice returns the discounted price when one is set, otherwise the
// base price.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Image returns the first product image or an empty string.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Summary builds the lightweight representation of the product.
func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image(),
		Discount: p.Discount,
		Rating:   p.Rating,
	}
}

// Key returns the collection identity of the product.
func (p Product) Key() string {
	return ProductKey(p.ID)
}

// Key returns the collection identity of the summary.
func (s ProductSummary) Key() string {
	return ProductKey(s.ID)
}

// ProductKey formats a product id as a collection identity.
func ProductKey(id int) string {
	return strconv.Itoa(id)
}

// NormalizeProduct reconciles the two discount representations. The absolute
// discount price is canonical; the percentage is derived from it, or used to
// derive it when it is the only one present.
func NormalizeProduct(p Product) Product {
	switch {
	case p.DiscountPrice == nil && p.Discount > 0:
		dp := round2(p.Price - p.Price*p.Discount/100)
		p.DiscountPrice = &dp
	case p.DiscountPrice != nil && p.Discount == 0 && p.Price > 0:
		p.Discount = round2((p.Price - *p.DiscountPrice) / p.Price * 100)
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
