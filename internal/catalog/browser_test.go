package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrowser_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		previous *Spec
		next     Spec
		page     int
	}{
		{name: "first request keeps page", next: Spec{Page: 3}, page: 3},
		{name: "same criteria keeps page", previous: &Spec{Search: "shoe", Page: 1}, next: Spec{Search: "shoe", Page: 2}, page: 2},
		{name: "search change resets", previous: &Spec{Search: "shoe"}, next: Spec{Search: "shirt", Page: 2}, page: 1},
		{name: "sort change resets", previous: &Spec{Sort: SortRating}, next: Spec{Sort: SortNewest, Page: 4}, page: 1},
		{name: "default sort equals popularity", previous: &Spec{}, next: Spec{Sort: SortPopularity, Page: 2}, page: 2},
		{name: "brand change resets", previous: &Spec{BrandIDs: []int{1}}, next: Spec{BrandIDs: []int{1, 2}, Page: 2}, page: 1},
		{name: "price change resets", previous: &Spec{MaxPrice: float(10)}, next: Spec{MaxPrice: float(20), Page: 2}, page: 1},
		{name: "equal price values keep page", previous: &Spec{MaxPrice: float(10)}, next: Spec{MaxPrice: float(10), Page: 2}, page: 2},
		{name: "stock toggle resets", previous: &Spec{}, next: Spec{InStockOnly: true, Page: 2}, page: 1},
		{name: "expression change resets", previous: &Spec{Expr: "inStock"}, next: Spec{Expr: "bestseller", Page: 2}, page: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBrowser()
			if tt.previous != nil {
				b.Resolve(*tt.previous)
			}

			got := b.Resolve(tt.next)
			assert.Equal(t, tt.page, got.Page)
		})
	}
}

func TestBrowser_Reset(t *testing.T) {
	b := NewBrowser()
	b.Resolve(Spec{Search: "a"})
	b.Reset()

	got := b.Resolve(Spec{Search: "b", Page: 5})
	assert.Equal(t, 5, got.Page)
}

func TestBrowser_FilterNarrowingThenQuery(t *testing.T) {
	products := randomProducts(13)
	for i := range products {
		products[i].BrandID = 1
		if i < 5 {
			products[i].BrandID = 2
		}
	}

	b := NewBrowser()

	result, err := Query(products, b.Resolve(Spec{Page: 2}))
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Page)

	result, err = Query(products, b.Resolve(Spec{Page: 2, BrandIDs: []int{2}}))
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Len(t, result.Products, 5)
}

func TestBrowser_PeekLeavesBaseline(t *testing.T) {
	b := NewBrowser()
	b.Resolve(Spec{Search: "shoe", Page: 2})

	peeked := b.Peek(Spec{Search: "shirt", Page: 3})
	assert.Equal(t, 1, peeked.Page)

	// The baseline is still the committed search
	got := b.Resolve(Spec{Search: "shoe", Page: 3})
	assert.Equal(t, 3, got.Page)

	b.Commit(Spec{Search: "shirt"})
	got = b.Peek(Spec{Search: "shirt", Page: 2})
	assert.Equal(t, 2, got.Page)
}
