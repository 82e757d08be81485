// Package catalog implements the storefront query pipeline: filtering,
// sorting, pagination and facet counts over a product list.
package catalog

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"storefront/internal/model"
)

// PageSize is the fixed number of products per result page.
const PageSize = 12

// SortKey selects a result ordering.
type SortKey string

// Supported orderings. All sorts are stable.
const (
	SortPopularity  SortKey = "popularity"
	SortRating      SortKey = "rating"
	SortNewest      SortKey = "newest"
	SortPriceLow    SortKey = "price-low"
	SortPriceHigh   SortKey = "price-high"
	SortBestselling SortKey = "bestselling"
)

var sorters = map[SortKey]func(a, b model.Product) int{
	SortPopularity: func(a, b model.Product) int { return cmp.Compare(b.RatingCount, a.RatingCount) },
	SortRating:     func(a, b model.Product) int { return cmp.Compare(b.Rating, a.Rating) },
	SortNewest:     func(a, b model.Product) int { return trueFirst(a.NewArrival, b.NewArrival) },
	SortPriceLow:   func(a, b model.Product) int { return cmp.Compare(a.EffectivePrice(), b.EffectivePrice()) },
	SortPriceHigh:  func(a, b model.Product) int { return cmp.Compare(b.EffectivePrice(), a.EffectivePrice()) },
	SortBestselling: func(a, b model.Product) int {
		return trueFirst(a.Bestseller, b.Bestseller)
	},
}

func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// ParseSort validates a sort key. The empty string selects popularity.
func ParseSort(s string) (SortKey, error) {
	if s == "" {
		return SortPopularity, nil
	}
	key := SortKey(s)
	if _, ok := sorters[key]; !ok {
		return "", model.NewDomainError(model.ErrCodeInvalidQuery, fmt.Sprintf("unknown sort key %q", s))
	}
	return key, nil
}

// Spec describes a catalogue query. Zero values disable the corresponding filter.
type Spec struct {
	Search      string   `json:"search,omitempty"`
	CategoryID  int      `json:"categoryId,omitempty"`
	BrandIDs    []int    `json:"brandIds,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	MinRating   float64  `json:"minRating,omitempty"`
	Tab         string   `json:"tab,omitempty"`
	InStockOnly bool     `json:"inStockOnly,omitempty"`
	Expr        string   `json:"expr,omitempty"`
	Sort        SortKey  `json:"sort,omitempty"`
	Page        int      `json:"page,omitempty"`
}

// Facets summarise the filtered result set across all pages.
type Facets struct {
	Brands     map[int]int `json:"brands"`
	Categories map[int]int `json:"categories"`
	InStock    int         `json:"inStock"`
	OutOfStock int         `json:"outOfStock"`
	MinPrice   float64     `json:"minPrice"`
	MaxPrice   float64     `json:"maxPrice"`
}

// Result is one page of a query.
type Result struct {
	Products   []model.Product `json:"products"`
	TotalCount int             `json:"totalCount"`
	TotalPages int             `json:"totalPages"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Facets     Facets          `json:"facets"`
}

// Engine runs queries. It caches compiled filter expressions and is safe for
// concurrent use.
type Engine struct {
	filters *exprCache
}

// NewEngine creates a query engine keeping up to DefaultExprCacheSize
// compiled expressions.
func NewEngine() *Engine {
	engine, err := NewEngineWithCacheSize(DefaultExprCacheSize)
	if err != nil {
		panic(err)
	}
	return engine
}

// NewEngineWithCacheSize creates a query engine whose expression cache holds
// at most size programs, evicting the least recently used.
func NewEngineWithCacheSize(size int) (*Engine, error) {
	filters, err := newExprCache(size)
	if err != nil {
		return nil, err
	}
	return &Engine{filters: filters}, nil
}

var defaultEngine = NewEngine()

// Query runs spec against products with a shared engine.
func Query(products []model.Product, spec Spec) (Result, error) {
	return defaultEngine.Query(products, spec)
}

// Query filters, sorts and paginates products. The input slice is not modified.
// A page beyond the last one clamps to the last page; a page below 1 becomes 1.
func (e *Engine) Query(products []model.Product, spec Spec) (Result, error) {
	sortKey, err := ParseSort(string(spec.Sort))
	if err != nil {
		return Result{}, err
	}

	var match func(model.Product) (bool, error)
	if strings.TrimSpace(spec.Expr) != "" {
		match, err = e.filters.compile(spec.Expr)
		if err != nil {
			return Result{}, err
		}
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !matches(p, spec) {
			continue
		}
		if match != nil {
			ok, err := match(p)
			if err != nil {
				return Result{}, err
			}
			if !ok {
				continue
			}
		}
		filtered = append(filtered, p)
	}

	slices.SortStableFunc(filtered, sorters[sortKey])

	total := len(filtered)
	totalPages := int(math.Ceil(float64(total) / PageSize))
	page := clampPage(spec.Page, totalPages)

	start := min((page-1)*PageSize, total)
	end := min(start+PageSize, total)

	return Result{
		Products:   filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   PageSize,
		Facets:     facets(filtered),
	}, nil
}

func clampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

func matches(p model.Product, spec Spec) bool {
	if spec.Search != "" && !containsFold(p.Name, spec.Search) && !containsFold(p.Description, spec.Search) {
		return false
	}
	if spec.CategoryID != 0 && p.CategoryID != spec.CategoryID {
		return false
	}
	if len(spec.BrandIDs) > 0 && !slices.Contains(spec.BrandIDs, p.BrandID) {
		return false
	}
	if len(spec.Colors) > 0 && !intersectsFold(p.Colors, spec.Colors) {
		return false
	}
	if len(spec.Sizes) > 0 && !intersectsFold(p.Sizes, spec.Sizes) {
		return false
	}

	price := p.EffectivePrice()
	if spec.MinPrice != nil && price < *spec.MinPrice {
		return false
	}
	if spec.MaxPrice != nil && price > *spec.MaxPrice {
		return false
	}

	if spec.MinRating > 0 && p.Rating < spec.MinRating {
		return false
	}

	// Tabs are matched against free text, not a taxonomy field.
	if spec.Tab != "" && !containsFold(p.Name, spec.Tab) && !containsFold(p.Description, spec.Tab) {
		return false
	}

	if spec.InStockOnly && !p.InStock {
		return false
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func intersectsFold(values, selected []string) bool {
	for _, v := range values {
		for _, s := range selected {
			if strings.EqualFold(v, s) {
				return true
			}
		}
	}
	return false
}

func facets(products []model.Product) Facets {
	f := Facets{
		Brands:     make(map[int]int),
		Categories: make(map[int]int),
	}

	for i, p := range products {
		f.Brands[p.BrandID]++
		f.Categories[p.CategoryID]++
		if p.InStock {
			f.InStock++
		} else {
			f.OutOfStock++
		}

		price := p.EffectivePrice()
		if i == 0 || price < f.MinPrice {
			f.MinPrice = price
		}
		if i == 0 || price > f.MaxPrice {
			f.MaxPrice = price
		}
	}

	return f
}
