package catalog

import (
	"slices"
	"sync"
)

// Browser remembers the last query criteria so that a change to any filter
// or the sort order sends the caller back to the first page.
type Browser struct {
	mu   sync.Mutex
	last *Spec
}

// NewBrowser creates a browser with no history.
func NewBrowser() *Browser {
	return &Browser{}
}

// Resolve returns spec with its page reset to 1 when the criteria differ from
// the previous call, and records spec as the new baseline.
func (b *Browser) Resolve(spec Spec) Spec {
	spec = b.Peek(spec)
	b.Commit(spec)
	return spec
}

// Peek returns spec with its page reset to 1 when the criteria differ from
// the baseline. The baseline is left unchanged.
func (b *Browser) Peek(spec Spec) Spec {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.last != nil && !sameCriteria(*b.last, spec) {
		spec.Page = 1
	}
	return spec
}

// Commit records spec as the baseline for the next request.
func (b *Browser) Commit(spec Spec) {
	b.mu.Lock()
	defer b.mu.Unlock()

	last := spec
	b.last = &last
}

// Reset forgets the previous criteria.
func (b *Browser) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = nil
}

func sameCriteria(a, b Spec) bool {
	sortA, sortB := a.Sort, b.Sort
	if sortA == "" {
		sortA = SortPopularity
	}
	if sortB == "" {
		sortB = SortPopularity
	}

	return a.Search == b.Search &&
		a.CategoryID == b.CategoryID &&
		slices.Equal(a.BrandIDs, b.BrandIDs) &&
		slices.Equal(a.Colors, b.Colors) &&
		slices.Equal(a.Sizes, b.Sizes) &&
		floatPtrEqual(a.MinPrice, b.MinPrice) &&
		floatPtrEqual(a.MaxPrice, b.MaxPrice) &&
		a.MinRating == b.MinRating &&
		a.Tab == b.Tab &&
		a.InStockOnly == b.InStockOnly &&
		a.Expr == b.Expr &&
		sortA == sortB
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
