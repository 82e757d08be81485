package coupon

import (
	"strings"

	"storefront/internal/model"
)

// mapTable implements Table with a map keyed by normalised code.
type mapTable struct {
	coupons map[string]model.Coupon
}

// newMapTable creates an empty table.
func newMapTable(capacity int) *mapTable {
	return &mapTable{
		coupons: make(map[string]model.Coupon, capacity),
	}
}

// DefaultTable returns the codes every storefront accepts.
func DefaultTable() Table {
	t := newMapTable(3)
	t.Add("SAVE10", 10)
	t.Add("SAVE20", 20)
	t.Add("WELCOME15", 15)
	return t
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup finds a coupon by code.
func (t *mapTable) Lookup(code string) (model.Coupon, bool) {
	c, ok := t.coupons[normalizeCode(code)]
	return c, ok
}

// Size returns the number of coupons in the table.
func (t *mapTable) Size() int {
	return len(t.coupons)
}

// Add inserts or replaces a coupon.
func (t *mapTable) Add(code string, percentage float64) {
	code = normalizeCode(code)
	t.coupons[code] = model.Coupon{Code: code, Percentage: percentage}
}

// merge copies every coupon of other into t, replacing existing codes.
func (t *mapTable) merge(other Table) {
	if m, ok := other.(*mapTable); ok {
		for code, c := range m.coupons {
			t.coupons[code] = c
		}
	}
}
