package catalog

import (
	"fmt"

	"storefront/internal/model"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

// productEnv is the variable set visible to filter expressions, for example
// `price < 50 && "Black" in colors`.
type productEnv struct {
	ID             int      `expr:"id"`
	Name           string   `expr:"name"`
	Description    string   `expr:"description"`
	Price          float64  `expr:"price"`
	EffectivePrice float64  `expr:"effectivePrice"`
	Discount       float64  `expr:"discount"`
	Rating         float64  `expr:"rating"`
	Reviews        int      `expr:"reviews"`
	CategoryID     int      `expr:"categoryId"`
	BrandID        int      `expr:"brandId"`
	Colors         []string `expr:"colors"`
	Sizes          []string `expr:"sizes"`
	Features       []string `expr:"features"`
	InStock        bool     `expr:"inStock"`
	Stock          int      `expr:"stock"`
	NewArrival     bool     `expr:"newArrival"`
	Bestseller     bool     `expr:"bestseller"`
}

func newProductEnv(p model.Product) productEnv {
	return productEnv{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		EffectivePrice: p.EffectivePrice(),
		Discount:       p.Discount,
		Rating:         p.Rating,
		Reviews:        p.RatingCount,
		CategoryID:     p.CategoryID,
		BrandID:        p.BrandID,
		Colors:         p.Colors,
		Sizes:          p.Sizes,
		Features:       p.Features,
		InStock:        p.InStock,
		Stock:          p.Stock,
		NewArrival:     p.NewArrival,
		Bestseller:     p.Bestseller,
	}
}

// DefaultExprCacheSize bounds the compiled programs an Engine keeps.
const DefaultExprCacheSize = 256

// MaxExprLength bounds the source of a filter expression.
const MaxExprLength = 512

// exprCache holds the most recently used compiled filter programs keyed by
// source.
type exprCache struct {
	programs *lru.Cache[string, *vm.Program]
}

func newExprCache(size int) (*exprCache, error) {
	programs, err := lru.New[string, *vm.Program](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create expression cache: %w", err)
	}
	return &exprCache{programs: programs}, nil
}

func (c *exprCache) load(src string) (*vm.Program, error) {
	if len(src) > MaxExprLength {
		return nil, model.NewDomainError(model.ErrCodeInvalidQuery,
			fmt.Sprintf("filter expression longer than %d characters", MaxExprLength))
	}

	if program, ok := c.programs.Get(src); ok {
		return program, nil
	}

	program, err := expr.Compile(src, expr.Env(productEnv{}), expr.AsBool())
	if err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidQuery, fmt.Sprintf("invalid filter expression: %v", err))
	}

	c.programs.Add(src, program)
	return program, nil
}

// compile returns a predicate evaluating src against a product.
func (c *exprCache) compile(src string) (func(model.Product) (bool, error), error) {
	program, err := c.load(src)
	if err != nil {
		return nil, err
	}

	return func(p model.Product) (bool, error) {
		out, err := expr.Run(program, newProductEnv(p))
		if err != nil {
			return false, model.NewDomainError(model.ErrCodeInvalidQuery, fmt.Sprintf("filter expression failed: %v", err))
		}
		ok, _ := out.(bool)
		return ok, nil
	}, nil
}

func (c *exprCache) len() int {
	return c.programs.Len()
}
