package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"storefront/internal/model"
)

// Source provides read-only access to catalogue data. Product returns nil
// without an error when the id is unknown.
type Source interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int) (*model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Brands(ctx context.Context) ([]model.Brand, error)
}

//go:embed seed.json
var seedData []byte

type seedFile struct {
	Categories []model.Category `json:"categories"`
	Brands     []model.Brand    `json:"brands"`
	Products   []model.Product  `json:"products"`
}

// memorySource serves a fixed in-memory catalogue.
type memorySource struct {
	products   []model.Product
	byID       map[int]int
	categories []model.Category
	brands     []model.Brand
}

// NewSeedSource returns the demo catalogue bundled with the binary.
func NewSeedSource() (Source, error) {
	var seed seedFile
	if err := json.Unmarshal(seedData, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	return NewMemorySource(seed.Products, seed.Categories, seed.Brands), nil
}

// NewMemorySource builds a source from the given records. Products are
// normalised on the way in.
func NewMemorySource(products []model.Product, categories []model.Category, brands []model.Brand) Source {
	s := &memorySource{
		products:   make([]model.Product, len(products)),
		byID:       make(map[int]int, len(products)),
		categories: slices.Clone(categories),
		brands:     slices.Clone(brands),
	}
	for i, p := range products {
		s.products[i] = model.NormalizeProduct(p)
		s.byID[p.ID] = i
	}
	return s
}

func (s *memorySource) Products(_ context.Context) ([]model.Product, error) {
	return slices.Clone(s.products), nil
}

func (s *memorySource) Product(_ context.Context, id int) (*model.Product, error) {
	idx, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	p := s.products[idx]
	return &p, nil
}

func (s *memorySource) Categories(_ context.Context) ([]model.Category, error) {
	return slices.Clone(s.categories), nil
}

func (s *memorySource) Brands(_ context.Context) ([]model.Brand, error) {
	return slices.Clone(s.brands), nil
}
