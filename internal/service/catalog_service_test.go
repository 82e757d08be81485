package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource is a mock implementation of catalog.Source.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Products(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockSource) Product(ctx context.Context, id int) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockSource) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockSource) Brands(ctx context.Context) ([]model.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Brand), args.Error(1)
}

func manyProducts(n int) []model.Product {
	products := make([]model.Product, n)
	for i := range products {
		products[i] = model.Product{ID: i + 1, Name: "product", Price: float64(i + 1), CategoryID: 1 + i%2}
	}
	return products
}

func TestCatalogService_Browse(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("Products", ctx).Return([]model.Product{
		{ID: 1, Name: "P1", Price: 10, RatingCount: 5},
		{ID: 2, Name: "P2", Price: 5, RatingCount: 20},
	}, nil)

	svc := NewCatalogService(source, zerolog.Nop())

	result, err := svc.Browse(ctx, catalog.Spec{Sort: catalog.SortPopularity})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.Equal(t, 2, result.Products[0].ID)
	assert.Equal(t, 1, result.Products[1].ID)
}

func TestCatalogService_BrowseResetsPageOnFilterChange(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("Products", ctx).Return(manyProducts(40), nil)

	svc := NewCatalogService(source, zerolog.Nop())

	result, err := svc.Browse(ctx, catalog.Spec{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Page)

	result, err = svc.Browse(ctx, catalog.Spec{Page: 2, CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)

	result, err = svc.Browse(ctx, catalog.Spec{Page: 2, CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)
}

func TestCatalogService_BrowseInvalidQueryKeepsBaseline(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("Products", ctx).Return(manyProducts(40), nil)

	svc := NewCatalogService(source, zerolog.Nop())

	result, err := svc.Browse(ctx, catalog.Spec{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Page)

	_, err = svc.Browse(ctx, catalog.Spec{Page: 3, Expr: "price <"})
	assert.ErrorIs(t, err, model.ErrInvalidQuery)
	_, err = svc.Browse(ctx, catalog.Spec{Page: 3, Sort: "random"})
	assert.ErrorIs(t, err, model.ErrInvalidQuery)

	result, err = svc.Browse(ctx, catalog.Spec{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)
}

func TestCatalogService_BrowseErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("source error", func(t *testing.T) {
		source := new(MockSource)
		source.On("Products", ctx).Return(nil, errors.New("connection refused"))

		_, err := NewCatalogService(source, zerolog.Nop()).Browse(ctx, catalog.Spec{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get products")
	})

	t.Run("invalid sort", func(t *testing.T) {
		source := new(MockSource)
		source.On("Products", ctx).Return(manyProducts(2), nil)

		_, err := NewCatalogService(source, zerolog.Nop()).Browse(ctx, catalog.Spec{Sort: "random"})
		assert.ErrorIs(t, err, model.ErrInvalidQuery)
	})
}

func TestCatalogService_Product(t *testing.T) {
	ctx := context.Background()
	lamp := &model.Product{ID: 7, Name: "Lamp"}

	tests := []struct {
		name        string
		id          int
		setupMock   func(*MockSource)
		expectErr   error
		errContains string
	}{
		{
			name: "found",
			id:   7,
			setupMock: func(m *MockSource) {
				m.On("Product", ctx, 7).Return(lamp, nil)
			},
		},
		{
			name: "not found",
			id:   8,
			setupMock: func(m *MockSource) {
				m.On("Product", ctx, 8).Return(nil, nil)
			},
			expectErr: model.ErrProductNotFound,
		},
		{
			name:      "invalid id",
			id:        0,
			setupMock: func(m *MockSource) {},
			expectErr: model.ErrProductNotFound,
		},
		{
			name: "source error",
			id:   9,
			setupMock: func(m *MockSource) {
				m.On("Product", ctx, 9).Return(nil, errors.New("timeout"))
			},
			errContains: "failed to get product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockSource)
			tt.setupMock(source)

			p, err := NewCatalogService(source, zerolog.Nop()).Product(ctx, tt.id)

			switch {
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, p)
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Lamp", p.Name)
			}

			source.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Products(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("Product", ctx, 2).Return(&model.Product{ID: 2}, nil)
	source.On("Product", ctx, 5).Return(nil, nil)
	source.On("Product", ctx, 1).Return(&model.Product{ID: 1}, nil)

	products, err := NewCatalogService(source, zerolog.Nop()).Products(ctx, []int{2, 5, 1})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 2, products[0].ID)
	assert.Equal(t, 1, products[1].ID)

	empty, err := NewCatalogService(source, zerolog.Nop()).Products(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalogService_Lookups(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("Categories", ctx).Return([]model.Category{{ID: 1, Name: "Electronics", Slug: "electronics"}}, nil)
	source.On("Brands", ctx).Return(nil, errors.New("boom"))

	svc := NewCatalogService(source, zerolog.Nop())

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	_, err = svc.Brands(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get brands")
}
