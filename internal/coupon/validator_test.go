package coupon

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_DefaultsOnly(t *testing.T) {
	v, err := NewValidator(context.Background(), nil, nil, zerolog.Nop())
	require.NoError(t, err)
	defer v.Close()

	c, err := v.Validate(context.Background(), "save20")
	require.NoError(t, err)
	assert.Equal(t, model.Coupon{Code: "SAVE20", Percentage: 20}, c)
}

func TestNewValidator_MergesFilesInOrder(t *testing.T) {
	logger := zerolog.Nop()
	file1 := createTestCouponFile(t, "one.gz", []string{"SPRING25,25", "SAVE10,12"})
	file2 := createTestCouponFile(t, "two.gz", []string{"SPRING25,30", "FLASH5,5"})

	v, err := NewValidator(context.Background(), &ValidatorConfig{
		FilePaths: []string{file1, file2},
	}, NewFileLoader(logger), logger)
	require.NoError(t, err)
	defer v.Close()

	tests := []struct {
		code     string
		expected float64
	}{
		{code: "SPRING25", expected: 30},
		{code: "SAVE10", expected: 12},
		{code: "FLASH5", expected: 5},
		{code: "WELCOME15", expected: 15},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, err := v.Validate(context.Background(), tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Percentage)
		})
	}
}

func TestNewValidator_FileLoadError(t *testing.T) {
	logger := zerolog.Nop()

	v, err := NewValidator(context.Background(), &ValidatorConfig{
		FilePaths: []string{"/nonexistent/file1.gz", "/nonexistent/file2.gz"},
	}, NewFileLoader(logger), logger)

	require.Error(t, err)
	assert.Nil(t, v)
	assert.Contains(t, err.Error(), "failed to load coupon file")
}

func TestNewValidator_RequiresLoaderForFiles(t *testing.T) {
	v, err := NewValidator(context.Background(), &ValidatorConfig{
		FilePaths: []string{"coupons.gz"},
	}, nil, zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, v)
	assert.Contains(t, err.Error(), "coupon loader is required")
}

func TestNewValidator_LoadsConcurrently(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}

	loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Table, error) {
			mu.Lock()
			seen[filePath] = true
			mu.Unlock()
			if filePath == "bad.gz" {
				return nil, errors.New("corrupt")
			}
			return tableWith(filePath, 1), nil
		},
	}

	_, err := NewValidator(context.Background(), &ValidatorConfig{
		FilePaths: []string{"a.gz", "bad.gz", "c.gz"},
	}, loader, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.gz")
	assert.Len(t, seen, 3)
}

func TestValidator_Validate_Unknown(t *testing.T) {
	v, err := NewValidator(context.Background(), nil, nil, zerolog.Nop())
	require.NoError(t, err)
	defer v.Close()

	for _, code := range []string{"", "SAVE99", "SAVE 10"} {
		_, err := v.Validate(context.Background(), code)
		assert.ErrorIs(t, err, model.ErrUnknownCoupon, "code %q", code)
	}
}

func TestValidator_Close(t *testing.T) {
	v, err := NewValidator(context.Background(), nil, nil, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, v.Close())

	_, err = v.Validate(context.Background(), "SAVE10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}
