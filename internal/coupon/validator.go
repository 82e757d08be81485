package coupon

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// validator implements Validator over a merged, read-only table.
type validator struct {
	mu     sync.RWMutex
	table  *mapTable
	logger zerolog.Logger
}

// ValidatorConfig holds configuration for the coupon validator.
type ValidatorConfig struct {
	// FilePaths are extra coupon files. Later files override earlier ones
	// and every file overrides the default table.
	FilePaths []string
}

// DefaultValidatorConfig returns a configuration with no extra files.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{}
}

// NewValidator loads every configured file concurrently and merges them over
// the default table. Any load failure aborts construction.
func NewValidator(ctx context.Context, cfg *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if cfg == nil {
		cfg = DefaultValidatorConfig()
	}
	if len(cfg.FilePaths) > 0 && loader == nil {
		return nil, fmt.Errorf("coupon loader is required when coupon files are configured")
	}

	logger = logger.With().Str("component", "coupon-validator").Logger()

	type loadResult struct {
		table Table
		err   error
	}

	results := make([]loadResult, len(cfg.FilePaths))
	var wg sync.WaitGroup

	for i, path := range cfg.FilePaths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := loader.Load(ctx, path)
			results[i] = loadResult{table: table, err: err}
		}()
	}
	wg.Wait()

	merged := newMapTable(16)
	merged.merge(DefaultTable())

	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", cfg.FilePaths[i]).
				Msg("failed to load coupon file")
			return nil, fmt.Errorf("failed to load coupon file %s: %w", cfg.FilePaths[i], result.err)
		}
		merged.merge(result.table)
	}

	logger.Info().
		Int("file_count", len(cfg.FilePaths)).
		Int("total_coupons", merged.Size()).
		Msg("coupon validator initialised")

	return &validator{
		table:  merged,
		logger: logger,
	}, nil
}

// Validate resolves code to a coupon.
func (v *validator) Validate(_ context.Context, code string) (model.Coupon, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.table == nil {
		return model.Coupon{}, fmt.Errorf("coupon validator is closed")
	}

	c, ok := v.table.Lookup(code)
	if !ok {
		v.logger.Debug().Str("coupon_code", code).Msg("coupon code not recognised")
		return model.Coupon{}, model.ErrUnknownCoupon
	}

	return c, nil
}

// Close drops the loaded table.
func (v *validator) Close() error {
	v.mu.Lock()
	v.table = nil
	v.mu.Unlock()

	v.logger.Info().Msg("coupon validator closed")

	return nil
}
