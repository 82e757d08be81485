package storage

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Open builds the adapter selected by cfg.Storage.Backend. The returned close
// function releases backend resources; pool may be nil unless the postgres
// backend is selected.
func Open(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (Adapter, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn().Msg("using in-memory storage, collections are not persisted across restarts")
		return NewMemoryAdapter(), noop, nil

	case config.BackendFile:
		adapter, err := NewFileAdapter(cfg.Storage.Dir, logger)
		if err != nil {
			return nil, nil, err
		}
		return adapter, noop, nil

	case config.BackendRedis:
		adapter, err := NewRedisAdapter(ctx, RedisOptions{
			Addr:      cfg.Redis.Address(),
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Storage.KeyPrefix,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil

	case config.BackendPostgres:
		if pool == nil {
			return nil, nil, fmt.Errorf("postgres storage requires a database pool")
		}
		adapter, err := NewPostgresAdapter(ctx, pool, cfg.Storage.KeyPrefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return adapter, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
}
