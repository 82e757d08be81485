package storage

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// postgresAdapter stores values in the kv_store table. Keys are stored with
// the adapter's prefix so several users can share one table.
type postgresAdapter struct {
	pool   *pgxpool.Pool
	prefix string
	logger zerolog.Logger
}

// NewPostgresAdapter creates the kv_store table if needed and returns an
// adapter backed by it. keyPrefix namespaces every key.
func NewPostgresAdapter(ctx context.Context, pool *pgxpool.Pool, keyPrefix string, logger zerolog.Logger) (Adapter, error) {
	logger = logger.With().Str("component", "postgres-storage").Logger()

	if err := database.ApplySchema(ctx, pool, "kv_store", kvSchema, logger); err != nil {
		logger.Error().Err(err).Msg("failed to create kv_store table")
		return nil, err
	}

	return &postgresAdapter{
		pool:   pool,
		prefix: keyPrefix,
		logger: logger,
	}, nil
}

func (a *postgresAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := a.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, a.prefix+key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		a.logger.Error().Err(err).Str("key", key).Msg("failed to query key")
		return "", false, fmt.Errorf("failed to query %s: %w", key, err)
	}
	return value, true, nil
}

func (a *postgresAdapter) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := a.pool.Exec(ctx, query, a.prefix+key, value); err != nil {
		a.logger.Error().Err(err).Str("key", key).Msg("failed to upsert key")
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (a *postgresAdapter) Remove(ctx context.Context, key string) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, a.prefix+key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
