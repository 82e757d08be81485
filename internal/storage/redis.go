package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOptions configures the Redis adapter.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisAdapter stores values as plain Redis strings without expiry.
type RedisAdapter struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisAdapter connects to Redis and verifies the connection.
func NewRedisAdapter(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*RedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger = logger.With().Str("component", "redis-storage").Logger()
	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis storage initialised")

	return &RedisAdapter{
		client: client,
		prefix: opts.KeyPrefix,
		logger: logger,
	}, nil
}

func (a *RedisAdapter) key(key string) string {
	return a.prefix + key
}

func (a *RedisAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := a.client.Get(ctx, a.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		a.logger.Error().Err(err).Str("key", key).Msg("failed to get key")
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key, value string) error {
	if err := a.client.Set(ctx, a.key(key), value, 0).Err(); err != nil {
		a.logger.Error().Err(err).Str("key", key).Msg("failed to set key")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Remove(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, a.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (a *RedisAdapter) Close() error {
	return a.client.Close()
}
