// Package cache is a small JSON cache over Redis. A Store whose client is
// nil, or whose server is unreachable, behaves as a permanent miss so the
// API keeps serving from the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/etuition/etuition-api/pkg/logger"
	"github.com/etuition/etuition-api/pkg/metrics"
)

// Store wraps a Redis client.
type Store struct {
	rdb *redis.Client
}

// Connect dials Redis and verifies it with a ping. On failure it returns a
// no-op Store together with the error, so the caller can log and carry on.
func Connect(ctx context.Context, addr, password string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return &Store{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// New wraps an existing client. A nil client gives a no-op Store.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Enabled reports whether the Store has a live client.
func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

// Get unmarshals the value under key into dest. It returns true on a hit.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}

	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithCtx(ctx).Warn("cache get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

// Set stores value as JSON under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

// Forget removes keys.
func (s *Store) Forget(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// Close releases the client.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Close()
}

// Remember returns the cached value under key, or calls load, caches its
// result for ttl and returns it. Cache write failures are logged, not
// returned.
func Remember[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if s.Get(ctx, key, &cached) {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if err := s.Set(ctx, key, v, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache set failed", "key", key, "error", err)
	}
	return v, nil
}
