// Package cache wraps the whole aggregation pipeline in a short-TTL
// read-through result cache. It is a decorator around MetricsService, so
// the aggregation logic stays testable in isolation. There is no
// single-flight de-duplication: concurrent misses both recompute.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the key-value backend for cached responses. Failures degrade to
// misses; they never surface to callers.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type redisStore struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedisStore creates a Store backed by Redis.
func NewRedisStore(rdb *redis.Client, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisStore{rdb: rdb, logger: logger}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return val, true
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
	}
}
