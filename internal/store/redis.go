package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/navlink/navlink/internal/config"
	"github.com/navlink/navlink/internal/metrics"
)

// keyPrefix namespaces link keys inside a shared Redis instance.
const keyPrefix = "link:"

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// RedisStore implements Store using Redis, relying on its native key TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Put stores value under key with the given TTL.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	defer metrics.RecordStoreOp("put", time.Now())

	if err := s.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("store put failed: %w", err)
	}
	return nil
}

// Get returns the value for key, or ErrKeyNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	defer metrics.RecordStoreOp("get", time.Now())

	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("store get failed: %w", err)
	}
	return val, nil
}

// Exists reports whether key holds a live value.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	defer metrics.RecordStoreOp("exists", time.Now())

	n, err := s.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("store exists check failed: %w", err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
