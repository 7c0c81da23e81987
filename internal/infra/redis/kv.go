// Package redis stores preference documents in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
	TTL      time.Duration // expiration of stored keys, zero keeps them forever
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

// KVStorage implements preferences.KV on top of a Redis client.
type KVStorage struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewKVStorage creates a new KVStorage.
func NewKVStorage(rdb redis.Cmdable, ttl time.Duration) *KVStorage {
	return &KVStorage{rdb: rdb, ttl: ttl}
}

// Get retrieves the value stored under key.
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", preferences.ErrKeyNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// Set saves value under key.
func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys atomically.
func (s *KVStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}
