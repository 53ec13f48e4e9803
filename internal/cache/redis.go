package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"goregion/internal/core"
)

// RedisStore implements Store on Redis, for deployments running several
// lookup instances behind a load balancer. Expiry is delegated to Redis
// per-key TTLs; StoredAt is still persisted so the record layout matches
// the other backends.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Redis instance described by url
// (e.g. "redis://localhost:6379" or "redis://:password@host:6379/0").
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis region cache connected", "ttl", ttl)
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get returns the cached regions for key. Stale entries are evicted by
// Redis itself, so absence covers both miss and expiry.
func (s *RedisStore) Get(ctx context.Context, key string) ([]core.Region, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to parse cache entry: %w", err)
	}
	return entry.Data, true, nil
}

// Put replaces the entry for key with a fresh TTL.
func (s *RedisStore) Put(ctx context.Context, key string, regions []core.Region) error {
	data, err := json.Marshal(Entry{Data: regions, StoredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Clear scans the lookup namespace and removes matching keys. Reserved
// config keys are skipped.
func (s *RedisStore) Clear(ctx context.Context, match Predicate) error {
	iter := s.client.Scan(ctx, 0, core.KeyNamespace+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasPrefix(key, configPrefix) {
			continue
		}
		if !match(key) {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to delete cache entry: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return nil
}

// GetConfig reads a reserved config value. Config keys carry no TTL.
func (s *RedisStore) GetConfig(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get config entry: %w", err)
	}
	return value, true, nil
}

// SetConfig writes (or, for empty values, removes) a reserved config value.
func (s *RedisStore) SetConfig(ctx context.Context, key, value string) error {
	if value == "" {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to delete config entry: %w", err)
		}
		return nil
	}
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set config entry: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
