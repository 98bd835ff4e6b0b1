package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/inblognet/OmniPOS-sub000/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces replay confirmations in a shared Redis.
const defaultKeyPrefix = "replay:confirmed:"

// RedisIdempotencyStore implements the replay IdempotencyStore using
// Redis. Suitable for multi-lane stores where several terminals share
// one replay confirmation state.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisIdempotencyStore creates a Redis-backed store and verifies the
// connection.
func NewRedisIdempotencyStore(cfg *config.RedisConfig, ttl time.Duration) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
	}, nil
}

// NewRedisIdempotencyStoreWithClient creates a store with an existing
// Redis client. Useful for testing or when sharing a client.
func NewRedisIdempotencyStoreWithClient(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
	}
}

// MarkConfirmed records that the remote committed this key.
func (s *RedisIdempotencyStore) MarkConfirmed(ctx context.Context, key string) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark key as confirmed: %w", err)
	}
	return nil
}

// IsConfirmed reports whether the remote already committed this key.
func (s *RedisIdempotencyStore) IsConfirmed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check confirmed key: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}
