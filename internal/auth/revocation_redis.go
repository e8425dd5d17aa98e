package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRevocationPrefix = "revoked"

// RedisRevocationStore shares revocation state across instances through a
// key-value store with per-key TTL. Expiry handling is delegated to Redis.
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationStore wires a Redis client into a revocation store.
func NewRedisRevocationStore(client *redis.Client, prefix string) *RedisRevocationStore {
	if prefix == "" {
		prefix = defaultRevocationPrefix
	}
	return &RedisRevocationStore{client: client, prefix: prefix}
}

// Add stores the token with a TTL matching its remaining lifetime.
func (s *RedisRevocationStore) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("auth: revocation ttl must be positive")
	}
	if err := s.client.Set(ctx, s.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: redis set revoked token: %w", err)
	}
	return nil
}

// Has reports whether the token is currently revoked.
func (s *RedisRevocationStore) Has(ctx context.Context, token string) (bool, error) {
	if err := s.client.Get(ctx, s.key(token)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("auth: redis get revoked token: %w", err)
	}
	return true, nil
}

func (s *RedisRevocationStore) key(token string) string {
	return s.prefix + ":" + token
}

var _ RevocationStore = (*RedisRevocationStore)(nil)
