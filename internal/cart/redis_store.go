package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/ricemandi/cart-service/pkg/redis"
)

// redisBlobStore is the narrow slice of the redis client the store needs.
type redisBlobStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore persists carts as JSON blobs in Redis, one key per session,
// refreshed with the configured TTL on every write.
type RedisStore struct {
	client redisBlobStore
	ttl    time.Duration
}

func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]Line, error) {
	payload, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading cart blob: %w", err)
	}
	return decodeLines([]byte(payload))
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, lines []Line) error {
	payload, err := encodeLines(lines)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving cart blob: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return fmt.Errorf("deleting cart blob: %w", err)
	}
	return nil
}
