package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed [Store]. It is the shared same-origin
// persistence layer: every module and process of the origin sees the same
// credential, and any of them may erase it.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a RedisStore namespaced under prefix (default "ag").
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ag"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + key
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Sweep scans the namespace and deletes every key matching the auth naming
// convention. O(keys in namespace); acceptable because it only runs on
// logout and reconciliation eviction.
func (s *RedisStore) Sweep(ctx context.Context) error {
	pattern := s.prefix + ":*"
	var cursor uint64

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		doomed := make([]string, 0, len(keys))
		for _, key := range keys {
			if matchesAuthConvention(key) {
				doomed = append(doomed, key)
			}
		}
		if len(doomed) > 0 {
			if err := s.client.Del(ctx, doomed...).Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
