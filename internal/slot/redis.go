package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Redis provides slot persistence in Redis under a single string key.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a new Redis slot.
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Key returns the redis key holding the value.
func (s *Redis) Key() string { return s.key }

// Load retrieves the slot value. A missing key is not an error.
func (s *Redis) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return data, nil
}

// Store overwrites the slot value. No expiry is set.
func (s *Redis) Store(ctx context.Context, value []byte) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
