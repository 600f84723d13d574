package redis

// Package redis provides the Redis-backed durable session mirror.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bistronome/resto-ui-api/internal/ports"
)

// StateStore is a Redis-backed ports.StateStore. Values are stored verbatim;
// serialization is the caller's concern. Keys are namespaced with a prefix so
// several instances can share one Redis.
type StateStore struct {
	client redis.UniversalClient
	prefix string
}

// NewStateStore creates a StateStore with the default "session:" prefix.
func NewStateStore(client redis.UniversalClient) *StateStore {
	return &StateStore{client: client, prefix: "session:"}
}

// NewStateStoreWithPrefix creates a StateStore with a custom key prefix.
func NewStateStoreWithPrefix(client redis.UniversalClient, prefix string) *StateStore {
	return &StateStore{client: client, prefix: prefix}
}

// Set writes a value. Session mirror entries have no TTL: they live until
// logout removes them.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("state store key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Get reads a value, returning ErrKeyNotFound for absent keys.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyNotFound
	}
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *StateStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ ports.StateStore = (*StateStore)(nil)

// ErrKeyNotFound is returned when a key is absent from the store.
type notFoundError struct{}

func (notFoundError) Error() string { return "state store key not found" }

var ErrKeyNotFound error = notFoundError{}
