// Package storage provides the durable key-value store backing carts,
// accounts, and sessions. Values are JSON blobs under string keys; reads of
// missing or malformed values yield the zero value instead of an error.
// Writes are plain SETs with no locking: when several clients share a key
// the last writer wins.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Canonical keys. Session-scoped keys are namespaced with PrefixKey.
const (
	CartStateKey      = "cart-state"
	UserAccountsKey   = "user-accounts"
	CurrentSessionKey = "current-session"
)

// Store wraps Redis with a JSON codec and default-on-failure reads.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
	ttl    time.Duration
}

// NewStore constructs a store. A zero TTL means keys never expire.
func NewStore(client *redis.Client, logger zerolog.Logger, ttl time.Duration) *Store {
	return &Store{client: client, logger: logger, ttl: ttl}
}

// PrefixKey namespaces a canonical key for one session.
func PrefixKey(sessionID, key string) string {
	if sessionID == "" {
		return key
	}
	return sessionID + ":" + key
}

// GetJSON unmarshals the value stored at key into dst. A missing key or a
// value that fails to decode leaves dst untouched and reports false; decode
// failures are logged, never surfaced.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if s == nil || s.client == nil || key == "" {
		return false, nil
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn().Str("key", key).Err(err).Msg("discarding malformed stored value")
		return false, nil
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it under key.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	if s == nil || s.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil || key == "" {
		return nil
	}
	return s.client.Del(ctx, key).Err()
}
