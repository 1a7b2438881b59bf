// Package redis persists the session identity in Redis, for deployments
// where the client core runs server-side (per-user keys, shared instances).
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/expertpicks/clientcore/core/session"
)

// DefaultKey mirrors the storage key the browser client used.
const DefaultKey = "user"

// Store is a Redis-backed session.Storage.
type Store struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key. Useful for per-user namespacing,
// e.g. "user:42".
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTTL sets an expiration on the persisted record. Zero means no expiry;
// token freshness is then enforced at bootstrap time instead.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New creates a Redis store on the given client.
func New(client redis.UniversalClient, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis: client is required")
	}

	s := &Store{
		client: client,
		key:    DefaultKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads the persisted identity. A missing key maps to session.ErrNoSession.
func (s *Store) Load(ctx context.Context) (session.Identity, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Identity{}, session.ErrNoSession
		}
		return session.Identity{}, fmt.Errorf("redis: get %s: %w", s.key, err)
	}

	var identity session.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return session.Identity{}, fmt.Errorf("redis: corrupt session record at %s: %w", s.key, err)
	}

	return identity, nil
}

// Save persists the identity. A single SET replaces the previous record
// atomically.
func (s *Store) Save(ctx context.Context, identity session.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("redis: encode session record: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", s.key, err)
	}
	return nil
}

// Delete removes the persisted identity. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", s.key, err)
	}
	return nil
}
