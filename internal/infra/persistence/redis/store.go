// Package redis persists the roadmap slot in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"roadmapcore/pkg/domain"
)

var _ domain.SlotStore = (*Store)(nil)

// DefaultPrefix namespaces slot keys when no prefix is given.
const DefaultPrefix = "roadmap:"

// Store keeps each slot under prefix+key with no expiry.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore parses redisURL, connects and pings the server.
func NewStore(ctx context.Context, redisURL, prefix string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewStoreWithClient(client, prefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string { return s.prefix + k }

// Load returns the payload for key or domain.ErrSlotEmpty.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", key, err)
	}
	return data, nil
}

// Save overwrites the payload for key.
func (s *Store) Save(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

// Driver identifies the backend.
func (s *Store) Driver() string { return "redis" }

// Close closes the Redis connection.
func (s *Store) Close() error { return s.client.Close() }
