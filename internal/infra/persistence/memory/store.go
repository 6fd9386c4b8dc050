// Package memory provides a process-local slot store.
package memory

import (
	"context"
	"sync"

	"roadmapcore/pkg/domain"
)

var _ domain.SlotStore = (*Store)(nil)

// Store keeps payloads in a map guarded by a mutex.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewStore returns an empty in-memory slot store.
func NewStore() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// Load returns a copy of the payload saved under key.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.slots[key]
	if !ok {
		return nil, domain.ErrSlotEmpty
	}
	return append([]byte(nil), data...), nil
}

// Save overwrites the payload under key.
func (s *Store) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), payload...)
	return nil
}

// Driver identifies the backend.
func (s *Store) Driver() string { return "memory" }
