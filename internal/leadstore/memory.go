package leadstore

import (
	"context"
	"sync"
)

// InMemoryStore is a map-backed Store for tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]Record),
	}
}

// Save stores the record, enforcing the same write-once semantics as the
// real backends.
func (s *InMemoryStore) Save(_ context.Context, rec Record) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return ErrDuplicateID
	}
	stored := rec
	stored.Payload = append([]byte(nil), rec.Payload...)
	s.records[rec.ID] = stored
	return nil
}

// Get returns the stored record for an identifier.
func (s *InMemoryStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

// Len reports the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
