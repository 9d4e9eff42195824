package leads

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store defines the interface for lead record storage. Implementations
// persist at most the fields of Record; the email is the natural key, but
// uniqueness is enforced by query-before-write, not by the store itself.
type Store interface {
	// FindByEmail returns every record whose email field exactly equals
	// the given (already normalized) email.
	FindByEmail(ctx context.Context, email string) ([]StoredRecord, error)

	// Create inserts a new record and returns its store-assigned ID.
	Create(ctx context.Context, rec Record) (string, error)

	// Update overwrites the fields of the record with the given ID.
	Update(ctx context.Context, id string, rec Record) error
}

// InMemoryStore is a Store backed by a map, used in tests and when no
// external store is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]Record),
	}
}

// FindByEmail scans for records with an exactly matching email.
func (s *InMemoryStore) FindByEmail(ctx context.Context, email string) ([]StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []StoredRecord
	for id, rec := range s.records {
		if rec.Email == email {
			matches = append(matches, StoredRecord{ID: id, Email: rec.Email, Name: rec.Name})
		}
	}
	return matches, nil
}

// Create inserts a new record under a fresh ID.
func (s *InMemoryStore) Create(ctx context.Context, rec Record) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	s.records[id] = rec
	s.mu.Unlock()

	return id, nil
}

// Update overwrites the record with the given ID.
func (s *InMemoryStore) Update(ctx context.Context, id string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrRecordNotFound
	}
	s.records[id] = rec
	return nil
}

// Get returns the record with the given ID.
func (s *InMemoryStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return rec, ok
}

// Len reports how many records the store holds.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
