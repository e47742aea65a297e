package historyx

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps records in memory, newest first. Intended for
// development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemoryStore creates an in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

// Record implements Store.
func (s *MemoryStore) Record(_ context.Context, record Record) (string, error) {
	record.ID = uuid.NewString()

	s.mu.Lock()
	s.records[record.WatchID] = append([]Record{record}, s.records[record.WatchID]...)
	s.mu.Unlock()

	return record.ID, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, watchID string, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[watchID]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out, nil
}
