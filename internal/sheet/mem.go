package sheet

import (
	"context"
	"sync"
)

// MemStore is the in-memory backend used by tests.
type MemStore struct {
	mu      sync.Mutex
	records []Record

	// FailWith, when set, is returned from every call. Tests use it to
	// simulate an outage.
	FailWith error
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) LoadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

func (s *MemStore) Upsert(ctx context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	for i, existing := range s.records {
		if existing[ColHospitalName] == key {
			s.records[i] = rec.Clone()
			return nil
		}
	}
	s.records = append(s.records, rec.Clone())
	return nil
}
