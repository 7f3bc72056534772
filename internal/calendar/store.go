package calendar

import (
	"context"
	"sort"
	"sync"

	"github.com/username/attendance-overtime/pkg/dateutil"
)

// Store persists calendar designations keyed by date and year
type Store interface {
	// UpsertDesignations inserts or replaces the given designations
	UpsertDesignations(ctx context.Context, designations []Designation) error

	// LoadYear returns every stored designation of the year
	LoadYear(ctx context.Context, year int) ([]Designation, error)
}

// MemoryStore is an in-process Store, used in tests and when no database is configured
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]Designation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Designation)}
}

func (s *MemoryStore) UpsertDesignations(_ context.Context, designations []Designation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range designations {
		s.rows[dateutil.Key(d.Date)] = d
	}
	return nil
}

func (s *MemoryStore) LoadYear(_ context.Context, year int) ([]Designation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Designation
	for _, d := range s.rows {
		if d.Year == year {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}
