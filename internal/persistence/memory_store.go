package persistence

import (
	"sync"

	"github.com/petrijr/planweave/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe RunStore backed by a map.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*api.RunRecord
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		runs: make(map[string]*api.RunRecord),
	}
}

var _ RunStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveRun(rec *api.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[rec.ID] = cloneRecord(rec)
	return nil
}

func (s *InMemoryStore) UpdateRun(rec *api.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[rec.ID]; !ok {
		return ErrRunNotFound
	}

	s.runs[rec.ID] = cloneRecord(rec)
	return nil
}

func (s *InMemoryStore) GetRun(id string) (*api.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}

	return cloneRecord(rec), nil
}

func (s *InMemoryStore) ListRuns(filter RunFilter) ([]*api.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*api.RunRecord

	for _, rec := range s.runs {
		if filter.Graph != "" && rec.Graph != filter.Graph {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		result = append(result, cloneRecord(rec))
	}

	return result, nil
}

// cloneRecord copies the record so callers cannot mutate stored state
// through the returned pointer. Output/Input are shared; the runner hands
// ownership of those values over when the run ends.
func cloneRecord(rec *api.RunRecord) *api.RunRecord {
	c := *rec
	c.Visited = append([]string(nil), rec.Visited...)
	return &c
}
