// Package students holds the student database backing the reasoner.
// SQLiteStore persists records; InMemoryStore serves tests and throwaway
// runs. Both implement reasoner.StudentStore.
package students

import (
	"context"
	"fmt"
	"sync"

	"github.com/petrijr/planweave/pkg/reasoner"
)

// InMemoryStore keeps student records in a map.
type InMemoryStore struct {
	mu       sync.RWMutex
	students map[string]*reasoner.Student
}

var _ reasoner.StudentStore = (*InMemoryStore)(nil)

// NewInMemoryStore builds an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{students: make(map[string]*reasoner.Student)}
}

// NewSeededInMemoryStore builds a store preloaded with the sample roster.
func NewSeededInMemoryStore() *InMemoryStore {
	s := NewInMemoryStore()
	for _, student := range SeedStudents() {
		s.Put(student)
	}
	return s
}

// Put inserts or replaces a record.
func (s *InMemoryStore) Put(student *reasoner.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[student.ID] = student
}

func (s *InMemoryStore) GetStudent(ctx context.Context, id string) (*reasoner.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[id]
	if !ok {
		return nil, fmt.Errorf("student %q: %w", id, reasoner.ErrNotFound)
	}
	return student, nil
}
