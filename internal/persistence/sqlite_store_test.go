package persistence

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/petrijr/planweave/pkg/api"
)

func newTestSQLiteStore(t *testing.T) *SQLiteRunStore {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLiteRunStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteRunStore: %v", err)
	}
	return s
}

func TestSQLiteRunStore_RoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)

	rec := &api.RunRecord{
		ID:      "run-1",
		Graph:   "g",
		Status:  api.StatusRunning,
		Input:   map[string]any{"subject_id": "student_123"},
		Visited: []string{"a", "b"},
	}
	if err := s.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	rec.Status = api.StatusFailed
	rec.Err = errors.New("node exploded")
	if err := s.UpdateRun(rec); err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}

	got, err := s.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != api.StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", got.Status)
	}
	if got.Err == nil || got.Err.Error() != "node exploded" {
		t.Fatalf("expected persisted error message, got %v", got.Err)
	}
	if len(got.Visited) != 2 || got.Visited[0] != "a" || got.Visited[1] != "b" {
		t.Fatalf("expected visited [a b], got %v", got.Visited)
	}

	// JSON round-trip: the input document comes back as a generic mapping.
	in, ok := got.Input.(map[string]any)
	if !ok {
		t.Fatalf("unexpected input type %T", got.Input)
	}
	if in["subject_id"] != "student_123" {
		t.Fatalf("expected subject_id to survive the round trip, got %v", in)
	}
}

func TestSQLiteRunStore_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	if _, err := s.GetRun("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := s.UpdateRun(&api.RunRecord{ID: "missing"}); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestSQLiteRunStore_ListRuns(t *testing.T) {
	s := newTestSQLiteStore(t)

	seed := []*api.RunRecord{
		{ID: "run-1", Graph: "g1", Status: api.StatusCompleted},
		{ID: "run-2", Graph: "g1", Status: api.StatusFailed},
		{ID: "run-3", Graph: "g2", Status: api.StatusCompleted},
	}
	for _, rec := range seed {
		if err := s.SaveRun(rec); err != nil {
			t.Fatalf("SaveRun %s: %v", rec.ID, err)
		}
	}

	completed, err := s.ListRuns(RunFilter{Status: api.StatusCompleted})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("expected 2 completed runs, got %d", len(completed))
	}

	g1failed, err := s.ListRuns(RunFilter{Graph: "g1", Status: api.StatusFailed})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(g1failed) != 1 || g1failed[0].ID != "run-2" {
		t.Fatalf("expected run-2, got %v", g1failed)
	}
}
