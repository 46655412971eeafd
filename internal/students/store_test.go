package students

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/petrijr/planweave/pkg/reasoner"
)

func TestInMemoryStore_Seeded(t *testing.T) {
	ctx := context.Background()
	s := NewSeededInMemoryStore()

	alex, err := s.GetStudent(ctx, "student_123")
	if err != nil {
		t.Fatalf("GetStudent: %v", err)
	}
	if alex.Grade != "8th" || alex.Subject != "Science" {
		t.Fatalf("unexpected record: %+v", alex)
	}
	if len(alex.Objectives) != 3 || len(alex.Prerequisites) != 3 {
		t.Fatalf("expected 3 objectives and 3 prerequisites, got %d/%d",
			len(alex.Objectives), len(alex.Prerequisites))
	}

	if _, err := s.GetStudent(ctx, "student_999"); !errors.Is(err, reasoner.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_SeedAndGet(t *testing.T) {
	ctx := context.Background()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "students.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	if err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	sam, err := s.GetStudent(ctx, "student_456")
	if err != nil {
		t.Fatalf("GetStudent: %v", err)
	}
	if sam.Grade != "7th" || sam.Subject != "Mathematics" {
		t.Fatalf("unexpected record: %+v", sam)
	}
	if name, _ := sam.Info["name"].(string); name != "Sam Rivera" {
		t.Fatalf("expected Sam Rivera, got %v", sam.Info["name"])
	}
	if len(sam.LearningHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(sam.LearningHistory))
	}

	ids, err := s.ListIDs(ctx)
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "student_123" || ids[1] != "student_456" {
		t.Fatalf("unexpected ids: %v", ids)
	}

	if _, err := s.GetStudent(ctx, "student_999"); !errors.Is(err, reasoner.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_PutReplaces(t *testing.T) {
	ctx := context.Background()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "students.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	rec := &reasoner.Student{ID: "x", Grade: "6th", Subject: "Art"}
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rec.Grade = "7th"
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put replace: %v", err)
	}

	got, err := s.GetStudent(ctx, "x")
	if err != nil {
		t.Fatalf("GetStudent: %v", err)
	}
	if got.Grade != "7th" {
		t.Fatalf("expected replaced grade, got %s", got.Grade)
	}
}
