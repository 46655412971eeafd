package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/petrijr/planweave/internal/persistence"
	"github.com/petrijr/planweave/pkg/reasoner"
)

const studentsSchema = `
CREATE TABLE IF NOT EXISTS students (
	id      TEXT PRIMARY KEY,
	grade   TEXT NOT NULL,
	subject TEXT NOT NULL,
	record  BLOB NOT NULL
);
`

// SQLiteStore persists student records in a SQLite database. The full
// record is stored as a JSON blob; grade and subject are lifted into
// columns for listing.
type SQLiteStore struct {
	db *sql.DB
}

var _ reasoner.StudentStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open student database: %w", err)
	}
	if _, err := db.Exec(studentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create students table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a record.
func (s *SQLiteStore) Put(ctx context.Context, student *reasoner.Student) error {
	record, err := persistence.EncodeValue(student)
	if err != nil {
		return fmt.Errorf("encode student %s: %w", student.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO students (id, grade, subject, record) VALUES (?, ?, ?, ?)`,
		student.ID, student.Grade, student.Subject, record)
	if err != nil {
		return fmt.Errorf("save student %s: %w", student.ID, err)
	}
	return nil
}

// Seed loads the sample roster. Existing records with the same IDs are
// replaced.
func (s *SQLiteStore) Seed(ctx context.Context) error {
	for _, student := range SeedStudents() {
		if err := s.Put(ctx, student); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetStudent(ctx context.Context, id string) (*reasoner.Student, error) {
	var record []byte
	err := s.db.QueryRowContext(ctx, `SELECT record FROM students WHERE id = ?`, id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %q: %w", id, reasoner.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get student %s: %w", id, err)
	}
	student, err := persistence.DecodeValue[*reasoner.Student](record)
	if err != nil {
		return nil, fmt.Errorf("decode student %s: %w", id, err)
	}
	return student, nil
}

// ListIDs returns all student IDs in the store.
func (s *SQLiteStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan student id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
