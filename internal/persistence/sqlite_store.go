package persistence

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/petrijr/planweave/pkg/api"
)

// SQLiteRunStore is a RunStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteRunStore struct {
	db *sql.DB
}

var _ RunStore = (*SQLiteRunStore)(nil)

// NewSQLiteRunStore initializes the required schema in the given database
// and returns a new SQLiteRunStore.
func NewSQLiteRunStore(db *sql.DB) (*SQLiteRunStore, error) {
	s := &SQLiteRunStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteRunStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			graph_name TEXT NOT NULL,
			status TEXT NOT NULL,
			visited BLOB,
			input BLOB,
			output BLOB,
			error TEXT
		);`,
	)
	return err
}

func (s *SQLiteRunStore) SaveRun(rec *api.RunRecord) error {
	visited, input, output, errStr, err := encodeRun(rec)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, graph_name, status, visited, input, output, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Graph,
		string(rec.Status),
		visited,
		input,
		output,
		errStr,
	)
	return err
}

func (s *SQLiteRunStore) UpdateRun(rec *api.RunRecord) error {
	visited, input, output, errStr, err := encodeRun(rec)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE runs
		SET graph_name = ?, status = ?, visited = ?, input = ?, output = ?, error = ?
		WHERE id = ?`,
		rec.Graph,
		string(rec.Status),
		visited,
		input,
		output,
		errStr,
		rec.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRunNotFound
	}

	return nil
}

func (s *SQLiteRunStore) GetRun(id string) (*api.RunRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, graph_name, status, visited, input, output, error
		FROM runs
		WHERE id = ?`,
		id,
	)

	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteRunStore) ListRuns(filter RunFilter) ([]*api.RunRecord, error) {
	query := `
		SELECT id, graph_name, status, visited, input, output, error
		FROM runs`
	var args []any
	var clauses []string

	if filter.Graph != "" {
		clauses = append(clauses, "graph_name = ?")
		args = append(args, filter.Graph)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*api.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeRun(rec *api.RunRecord) (visited, input, output []byte, errStr string, err error) {
	visited, err = EncodeValue(rec.Visited)
	if err != nil {
		return nil, nil, nil, "", err
	}
	input, err = EncodeValue(rec.Input)
	if err != nil {
		return nil, nil, nil, "", err
	}
	output, err = EncodeValue(rec.Output)
	if err != nil {
		return nil, nil, nil, "", err
	}
	if rec.Err != nil {
		errStr = rec.Err.Error()
	}
	return visited, input, output, errStr, nil
}

func scanRun(row rowScanner) (*api.RunRecord, error) {
	var rec api.RunRecord
	var statusStr string
	var visited, input, output []byte
	var errStr sql.NullString

	if err := row.Scan(&rec.ID, &rec.Graph, &statusStr, &visited, &input, &output, &errStr); err != nil {
		return nil, err
	}

	rec.Status = api.Status(statusStr)

	visitedVal, err := DecodeValue[[]string](visited)
	if err != nil {
		return nil, err
	}
	rec.Visited = visitedVal

	inVal, err := DecodeValue[any](input)
	if err != nil {
		return nil, err
	}
	rec.Input = inVal

	outVal, err := DecodeValue[any](output)
	if err != nil {
		return nil, err
	}
	rec.Output = outVal

	if errStr.Valid && errStr.String != "" {
		rec.Err = errors.New(errStr.String)
	}

	return &rec, nil
}
