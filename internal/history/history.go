// Package history persists a ledger of processing runs in a local
// SQLite database so earlier verdicts can be reviewed without re-running
// the matcher.
//
// Build modes follow the usual SQLite split:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (-tags cgo_sqlite): mattn/go-sqlite3
//
// Use Open() instead of sql.Open() so the correct driver name is used.
package history

import (
	"database/sql"
	"time"

	"github.com/FocuswithJustin/pullquote/core/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	total       INTEGER NOT NULL,
	well_formed INTEGER NOT NULL,
	malformed   INTEGER NOT NULL,
	people      INTEGER NOT NULL,
	fixed       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is one recorded processing run.
type Run struct {
	ID         string
	Source     string
	CreatedAt  time.Time
	Total      int
	WellFormed int
	Malformed  int
	People     int
	Fixed      bool
}

// Store is a handle to the run ledger.
type Store struct {
	db *sql.DB
}

// DriverName returns the SQL driver name in use ("sqlite" for the pure
// Go driver, "sqlite3" for CGO).
func DriverName() string {
	return driverName
}

// Open opens (and if needed initializes) the ledger database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize run ledger schema")
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run into the ledger.
func (s *Store) Record(run Run) error {
	fixed := 0
	if run.Fixed {
		fixed = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, source, created_at, total, well_formed, malformed, people, fixed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Total, run.WellFormed, run.Malformed, run.People, fixed,
	)
	return errors.Wrap(err, "failed to record run")
}

// List returns the most recent runs, newest first. A limit of zero or
// less defaults to 20.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, source, created_at, total, well_formed, malformed, people, fixed
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		var fixed int
		if err := rows.Scan(&r.ID, &r.Source, &createdAt, &r.Total, &r.WellFormed, &r.Malformed, &r.People, &fixed); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}
		r.Fixed = fixed != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
