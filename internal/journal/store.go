// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists a history of build runs in a SQLite database.
// Journal writes are advisory: the pipeline treats a failed write as a
// warning, never as a build failure. See docs/ARCHITECTURE § Build
// Journal.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperbuild/pkg/types"
)

// DefaultPath is the journal location relative to the project root.
const DefaultPath = ".paperbuild/journal.db"

// defaultRecentLimit bounds Recent when the caller passes no limit.
const defaultRecentLimit = 20

// Store manages the build journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating the parent
// directory and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			command TEXT NOT NULL,
			document TEXT,
			artifact TEXT,
			engine TEXT,
			passes INTEGER NOT NULL DEFAULT 0,
			figures_rendered INTEGER NOT NULL DEFAULT 0,
			figures_fresh INTEGER NOT NULL DEFAULT 0,
			figures_failed INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_command ON builds(command)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one run to the journal and returns the stored record
// with its assigned ID.
func (s *Store) Record(ctx context.Context, rec types.BuildRecord) (types.BuildRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO builds
			(started_at, duration_ns, command, document, artifact, engine,
			 passes, figures_rendered, figures_fresh, figures_failed, outcome, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(rec.Duration),
		rec.Command, rec.Document, rec.Artifact, rec.Engine,
		rec.Passes, rec.FiguresRendered, rec.FiguresFresh, rec.FiguresFailed,
		string(rec.Outcome), rec.Error,
	)
	if err != nil {
		return rec, fmt.Errorf("inserting build record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rec, fmt.Errorf("reading record id: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// Recent returns the newest records, most recent first. A non-positive
// limit uses defaultRecentLimit.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.BuildRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ns, command, document, artifact, engine,
			passes, figures_rendered, figures_fresh, figures_failed, outcome, error
		 FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var records []types.BuildRecord
	for rows.Next() {
		var (
			rec        types.BuildRecord
			startedAt  string
			durationNS int64
			outcome    string
		)
		if err := rows.Scan(
			&rec.ID, &startedAt, &durationNS, &rec.Command, &rec.Document,
			&rec.Artifact, &rec.Engine, &rec.Passes, &rec.FiguresRendered,
			&rec.FiguresFresh, &rec.FiguresFailed, &outcome, &rec.Error,
		); err != nil {
			return nil, fmt.Errorf("scanning build record: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
		}
		rec.StartedAt = ts
		rec.Duration = time.Duration(durationNS)
		rec.Outcome = types.BuildOutcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}
