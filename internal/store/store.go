// Package store implements SQLite persistence for product specifications.
//
// A spec and its children (stories, tasks, risks, unknowns, milestones) are
// kept in six normalized tables. The store decomposes validated model output
// into that record set, reassembles full specs for reads, and performs the
// explicit cascade on delete. One Store wraps one *sql.DB handle; it is
// constructed at process start and closed on shutdown.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

// timeLayout is RFC 3339 with fixed nanosecond width so that stored
// timestamps compare lexicographically in creation order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the persistence engine backed by SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if necessary) the SQLite database at path and
// bootstraps the schema. The parent directory is created when missing.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("store opened", zap.String("path", path))
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports store connectivity for the status endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS specs (
	id                    TEXT PRIMARY KEY,
	title                 TEXT NOT NULL,
	goal                  TEXT NOT NULL,
	target_user           TEXT NOT NULL,
	summary               TEXT NOT NULL,
	product_type          TEXT NOT NULL,
	complexity            TEXT NOT NULL,
	estimated_timeline    TEXT NOT NULL,
	success_criteria      TEXT NOT NULL DEFAULT '[]',
	technical_constraints TEXT NOT NULL DEFAULT '[]',
	timeline_constraint   TEXT NOT NULL DEFAULT 'Not specified',
	budget_constraint     TEXT NOT NULL DEFAULT 'Not specified',
	created_at            TEXT NOT NULL,
	updated_at            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_specs_created_at ON specs(created_at);
CREATE INDEX IF NOT EXISTS idx_specs_product_type ON specs(product_type);

CREATE TABLE IF NOT EXISTS stories (
	id          TEXT PRIMARY KEY,
	spec_id     TEXT NOT NULL REFERENCES specs(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	ord         INTEGER NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_stories_spec_ord ON stories(spec_id, ord);

CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	story_id   TEXT NOT NULL REFERENCES stories(id),
	content    TEXT NOT NULL,
	ord        INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_story_ord ON tasks(story_id, ord);

CREATE TABLE IF NOT EXISTS risks (
	id         TEXT PRIMARY KEY,
	spec_id    TEXT NOT NULL REFERENCES specs(id),
	content    TEXT NOT NULL,
	ord        INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_risks_spec_ord ON risks(spec_id, ord);

CREATE TABLE IF NOT EXISTS unknowns (
	id         TEXT PRIMARY KEY,
	spec_id    TEXT NOT NULL REFERENCES specs(id),
	content    TEXT NOT NULL,
	ord        INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_unknowns_spec_ord ON unknowns(spec_id, ord);

CREATE TABLE IF NOT EXISTS milestones (
	id          TEXT PRIMARY KEY,
	spec_id     TEXT NOT NULL REFERENCES specs(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	ord         INTEGER NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_milestones_spec_ord ON milestones(spec_id, ord);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// wrapErr translates storage-level failures into the domain error taxonomy.
// Uniqueness violations become ConflictError; everything else passes through.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		key := msg[strings.Index(msg, "UNIQUE constraint failed")+len("UNIQUE constraint failed"):]
		return &spec.ConflictError{Key: strings.TrimLeft(key, ": ")}
	}
	return err
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
