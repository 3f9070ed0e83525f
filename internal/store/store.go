// Package store opens the local SQLite database used by the students and
// diary demos.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle.
type DB struct {
	*sql.DB
	path string
	log  *zap.Logger
}

// Open creates the parent directory of path if needed and opens the database.
// The special path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: creating directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases stable and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: connecting to %s: %w", path, err)
	}

	log.Debug("database opened", zap.String("path", path))
	return &DB{DB: db, path: path, log: log}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// CreateTables runs each CREATE statement in a single transaction.
// Statements are expected to use IF NOT EXISTS so repeated calls are safe.
func (d *DB) CreateTables(ctx context.Context, stmts ...string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: creating tables: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	d.log.Debug("tables ready", zap.Int("statements", len(stmts)))
	return nil
}
