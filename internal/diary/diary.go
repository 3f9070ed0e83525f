// Package diary persists timestamped diary entries.
package diary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smileynet/drills/internal/store"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrNotFound = errors.New("diary: entry not found")
	ErrEmpty    = errors.New("diary: entry content is empty")
)

// Entry is a row in the entries table.
type Entry struct {
	ID        int64
	Content   string
	Timestamp time.Time
}

const schema = `CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	timestamp INTEGER NOT NULL
)`

// Store reads and writes diary entries.
type Store struct {
	db  *store.DB
	log *zap.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the function used to timestamp new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore ensures the entries table exists and returns a Store over db.
func NewStore(ctx context.Context, db *store.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := db.CreateTables(ctx, schema); err != nil {
		return nil, fmt.Errorf("diary: %w", err)
	}
	return s, nil
}

// Add stores a new entry stamped with the current time.
// Leading and trailing whitespace is removed from content.
func (s *Store) Add(ctx context.Context, content string) (Entry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Entry{}, ErrEmpty
	}

	e := Entry{Content: content, Timestamp: s.now()}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (content, timestamp) VALUES (?, ?)`,
		e.Content, e.Timestamp.UnixNano())
	if err != nil {
		return Entry{}, fmt.Errorf("diary: adding entry: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("diary: adding entry: %w", err)
	}
	s.log.Debug("entry added", zap.Int64("id", e.ID))
	return e, nil
}

// ListOptions filters and bounds List.
type ListOptions struct {
	Search string // Case-insensitive substring match on content; empty matches all
	Limit  int    // Maximum entries returned; zero or negative means no limit
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := `SELECT id, content, timestamp FROM entries`
	var args []any
	if opts.Search != "" {
		query += ` WHERE content LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(opts.Search)+"%")
	}
	query += ` ORDER BY timestamp DESC, id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("diary: listing: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diary: listing: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, content, timestamp FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return e, err
}

// Delete removes the entry with the given ID.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("diary: deleting %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("diary: deleting %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.log.Debug("entry deleted", zap.Int64("id", id))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e  Entry
		ns int64
	)
	if err := sc.Scan(&e.ID, &e.Content, &ns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("diary: scanning: %w", err)
	}
	e.Timestamp = time.Unix(0, ns)
	return e, nil
}

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
