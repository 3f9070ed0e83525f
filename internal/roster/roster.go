// Package roster persists students and their points.
package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/smileynet/drills/internal/store"
)

// MaxUsernameLen is the longest username the students table accepts.
const MaxUsernameLen = 255

// Sentinel errors for caller-checkable conditions.
var (
	ErrNotFound        = errors.New("roster: student not found")
	ErrInvalidUsername = errors.New("roster: invalid username")
)

// Student is a row in the students table.
type Student struct {
	Username string
	Points   int
}

// Defaults is the built-in student list used by Seed.
var Defaults = []Student{
	{Username: "kennethlove", Points: 14718},
	{Username: "chalkers", Points: 11912},
	{Username: "joykesten2", Points: 7363},
	{Username: "craigsdennis", Points: 4079},
	{Username: "davemcfarland", Points: 14717},
}

const schema = `CREATE TABLE IF NOT EXISTS students (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username VARCHAR(255) NOT NULL UNIQUE,
	points INTEGER NOT NULL DEFAULT 0
)`

// Store reads and writes students.
type Store struct {
	db  *store.DB
	log *zap.Logger
}

// NewStore ensures the students table exists and returns a Store over db.
func NewStore(ctx context.Context, db *store.DB, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.CreateTables(ctx, schema); err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// validateUsername rejects empty and over-long usernames.
func validateUsername(name string) error {
	if name == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidUsername)
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidUsername, MaxUsernameLen)
	}
	return nil
}

// Upsert creates the student, or sets the points of an existing student with
// the same username.
func (s *Store) Upsert(ctx context.Context, st Student) error {
	if err := validateUsername(st.Username); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (username, points) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET points = excluded.points`,
		st.Username, st.Points)
	if err != nil {
		return fmt.Errorf("roster: saving %s: %w", st.Username, err)
	}
	s.log.Debug("student saved", zap.String("username", st.Username), zap.Int("points", st.Points))
	return nil
}

// Seed upserts every student in students within one transaction.
func (s *Store) Seed(ctx context.Context, students []Student) error {
	for _, st := range students {
		if err := validateUsername(st.Username); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("roster: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO students (username, points) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET points = excluded.points`)
	if err != nil {
		return fmt.Errorf("roster: preparing seed: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, st := range students {
		if _, err := stmt.ExecContext(ctx, st.Username, st.Points); err != nil {
			return fmt.Errorf("roster: saving %s: %w", st.Username, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("roster: commit: %w", err)
	}
	s.log.Info("students seeded", zap.Int("count", len(students)))
	return nil
}

// Get returns the student with the given username.
func (s *Store) Get(ctx context.Context, username string) (Student, error) {
	var st Student
	err := s.db.QueryRowContext(ctx,
		`SELECT username, points FROM students WHERE username = ?`, username,
	).Scan(&st.Username, &st.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	if err != nil {
		return Student{}, fmt.Errorf("roster: loading %s: %w", username, err)
	}
	return st, nil
}

// Top returns the student with the most points. Ties go to the student
// created first.
func (s *Store) Top(ctx context.Context) (Student, error) {
	var st Student
	err := s.db.QueryRowContext(ctx,
		`SELECT username, points FROM students ORDER BY points DESC, id ASC LIMIT 1`,
	).Scan(&st.Username, &st.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, fmt.Errorf("%w: roster is empty", ErrNotFound)
	}
	if err != nil {
		return Student{}, fmt.Errorf("roster: loading top student: %w", err)
	}
	return st, nil
}

// List returns all students, highest points first.
func (s *Store) List(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, points FROM students ORDER BY points DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("roster: listing: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.Username, &st.Points); err != nil {
			return nil, fmt.Errorf("roster: scanning: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roster: listing: %w", err)
	}
	return students, nil
}
