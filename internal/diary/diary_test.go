package diary

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/smileynet/drills/internal/store"
)

// fakeClock returns successive instants one minute apart.
func fakeClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Minute)
		return now
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "diary.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	start := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	s, err := NewStore(ctx, db, WithClock(fakeClock(start)), WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestAdd_StampsAndTrims(t *testing.T) {
	s := newTestStore(t)

	e, err := s.Add(context.Background(), "  went for a run  \n")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if e.ID == 0 {
		t.Error("ID = 0, want assigned id")
	}
	if e.Content != "went for a run" {
		t.Errorf("Content = %q, want %q", e.Content, "went for a run")
	}
	want := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	if !e.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, want)
	}

	got, err := s.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Content != e.Content || !got.Timestamp.Equal(e.Timestamp) {
		t.Errorf("Get() = %+v, want %+v", got, e)
	}
}

func TestAdd_Empty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add(context.Background(), " \t\n")
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("Add() error = %v, want ErrEmpty", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	// Given three entries added a minute apart
	s := newTestStore(t)
	ctx := context.Background()
	for _, c := range []string{"first", "second", "third"} {
		if _, err := s.Add(ctx, c); err != nil {
			t.Fatalf("Add(%q) error = %v", c, err)
		}
	}

	// When all entries are listed
	entries, err := s.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	// Then the newest comes first
	var got []string
	for _, e := range entries {
		got = append(got, e.Content)
	}
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestList_SearchAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, c := range []string{"Coffee with Ana", "gym", "coffee again", "100% done"} {
		if _, err := s.Add(ctx, c); err != nil {
			t.Fatalf("Add(%q) error = %v", c, err)
		}
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"case-insensitive search", ListOptions{Search: "coffee"}, []string{"coffee again", "Coffee with Ana"}},
		{"limit", ListOptions{Limit: 1}, []string{"100% done"}},
		{"search and limit", ListOptions{Search: "COFFEE", Limit: 1}, []string{"coffee again"}},
		{"wildcard is literal", ListOptions{Search: "%"}, []string{"100% done"}},
		{"no match", ListOptions{Search: "tea"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := s.List(ctx, tt.opts)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Content)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("List()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	e, err := s.Add(ctx, "delete me")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
