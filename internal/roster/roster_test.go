package roster

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/smileynet/drills/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "drills.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewStore(ctx, db, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestSeed_TopStudent(t *testing.T) {
	// Given the default roster
	s := newTestStore(t)
	ctx := context.Background()

	// When it is seeded
	if err := s.Seed(ctx, Defaults); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	// Then the top student is kennethlove
	top, err := s.Top(ctx)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if top.Username != "kennethlove" {
		t.Errorf("Top().Username = %q, want %q", top.Username, "kennethlove")
	}
}

func TestSeed_UpdatesExistingPoints(t *testing.T) {
	// Given a seeded roster
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Seed(ctx, Defaults); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	// When seeding again with davemcfarland ahead
	again := []Student{{Username: "davemcfarland", Points: 20000}}
	if err := s.Seed(ctx, again); err != nil {
		t.Fatalf("Seed() again error = %v", err)
	}

	// Then the existing row is updated rather than duplicated
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != len(Defaults) {
		t.Errorf("List() len = %d, want %d", len(list), len(Defaults))
	}
	if list[0] != (Student{Username: "davemcfarland", Points: 20000}) {
		t.Errorf("List()[0] = %+v, want davemcfarland with 20000", list[0])
	}
}

func TestUpsert_Get(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, Student{Username: "newbie"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	got, err := s.Get(ctx, "newbie")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Points != 0 {
		t.Errorf("Points = %d, want default 0", got.Points)
	}

	if err := s.Upsert(ctx, Student{Username: "newbie", Points: 42}); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	got, err = s.Get(ctx, "newbie")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Points != 42 {
		t.Errorf("Points = %d, want 42", got.Points)
	}
}

func TestUpsert_InvalidUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"", strings.Repeat("x", MaxUsernameLen+1)} {
		err := s.Upsert(ctx, Student{Username: name})
		if !errors.Is(err, ErrInvalidUsername) {
			t.Errorf("Upsert(%d chars) error = %v, want ErrInvalidUsername", len(name), err)
		}
	}
}

func TestSeed_InvalidUsernameWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Seed(ctx, []Student{{Username: "ok", Points: 1}, {Username: ""}})
	if !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("Seed() error = %v, want ErrInvalidUsername", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %v, want empty", list)
	}
}

func TestTop_EmptyRoster(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Top(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Top() error = %v, want ErrNotFound", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestList_OrderedByPoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Seed(ctx, Defaults); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var names []string
	for _, st := range list {
		names = append(names, st.Username)
	}
	want := []string{"kennethlove", "davemcfarland", "chalkers", "joykesten2", "craigsdennis"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
}
