package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"todolists/internal/model"
)

func TestSQLiteStore_SaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	doc := &model.Document{
		Lists: []model.List{
			{Name: "Groceries", Todos: []model.Todo{{Name: "Milk", Completed: true}, {Name: "Eggs"}}},
			{Name: "Empty", Todos: []model.Todo{}},
		},
	}
	doc.SetSuccess("A new list has been added")

	if err := s.Put(ctx, "sess-a", doc); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "sess-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Lists) != 2 || got.Lists[0].Name != "Groceries" || !got.Lists[0].Todos[0].Completed {
		t.Fatalf("unexpected lists: %+v", got.Lists)
	}
	if got.Lists[1].Todos == nil {
		t.Fatalf("expected non-nil todos slice")
	}
	if got.Flash == nil || got.Flash.Message != "A new list has been added" {
		t.Fatalf("expected flash to round-trip, got %+v", got.Flash)
	}

	// Reopen: data survives the process.
	_ = s.Close()
	s2, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = s2.Close() })
	if _, err := s2.Get(ctx, "sess-a"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if _, err := s2.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSQLiteStore_ListPruneDelete(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if err := s.Put(ctx, "old", model.NewDocument()); err != nil {
		t.Fatalf("put old: %v", err)
	}
	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	if err := s.Put(ctx, "new", &model.Document{Lists: []model.List{{Name: "L", Todos: []model.Todo{{Name: "t"}}}}}); err != nil {
		t.Fatalf("put new: %v", err)
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].ID != "new" || infos[0].Lists != 1 || infos[0].Todos != 1 {
		t.Fatalf("unexpected infos: %+v", infos)
	}
	if !infos[0].UpdatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("unexpected updatedAt %v", infos[0].UpdatedAt)
	}

	n, err := s.Prune(ctx, base.Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("prune: n=%d err=%v", n, err)
	}
	if err := s.Delete(ctx, "new"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "new"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
