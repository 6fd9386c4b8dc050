package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"roadmapcore/pkg/domain"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewStore(ctx, path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if _, err := store.Load(ctx, "plan"); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("expected empty slot, got %v", err)
	}
	if err := store.Save(ctx, "plan", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "plan", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	got, err := reloaded.Load(ctx, "plan")
	if err != nil || string(got) != `{"v":2}` {
		t.Fatalf("expected latest payload, got %q err=%v", got, err)
	}
	if reloaded.Path() != path || reloaded.Driver() != "sqlite" {
		t.Fatalf("unexpected store identity %s %s", reloaded.Path(), reloaded.Driver())
	}
}

func TestSQLiteStoreKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Save(ctx, "a", []byte("A")); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if _, err := store.Load(ctx, "b"); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("expected b empty, got %v", err)
	}
	var rows int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM slot`).Scan(&rows); err != nil || rows != 1 {
		t.Fatalf("expected one row, got %d err=%v", rows, err)
	}
}
