package storage

import (
	"path/filepath"
	"testing"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "zentask.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestSQLiteKV(t *testing.T) {
	t.Run("Given an absent key When Get Then ok is false", func(t *testing.T) {
		kv := newTestKV(t)

		_, ok, err := kv.Get("missing")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("expected ok=false for absent key")
		}
	})

	t.Run("Given a stored value When Get Then it returns", func(t *testing.T) {
		kv := newTestKV(t)

		if err := kv.Set("tasks_u1", `[{"id":"t1"}]`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		v, ok, err := kv.Get("tasks_u1")
		if err != nil || !ok {
			t.Fatalf("Get failed: ok=%v err=%v", ok, err)
		}
		if v != `[{"id":"t1"}]` {
			t.Errorf("unexpected value: %q", v)
		}
	})

	t.Run("Given an existing key When Set Then the value is replaced", func(t *testing.T) {
		kv := newTestKV(t)

		kv.Set("k", "first")
		kv.Set("k", "second")

		v, _, _ := kv.Get("k")
		if v != "second" {
			t.Errorf("expected replacement, got %q", v)
		}
	})

	t.Run("Given a key When Remove Then it is gone and re-removal is fine", func(t *testing.T) {
		kv := newTestKV(t)

		kv.Set("k", "v")
		if err := kv.Remove("k"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if _, ok, _ := kv.Get("k"); ok {
			t.Error("expected key removed")
		}
		if err := kv.Remove("k"); err != nil {
			t.Errorf("expected removing an absent key to be fine, got %v", err)
		}
	})

	t.Run("Given a reopened database Then values persist", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "zentask.db")

		kv, err := NewSQLiteKV(path)
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		kv.Set("zentask_user", `{"id":"u1"}`)
		kv.Close()

		kv2, err := NewSQLiteKV(path)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer kv2.Close()

		v, ok, _ := kv2.Get("zentask_user")
		if !ok || v != `{"id":"u1"}` {
			t.Errorf("expected value to persist across reopen, got ok=%v v=%q", ok, v)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty ids, got %q and %q", a, b)
	}
}

func TestTasksKey(t *testing.T) {
	if got := TasksKey("u-123"); got != "tasks_u-123" {
		t.Errorf("unexpected key: %q", got)
	}
}
