// ABOUTME: Tests for the persistent key-value store
// ABOUTME: Uses temporary directories for isolated file I/O

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_LoadEmpty(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	if _, ok := fs.Get("token"); ok {
		t.Error("expected no value in a fresh store")
	}
}

func TestFileStore_SetAndReload(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	if err := fs.SetMany(map[string]string{"token": "abc", "user": `{"id":1}`}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}

	// A second instance reads what the first one wrote
	fs2 := NewFileStore(dir)
	if v, ok := fs2.Get("token"); !ok || v != "abc" {
		t.Errorf("expected token abc, got %q (ok=%v)", v, ok)
	}
	if v, ok := fs2.Get("user"); !ok || v != `{"id":1}` {
		t.Errorf("expected user blob, got %q (ok=%v)", v, ok)
	}
}

func TestFileStore_Remove(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	fs.SetMany(map[string]string{"token": "abc", "user": "{}", "theme": "dark"})

	if err := fs.Remove("token", "user", "missing"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	fs2 := NewFileStore(dir)
	if _, ok := fs2.Get("token"); ok {
		t.Error("expected token removed")
	}
	if _, ok := fs2.Get("user"); ok {
		t.Error("expected user removed")
	}
	if v, _ := fs2.Get("theme"); v != "dark" {
		t.Errorf("expected unrelated key kept, got %q", v)
	}
}

func TestFileStore_InvalidJSONStartsFresh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileStore(dir)
	if _, ok := fs.Get("token"); ok {
		t.Error("expected empty store for invalid file")
	}
	if err := fs.Set("token", "x"); err != nil {
		t.Fatalf("Set after invalid file: %v", err)
	}
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storefront")
	fs := NewFileStore(dir)

	if err := fs.Set("token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("state file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	ms.SetMany(map[string]string{"a": "1", "b": "2"})
	ms.Remove("a")

	if _, ok := ms.Get("a"); ok {
		t.Error("expected a removed")
	}
	if v, _ := ms.Get("b"); v != "2" {
		t.Errorf("expected b=2, got %q", v)
	}
}
