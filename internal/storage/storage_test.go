package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrryf/thesisweb/internal/db"
)

// exerciseKV runs the contract every backend must satisfy.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := kv.Set("reading-progress", `{"page":"/theory"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := kv.Get("reading-progress")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"page":"/theory"}` {
		t.Errorf("Get = %q", got)
	}

	// Last write wins.
	if err := kv.Set("reading-progress", "second"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if got, _ := kv.Get("reading-progress"); got != "second" {
		t.Errorf("after overwrite Get = %q, want second", got)
	}

	if err := kv.Remove("reading-progress"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := kv.Get("reading-progress"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove error = %v, want ErrNotFound", err)
	}

	// Removing an absent key is not an error.
	if err := kv.Remove("reading-progress"); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "store.json")
	exerciseKV(t, NewFile(path))
}

func TestFilePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := NewFile(path).Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := NewFile(path).Get("k")
	if err != nil || got != "v" {
		t.Errorf("Get from fresh instance = %q, %v", got, err)
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path).Get("k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get on corrupt file error = %v, want decode error", err)
	}
}

func TestSQLite(t *testing.T) {
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	s := NewSQLite(d)
	defer s.Close()
	exerciseKV(t, s)
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	for _, b := range []Backend{BackendMemory, BackendFile, BackendSQLite} {
		s, err := Open(b, filepath.Join(dir, string(b)+".store"))
		if err != nil {
			t.Fatalf("Open(%s): %v", b, err)
		}
		exerciseKV(t, s)
		if err := s.Close(); err != nil {
			t.Errorf("Close(%s): %v", b, err)
		}
	}

	if _, err := Open("redis", ""); err == nil {
		t.Error("Open with unknown backend should fail")
	}
}
