package backend

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileRoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}

	if _, ok, err := store.Get("radicle.theme"); err != nil || ok {
		t.Fatalf("expected absent entry, got %v %v", ok, err)
	}
	if err := store.Set("radicle.theme", []byte(`"dark"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set("radicle.theme", []byte(`"light"`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	raw, ok, err := store.Get("radicle.theme")
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if string(raw) != `"light"` {
		t.Fatalf("expected latest write, got %q", raw)
	}
}

func TestFileEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}

	const key = "nested/../escape"
	if err := store.Set(key, []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, ok, err := store.Get(key)
	if err != nil || !ok || string(raw) != "x" {
		t.Fatalf("get: %q %v %v", raw, ok, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single entry inside the namespace dir, got %d", len(entries))
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := store.Set("k", []byte{byte('0' + i)}); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, ".entry-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected staging files to be renamed away, found %v", matches)
	}
}

func TestFileRequiresDirectory(t *testing.T) {
	if _, err := NewFile(""); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
