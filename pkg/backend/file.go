package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// File stores one file per key inside a namespace directory. Writes go
// through a temp file followed by rename, so a reader never observes a
// partially written entry.
type File struct {
	dir string
	mu  sync.Mutex
}

func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("backend: directory is required")
	}
	cleaned := filepath.Clean(dir)
	if err := os.MkdirAll(cleaned, 0o755); err != nil {
		return nil, fmt.Errorf("backend: create directory %s: %w", cleaned, err)
	}
	return &File{dir: cleaned}, nil
}

func (f *File) Get(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrKeyRequired
	}
	raw, err := os.ReadFile(f.entryPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("backend: read key %s: %w", key, err)
	}
	return raw, true, nil
}

func (f *File) Set(key string, raw []byte) error {
	if key == "" {
		return ErrKeyRequired
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("backend: stage key %s: %w", key, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("backend: stage key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("backend: stage key %s: %w", key, err)
	}
	if err := os.Rename(name, f.entryPath(key)); err != nil {
		os.Remove(name)
		return fmt.Errorf("backend: write key %s: %w", key, err)
	}
	return nil
}

// entryPath escapes the key so slashes and other separators cannot walk
// outside the namespace directory.
func (f *File) entryPath(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}
