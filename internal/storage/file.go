package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// File keeps all keys in one JSON object on disk. Every write replaces the
// file atomically, so a crash never leaves a torn record behind.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a File store at path. The file is created on first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	data[key] = value
	return f.write(data)
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.write(data)
}

func (f *File) Close() error { return nil }

func (f *File) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	data := make(map[string]string)
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}
