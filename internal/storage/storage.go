// Package storage provides the local key-value capability behind persisted
// client state.
package storage

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// KV is a string key-value store with localStorage semantics.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Store is a KV that holds resources.
type Store interface {
	KV
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Open returns the store for backend. path is ignored for memory.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
