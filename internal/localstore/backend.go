package localstore

import (
	"context"
	"sync"
)

// Backend is the key-value medium behind a Store. Values are whole JSON documents.
type Backend interface {
	// Available reports whether the medium can be used at all
	Available(ctx context.Context) bool
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryBackend keeps values in a process-local map
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Available(ctx context.Context) bool { return true }

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryBackend) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// UnavailableBackend stands in when no storage medium exists, for example in a
// headless job that was not given a local path
type UnavailableBackend struct{}

func (UnavailableBackend) Available(ctx context.Context) bool { return false }

func (UnavailableBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (UnavailableBackend) Set(ctx context.Context, key, value string) error { return ErrUnavailable }

func (UnavailableBackend) Remove(ctx context.Context, key string) error { return ErrUnavailable }
