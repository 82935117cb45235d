package storage

import (
	"context"
	"sync"
)

// Memory is a map-backed Store for tests and ephemeral sessions.
type Memory struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	if err := checkKey("get", key); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Put stores value under key, replacing any previous value.
func (m *Memory) Put(_ context.Context, key, value string) error {
	if err := checkKey("put", key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
