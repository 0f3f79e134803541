package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend keeps values in process memory. A positive capacity limits the
// total bytes of keys and values, mimicking a browser storage quota.
type MemoryBackend struct {
	values   map[string]string
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewMemoryBackend creates an unbounded in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return NewMemoryBackendWithCapacity(0)
}

// NewMemoryBackendWithCapacity creates an in-memory backend holding at most
// capacity bytes. Zero means unbounded.
func NewMemoryBackendWithCapacity(capacity int) *MemoryBackend {
	return &MemoryBackend{
		values:   make(map[string]string),
		capacity: capacity,
	}
}

// Get returns the value stored under key.
func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(ctx, key); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}

	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores value under key.
func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	if m.capacity > 0 {
		used := m.usedLocked() - m.sizeLocked(key) + len(key) + len(value)
		if used > m.capacity {
			return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used, m.capacity)
		}
	}

	m.values[key] = value
	return nil
}

// Remove deletes key.
func (m *MemoryBackend) Remove(ctx context.Context, key string) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	delete(m.values, key)
	return nil
}

// Close marks the backend closed.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func (m *MemoryBackend) usedLocked() int {
	total := 0
	for k, v := range m.values {
		total += len(k) + len(v)
	}
	return total
}

func (m *MemoryBackend) sizeLocked(key string) int {
	value, ok := m.values[key]
	if !ok {
		return 0
	}
	return len(key) + len(value)
}
