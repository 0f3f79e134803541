// Package storage provides the key-value backends the ledger persists into.
package storage

import (
	"context"
	"errors"
)

// Backend errors.
var (
	// ErrQuotaExceeded is returned when a write would exceed the backend capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage backend closed")
)

// Backend stores string values by key. Each Set replaces the whole value
// atomically; readers never observe a partial write.
type Backend interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}
