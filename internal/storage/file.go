package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileBackend stores each key as a file inside a directory. Writes go to a
// temporary file that is renamed over the target.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates a file backend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := validateString(dir, "dir"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Get returns the value stored under key.
func (f *FileBackend) Get(ctx context.Context, key string) (string, bool, error) {
	path, err := f.path(ctx, key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- key is restricted to a safe charset
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set stores value under key.
func (f *FileBackend) Set(ctx context.Context, key, value string) error {
	path, err := f.path(ctx, key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (f *FileBackend) Remove(ctx context.Context, key string) error {
	path, err := f.path(ctx, key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; every operation opens and closes its own file.
func (f *FileBackend) Close() error {
	return nil
}

// Dir returns the directory holding the stored files.
func (f *FileBackend) Dir() string {
	return f.dir
}

func (f *FileBackend) path(ctx context.Context, key string) (string, error) {
	if err := validateKey(ctx, key); err != nil {
		return "", err
	}
	if !fileKeyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid key %q: only letters, digits, '.', '_' and '-' are allowed", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}
