package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendFactories lists every backend that must satisfy the Backend contract.
func backendFactories() map[string]func(t *testing.T) Backend {
	return map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend {
			t.Helper()
			return NewMemoryBackend()
		},
		"file": func(t *testing.T) Backend {
			t.Helper()
			backend, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)
			return backend
		},
		"sqlite": func(t *testing.T) Backend {
			t.Helper()
			return createTestSQLite(t)
		},
	}
}

func TestBackendContract(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			backend := factory(t)
			t.Cleanup(func() { _ = backend.Close() })

			t.Run("missing key", func(t *testing.T) {
				value, ok, err := backend.Get(ctx, "absent")
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Empty(t, value)
			})

			t.Run("set then get", func(t *testing.T) {
				require.NoError(t, backend.Set(ctx, "db", `{"version":"1.0.0"}`))
				value, ok, err := backend.Get(ctx, "db")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, `{"version":"1.0.0"}`, value)
			})

			t.Run("set replaces", func(t *testing.T) {
				require.NoError(t, backend.Set(ctx, "db", "first"))
				require.NoError(t, backend.Set(ctx, "db", "second"))
				value, _, err := backend.Get(ctx, "db")
				require.NoError(t, err)
				assert.Equal(t, "second", value)
			})

			t.Run("remove", func(t *testing.T) {
				require.NoError(t, backend.Set(ctx, "gone", "x"))
				require.NoError(t, backend.Remove(ctx, "gone"))
				_, ok, err := backend.Get(ctx, "gone")
				require.NoError(t, err)
				assert.False(t, ok)

				// Removing again is a no-op.
				assert.NoError(t, backend.Remove(ctx, "gone"))
			})

			t.Run("empty key rejected", func(t *testing.T) {
				_, _, err := backend.Get(ctx, " ")
				assert.ErrorIs(t, err, ErrEmptyString)
				assert.ErrorIs(t, backend.Set(ctx, "", "x"), ErrEmptyString)
			})

			t.Run("nil context rejected", func(t *testing.T) {
				//nolint:staticcheck // exercising the nil guard
				_, _, err := backend.Get(nil, "db")
				assert.ErrorIs(t, err, ErrNilContext)
			})
		})
	}
}

func TestMemoryBackend_Capacity(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackendWithCapacity(20)

	require.NoError(t, backend.Set(ctx, "k", strings.Repeat("a", 10)))

	err := backend.Set(ctx, "other", strings.Repeat("b", 10))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Rewriting an existing key only counts the new value.
	require.NoError(t, backend.Set(ctx, "k", strings.Repeat("c", 19)))

	value, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, strings.Repeat("c", 19), value)
	assert.Equal(t, 1, backend.Len())
}

func TestMemoryBackend_Closed(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Close())

	assert.ErrorIs(t, backend.Set(ctx, "k", "v"), ErrClosed)
	_, _, err := backend.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFileBackend_RejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, backend.Set(ctx, "../escape", "x"))
	assert.Error(t, backend.Set(ctx, "a/b", "x"))
}

func TestFileBackend_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "settings", `{"darkTheme":true}`))

	second, err := NewFileBackend(dir)
	require.NoError(t, err)
	value, ok, err := second.Get(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"darkTheme":true}`, value)

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files must not be left behind")
}
