package ofx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

func TestHistory_PersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	line := Entry{Account: "1234567890", FitID: "2024011501"}

	first, err := LoadHistory(ctx, backend, nil)
	require.NoError(t, err)
	assert.False(t, first.Seen(line))
	first.Mark(line)
	require.NoError(t, first.Save(ctx))

	second, err := LoadHistory(ctx, backend, nil)
	require.NoError(t, err)
	assert.True(t, second.Seen(line))
	assert.False(t, second.Seen(Entry{Account: "4111111111111111", FitID: "2024011501"}))
}

func TestHistory_IgnoresLinesWithoutFitID(t *testing.T) {
	h, err := LoadHistory(context.Background(), storage.NewMemoryBackend(), nil)
	require.NoError(t, err)

	line := Entry{Account: "1234567890"}
	h.Mark(line)
	assert.False(t, h.Seen(line))
	assert.Empty(t, line.Key())
}

func TestHistory_UnreadableStateStartsOver(t *testing.T) {
	for _, stored := range []string{"null", "{broken"} {
		t.Run(stored, func(t *testing.T) {
			ctx := context.Background()
			backend := storage.NewMemoryBackend()
			require.NoError(t, backend.Set(ctx, HistoryKey, stored))

			h, err := LoadHistory(ctx, backend, nil)
			require.NoError(t, err)
			line := Entry{Account: "a", FitID: "1"}
			assert.False(t, h.Seen(line))
			require.NotPanics(t, func() { h.Mark(line) })
			assert.True(t, h.Seen(line))
		})
	}
}

func TestHistory_SaveFailure(t *testing.T) {
	ctx := context.Background()
	h, err := LoadHistory(ctx, storage.NewMemoryBackendWithCapacity(4), nil)
	require.NoError(t, err)

	h.Mark(Entry{Account: "1234567890", FitID: "2024011501"})
	assert.ErrorIs(t, h.Save(ctx), common.ErrStorage)
}
