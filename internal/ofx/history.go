package ofx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

// HistoryKey is the backend key holding the statement lines already imported.
const HistoryKey = "ofx-imported"

// Key identifies a statement line across files and runs. It is empty when
// the bank sent no FITID.
func (e Entry) Key() string {
	if e.FitID == "" {
		return ""
	}
	return e.Account + "/" + e.FitID
}

// History remembers which statement lines were imported so that importing
// the same statement again adds nothing.
type History struct {
	backend storage.Backend
	logger  *slog.Logger
	seen    map[string]bool
}

// LoadHistory reads the import history from backend. Unreadable state is
// discarded.
func LoadHistory(ctx context.Context, backend storage.Backend, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &History{backend: backend, logger: logger, seen: make(map[string]bool)}

	raw, ok, err := backend.Get(ctx, HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read import history: %w", common.ErrStorage, err)
	}
	if !ok {
		return h, nil
	}

	var seen map[string]bool
	if err := json.Unmarshal([]byte(raw), &seen); err != nil {
		logger.Warn("discarding unreadable import history", "error", err)
		return h, nil
	}
	if seen != nil {
		h.seen = seen
	}
	return h, nil
}

// Seen reports whether e was imported before. Lines without a FITID are
// never considered seen.
func (h *History) Seen(e Entry) bool {
	key := e.Key()
	return key != "" && h.seen[key]
}

// Mark records e as imported.
func (h *History) Mark(e Entry) {
	if key := e.Key(); key != "" {
		h.seen[key] = true
	}
}

// Save persists the history.
func (h *History) Save(ctx context.Context) error {
	data, err := json.Marshal(h.seen)
	if err != nil {
		return fmt.Errorf("failed to encode import history: %w", err)
	}
	if err := h.backend.Set(ctx, HistoryKey, string(data)); err != nil {
		return fmt.Errorf("%w: failed to save import history: %w", common.ErrStorage, err)
	}
	h.logger.Debug("import history saved", "lines", len(h.seen))
	return nil
}
