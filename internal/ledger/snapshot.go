package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// ExportSnapshot encodes the ledger and settings as an indented JSON document
// stamped with the export time.
func (s *Store) ExportSnapshot(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settingsLocked(ctx)
	snapshot := model.Snapshot{
		Database:   s.loadLocked(ctx),
		Settings:   &settings,
		ExportDate: s.now().UTC(),
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.logger.Info("snapshot exported", "transactions", len(snapshot.Database.Transactions))
	return string(data), nil
}

// ImportSnapshot replaces the ledger, and the settings when present, with the
// contents of an exported document. The document must carry a
// database.transactions array; anything else missing is defaulted. On any
// failure the persisted state is left unchanged.
func (s *Store) ImportSnapshot(ctx context.Context, data string) error {
	snapshot, err := decodeSnapshot([]byte(data))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, hadPrevious, err := s.backend.Get(ctx, DatabaseKey)
	if err != nil {
		return fmt.Errorf("%w: failed to read current ledger: %w", common.ErrStorage, err)
	}

	if err := s.writeJSON(ctx, DatabaseKey, snapshot.Database); err != nil {
		return err
	}

	if snapshot.Settings != nil {
		if err := s.writeJSON(ctx, SettingsKey, *snapshot.Settings); err != nil {
			s.restoreLedger(ctx, previous, hadPrevious)
			return err
		}
	}

	s.logger.Info("snapshot imported",
		"transactions", len(snapshot.Database.Transactions),
		"settings", snapshot.Settings != nil)
	return nil
}

func (s *Store) restoreLedger(ctx context.Context, previous string, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = s.backend.Set(ctx, DatabaseKey, previous)
	} else {
		err = s.backend.Remove(ctx, DatabaseKey)
	}
	if err != nil {
		s.logger.Error("failed to restore ledger after partial import", "error", err)
	}
}

// rawSnapshot mirrors model.Snapshot but keeps the parts whose presence is
// checked before decoding.
type rawSnapshot struct {
	Database *struct {
		Version      string             `json:"version"`
		Transactions json.RawMessage    `json:"transactions"`
		Categories   *model.CategorySet `json:"categories"`
	} `json:"database"`
	Settings json.RawMessage `json:"settings"`
}

func decodeSnapshot(data []byte) (model.Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", common.ErrFormat, err)
	}
	if raw.Database == nil {
		return model.Snapshot{}, fmt.Errorf("%w: missing database", common.ErrFormat)
	}
	txnData := bytes.TrimSpace(raw.Database.Transactions)
	if len(txnData) == 0 || txnData[0] != '[' {
		return model.Snapshot{}, fmt.Errorf("%w: database.transactions must be an array", common.ErrFormat)
	}

	var transactions []model.Transaction
	if err := json.Unmarshal(txnData, &transactions); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: transactions: %w", common.ErrFormat, err)
	}
	ids := make(map[int64]int, len(transactions))
	for i, t := range transactions {
		draft := model.Draft{Type: t.Type, Category: t.Category, Amount: t.Amount, Date: t.Date}
		if err := draft.Validate(); err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: transaction at index %d: %w", common.ErrFormat, i, err)
		}
		if first, dup := ids[t.ID]; dup {
			return model.Snapshot{}, fmt.Errorf("%w: transaction at index %d repeats id %d of index %d",
				common.ErrFormat, i, t.ID, first)
		}
		ids[t.ID] = i
	}

	db := model.Database{
		Version:      raw.Database.Version,
		Transactions: transactions,
	}
	if raw.Database.Categories != nil {
		db.Categories = *raw.Database.Categories
	}
	normalize(&db)
	migrate(&db)

	snapshot := model.Snapshot{Database: db}
	settingsData := bytes.TrimSpace(raw.Settings)
	if len(settingsData) > 0 && !bytes.Equal(settingsData, []byte("null")) {
		settings := model.DefaultSettings()
		if err := json.Unmarshal(settingsData, &settings); err != nil {
			return model.Snapshot{}, fmt.Errorf("%w: settings: %w", common.ErrFormat, err)
		}
		defaultInvalidSettings(&settings)
		snapshot.Settings = &settings
	}
	return snapshot, nil
}

// defaultInvalidSettings replaces fields that fail validation with their
// defaults.
func defaultInvalidSettings(settings *model.Settings) {
	defaults := model.DefaultSettings()
	if !settings.BudgetLimit.IsPositive() {
		settings.BudgetLimit = defaults.BudgetLimit
	}
	if strings.TrimSpace(settings.CurrencyCode) == "" {
		settings.CurrencyCode = defaults.CurrencyCode
	}
}
