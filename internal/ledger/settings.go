package ledger

import (
	"context"
	"encoding/json"

	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// Settings returns the persisted settings, or the defaults when nothing
// readable is stored. Fields missing from the stored record take their
// default values.
func (s *Store) Settings(ctx context.Context) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked(ctx)
}

func (s *Store) settingsLocked(ctx context.Context) model.Settings {
	raw, ok, err := s.backend.Get(ctx, SettingsKey)
	if err != nil {
		s.logger.Error("failed to read settings, using defaults", "error", err)
		return model.DefaultSettings()
	}
	if !ok {
		return model.DefaultSettings()
	}

	settings := model.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.Error("failed to parse settings, using defaults", "error", err)
		return model.DefaultSettings()
	}
	return settings
}

// SaveSettings replaces the persisted settings as a whole. Invalid settings
// are rejected with a validation error; a failed write reports false.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) (bool, error) {
	if err := settings.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSettingsLocked(ctx, settings), nil
}

func (s *Store) saveSettingsLocked(ctx context.Context, settings model.Settings) bool {
	if err := s.writeJSON(ctx, SettingsKey, settings); err != nil {
		s.logger.Error("failed to save settings", "error", err)
		return false
	}
	s.logger.Info("settings saved")
	return true
}

// UpdateSettings reads the current settings, lets fn change them and saves
// the result in one step.
func (s *Store) UpdateSettings(ctx context.Context, fn func(*model.Settings)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settingsLocked(ctx)
	fn(&settings)
	if err := settings.Validate(); err != nil {
		return false, err
	}
	return s.saveSettingsLocked(ctx, settings), nil
}
