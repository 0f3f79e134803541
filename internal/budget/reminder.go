package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

// RemindersKey is the backend key holding the thresholds already signalled.
const RemindersKey = "budget-reminders"

// DefaultThresholds are the spending percentages that trigger a reminder.
var DefaultThresholds = []int{50, 75, 90, 100}

// Alert is a reminder that should be shown to the user.
type Alert struct {
	Status    Status
	Threshold int
}

// Reminder signals each threshold at most once per calendar day. Shown
// thresholds are kept in the backend so the rule holds across runs.
type Reminder struct {
	backend    storage.Backend
	logger     *slog.Logger
	thresholds []int
}

// NewReminder creates a reminder that records its state in backend. Empty
// thresholds select DefaultThresholds.
func NewReminder(backend storage.Backend, thresholds []int, logger *slog.Logger) *Reminder {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	sorted := slices.Clone(thresholds)
	slices.Sort(sorted)
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminder{
		backend:    backend,
		thresholds: slices.Compact(sorted),
		logger:     logger,
	}
}

// Check evaluates the month's spending against the settings' limit and
// returns an alert when a threshold was crossed that has not been signalled
// today. Thresholds below the info level are recorded but not alerted.
// Nothing happens when limit notifications are disabled.
func (r *Reminder) Check(ctx context.Context, spent decimal.Decimal, settings model.Settings, now time.Time) (*Alert, error) {
	if !settings.LimitNotificationsEnabled {
		return nil, nil
	}

	status := Evaluate(spent, settings.BudgetLimit)
	today := now.Format(time.DateOnly)

	shown, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var crossed []int
	for _, threshold := range r.thresholds {
		if status.Percent.LessThan(decimal.NewFromInt(int64(threshold))) {
			continue
		}
		key := reminderKey(today, threshold)
		if shown[key] {
			continue
		}
		shown[key] = true
		crossed = append(crossed, threshold)
	}
	if len(crossed) == 0 {
		return nil, nil
	}

	pruneOtherDays(shown, today)
	if err := r.save(ctx, shown); err != nil {
		return nil, err
	}

	r.logger.Debug("budget thresholds crossed", "thresholds", crossed, "percent", status.Percent.String())
	if status.Level == LevelOK {
		return nil, nil
	}
	return &Alert{Status: status, Threshold: crossed[len(crossed)-1]}, nil
}

func (r *Reminder) load(ctx context.Context) (map[string]bool, error) {
	raw, ok, err := r.backend.Get(ctx, RemindersKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read reminders: %w", common.ErrStorage, err)
	}
	shown := make(map[string]bool)
	if !ok {
		return shown, nil
	}
	if err := json.Unmarshal([]byte(raw), &shown); err != nil {
		r.logger.Warn("discarding unreadable reminder state", "error", err)
		return make(map[string]bool), nil
	}
	if shown == nil {
		// A stored JSON null decodes to a nil map.
		shown = make(map[string]bool)
	}
	return shown, nil
}

func (r *Reminder) save(ctx context.Context, shown map[string]bool) error {
	data, err := json.Marshal(shown)
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}
	if err := r.backend.Set(ctx, RemindersKey, string(data)); err != nil {
		return fmt.Errorf("%w: failed to save reminders: %w", common.ErrStorage, err)
	}
	return nil
}

func reminderKey(day string, threshold int) string {
	return day + "-" + strconv.Itoa(threshold)
}

// pruneOtherDays drops entries recorded on days other than today.
func pruneOtherDays(shown map[string]bool, today string) {
	for key := range shown {
		if !strings.HasPrefix(key, today+"-") {
			delete(shown, key)
		}
	}
}
