package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/config"
	"github.com/Veraticus/finansowy-tracker/internal/ledger"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/notify"
	"github.com/Veraticus/finansowy-tracker/internal/storage"
)

// inputDateLayout is the layout accepted for dates on the command line.
const inputDateLayout = time.DateOnly

// app carries the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfg     config.Config
	cfgFile string
	now     func() time.Time
	// backend, when set, is used instead of the configured one and is not
	// closed after the command.
	backend storage.Backend
}

func newApp() *app {
	return &app{
		v:   viper.New(),
		now: time.Now,
	}
}

// openBackend opens the configured backend. When it cannot be opened the
// ledger continues in memory for the rest of the invocation.
func (a *app) openBackend(cmd *cobra.Command) (storage.Backend, func()) {
	if a.backend != nil {
		return a.backend, func() {}
	}

	ctx := cmd.Context()
	var (
		backend storage.Backend
		err     error
	)
	switch a.cfg.Storage.Backend {
	case config.BackendFile:
		backend, err = storage.NewFileBackend(a.cfg.Storage.Path)
	case config.BackendMemory:
		backend = storage.NewMemoryBackend()
	default:
		backend, err = storage.NewSQLiteBackend(ctx, a.cfg.Storage.Path)
	}
	if err != nil {
		slog.Warn("storage unavailable, continuing in memory",
			"backend", a.cfg.Storage.Backend,
			"path", a.cfg.Storage.Path,
			"error", err)
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Storage unavailable, changes will not be saved"))
		backend = storage.NewMemoryBackend()
	}
	common.LogDebug("storage opened", common.Fields{
		"backend": a.cfg.Storage.Backend,
		"path":    a.cfg.Storage.Path,
	})

	return backend, func() {
		if err := backend.Close(); err != nil {
			common.LogError(err, "failed to close storage", nil)
		}
	}
}

// openLedger opens and initializes the ledger for a command.
func (a *app) openLedger(cmd *cobra.Command) (*ledger.Store, func(), error) {
	backend, cleanup := a.openBackend(cmd)
	store, err := ledger.Open(cmd.Context(), backend, ledger.WithClock(a.now))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return store, cleanup, nil
}

// notifier returns the console notifier filtered by the user's settings.
func notifier(cmd *cobra.Command, settings model.Settings) notify.Notifier {
	return notify.ForSettings(notify.NewConsole(cmd.OutOrStdout()), settings)
}

func (a *app) dateLayout() string {
	if a.cfg.Display.DateLayout == "" {
		return "02.01.2006"
	}
	return a.cfg.Display.DateLayout
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("invalid transaction id %q", s), common.ErrValidation)
	}
	return id, nil
}

// parseDate accepts YYYY-MM-DD and returns midnight UTC of that day.
func parseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation(inputDateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, common.NewValidationError("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
	}
	return date, nil
}

// today returns midnight UTC of the current day.
func (a *app) today() time.Time {
	now := a.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// storageError reports a failed write to the user and returns err for cobra.
func storageError(n notify.Notifier, what string, err error) error {
	notify.StorageFailed(n, what)
	return fmt.Errorf("failed to save %s: %w", what, err)
}
