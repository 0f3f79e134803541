package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/budget"
	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/ofx"
	"github.com/Veraticus/finansowy-tracker/internal/tui"
)

func infoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show storage details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			info := store.Info(cmd.Context())
			path := a.cfg.Storage.Path
			if path == "" {
				path = "(in memory)"
			}
			content := fmt.Sprintf("Backend:      %s\nPath:         %s\nVersion:      %s\nTransactions: %d\nSize:         %s",
				a.cfg.Storage.Backend, path, info.Version, info.TransactionCount, formatSize(info.SizeBytes))
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Storage", content))
			return nil
		},
	}
}

func formatSize(bytes int) string {
	const kib = 1024
	switch {
	case bytes >= kib*kib:
		return fmt.Sprintf("%.2f MiB", float64(bytes)/(kib*kib))
	case bytes >= kib:
		return fmt.Sprintf("%.2f KiB", float64(bytes)/kib)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func resetCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all data and restore defaults",
		Long: `Reset removes every transaction, restores the default categories and
settings. This cannot be undone; export a backup first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if !force {
				ok, err := confirm(cmd, "This erases all transactions, categories and settings. Continue?")
				if err != nil || !ok {
					return err
				}
			}

			n := notifier(cmd, store.Settings(ctx))
			if !store.Reset(ctx) {
				return storageError(n, "defaults", common.ErrStorage)
			}
			for _, key := range []string{budget.RemindersKey, ofx.HistoryKey} {
				if err := store.Backend().Remove(ctx, key); err != nil {
					slog.Warn("failed to clear derived state", "key", key, "error", err)
				}
			}
			n.Success("Data reset", "All data was erased and defaults restored")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive monthly dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(), tui.Config{
				Ledger:     store,
				Now:        a.now,
				DateLayout: a.dateLayout(),
			})
		},
	}
}
