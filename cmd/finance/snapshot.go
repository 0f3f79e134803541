package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/config"
	"github.com/Veraticus/finansowy-tracker/internal/notify"
)

// stdioPath selects standard input or output instead of a file.
const stdioPath = "-"

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON backup of all data",
		Long: `Write transactions, categories and settings to a JSON backup file.
Without a file name the backup is written to finansowy-tracker-backup-YYYY-MM-DD.json
in the current directory; "-" writes to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := fmt.Sprintf("finansowy-tracker-backup-%s.json", a.today().Format(inputDateLayout))
			if len(args) == 1 {
				path = args[0]
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := store.ExportSnapshot(ctx)
			if err != nil {
				return err
			}

			if path == stdioPath {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), data)
				return err
			}

			path = config.ExpandPath(path)
			if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			notify.Exported(notifier(cmd, store.Settings(ctx)), path)
			return nil
		},
	}
}

func importCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a JSON backup",
		Long: `Replace transactions and categories, and settings when the backup has them,
with the contents of a backup written by "finance export". "-" reads standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if !force && args[0] != stdioPath {
				ok, err := confirm(cmd, "This replaces all current data. Continue?")
				if err != nil || !ok {
					return err
				}
			}

			n := notifier(cmd, store.Settings(ctx))
			err = store.ImportSnapshot(ctx, string(data))
			switch {
			case errors.Is(err, common.ErrFormat):
				n.Error("Import failed", "The file is not a valid backup")
				return common.NewUserError("invalid backup file", err)
			case errors.Is(err, common.ErrStorage):
				return storageError(n, "imported data", err)
			case err != nil:
				return err
			}

			// Settings may have changed with the import.
			notify.Imported(notifier(cmd, store.Settings(ctx)), store.Info(ctx).TransactionCount)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdioPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
