package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/ledger"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/notify"
	"github.com/Veraticus/finansowy-tracker/internal/ofx"
)

func importOFXCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import statement lines from OFX or QFX files exported from your bank.
Credits become income and debits become expenses; the payee is kept as the note.
Lines repeated across files, or imported by an earlier run, are added once.

Examples:
  # Import a single statement
  finance import-ofx ~/Downloads/mbank_2024_06.ofx

  # Preview all statements in a directory
  finance import-ofx --dry-run ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Transactions imported so far were kept.")
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			entries := parseStatements(cmd, files)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No transactions found in any file"))
				return nil
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			history, err := ofx.LoadHistory(ctx, store.Backend(), slog.Default())
			if err != nil {
				return err
			}
			entries, repeated := newEntries(entries, history)
			if repeated > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("%d lines were imported before and are skipped", repeated)))
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No new transactions to import"))
				return nil
			}

			settings := store.Settings(ctx)
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(fmt.Sprintf("🔍 %d transactions would be imported", len(entries))))
				writeEntries(cmd, entries, settings.CurrencyCode, a.dateLayout())
				return nil
			}

			bar := progressbar.NewOptions(len(entries),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)

			n := notifier(cmd, settings)
			added, skipped := 0, 0
			for _, entry := range entries {
				if ctx.Err() != nil {
					break
				}

				if err := ensureCategory(ctx, store, entry.Draft); err != nil {
					return err
				}
				_, err := store.AddTransaction(ctx, entry.Draft)
				switch {
				case errors.Is(err, common.ErrStorage):
					notify.Imported(n, added)
					saveHistory(ctx, history)
					return storageError(n, "imported transactions", err)
				case err != nil:
					slog.Warn("Skipping statement line", "fitid", entry.FitID, "error", err)
					skipped++
				default:
					history.Mark(entry)
					added++
				}

				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}

			saveHistory(ctx, history)
			if handler.WasInterrupted() {
				common.LogInfo("Import interrupted", common.Fields{"added": added})
			}
			notify.Imported(n, added)
			if skipped > 0 {
				n.Warning("Some lines skipped", fmt.Sprintf("%d statement lines could not be imported", skipped))
			}
			a.checkBudget(cmd, store, settings, n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Preview import without saving")
	return cmd
}

// expandFiles resolves glob patterns; plain paths that exist are kept as is.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		pattern = filepath.Clean(pattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNotFound)
	}
	return files, nil
}

// parseStatements parses every file and drops lines already seen under the
// same account and FITID. Unreadable files are reported and skipped.
func parseStatements(cmd *cobra.Command, files []string) []ofx.Entry {
	parser := ofx.NewParser(slog.Default())
	seen := make(map[string]bool)

	var entries []ofx.Entry
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			common.LogError(err, "Failed to open file", common.Fields{"file": path})
			continue
		}
		parsed, err := parser.ParseFile(cmd.Context(), f)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "Failed to parse OFX file", common.Fields{"file": path})
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(fmt.Sprintf("%s: not a readable OFX statement", filepath.Base(path))))
			continue
		}

		added := 0
		for _, entry := range parsed {
			if key := entry.Key(); key != "" {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			entries = append(entries, entry)
			added++
		}
		common.LogInfo("Processed file", common.Fields{
			"file":               filepath.Base(path),
			"transactions_found": len(parsed),
			"added":              added,
			"duplicates":         len(parsed) - added,
		})
	}
	return entries
}

// newEntries drops lines recorded in history by an earlier import and
// returns how many were dropped.
func newEntries(entries []ofx.Entry, history *ofx.History) ([]ofx.Entry, int) {
	fresh := make([]ofx.Entry, 0, len(entries))
	for _, entry := range entries {
		if !history.Seen(entry) {
			fresh = append(fresh, entry)
		}
	}
	return fresh, len(entries) - len(fresh)
}

// saveHistory persists the import history, also after an interrupt. Lines
// already added stay in the ledger even when this fails.
func saveHistory(ctx context.Context, history *ofx.History) {
	if err := history.Save(context.WithoutCancel(ctx)); err != nil {
		common.LogError(err, "failed to save import history", nil)
	}
}

// ensureCategory registers the draft's category when the user removed it,
// so imported lines are never rejected for their default category.
func ensureCategory(ctx context.Context, store *ledger.Store, d model.Draft) error {
	if store.Categories(ctx).Contains(d.Type, d.Category) {
		return nil
	}
	if _, err := store.AddCategory(ctx, d.Type, d.Category); err != nil {
		return fmt.Errorf("failed to restore category %q: %w", d.Category, err)
	}
	return nil
}

func writeEntries(cmd *cobra.Command, entries []ofx.Entry, currency, layout string) {
	preview := make([]model.Transaction, 0, len(entries))
	for _, e := range entries {
		preview = append(preview, model.Transaction{
			Type:     e.Draft.Type,
			Category: e.Draft.Category,
			Amount:   e.Draft.Amount,
			Date:     e.Draft.Date,
			Note:     e.Draft.Note,
		})
	}
	writeTransactions(cmd.OutOrStdout(), preview, currency, layout)
}
