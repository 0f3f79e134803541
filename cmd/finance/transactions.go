package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/notify"
	"github.com/Veraticus/finansowy-tracker/internal/ofx"
)

func addCmd(a *app) *cobra.Command {
	var (
		typeName string
		category string
		amount   string
		date     string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Long: `Record a new transaction. Missing amount or category are asked for interactively.

Examples:
  finance add --amount 42.50 --category jedzenie --note "Obiad"
  finance add --type income --amount 5000 --category wyplata --date 2024-06-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			txType, err := model.ParseTransactionType(typeName)
			if err != nil {
				return err
			}

			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if amount == "" {
				if amount, err = prompter.Ask(ctx, "Amount", ""); err != nil {
					return fmt.Errorf("failed to read amount: %w", err)
				}
			}
			if category == "" {
				list := store.Categories(ctx).List(txType)
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("Categories: "+strings.Join(list, ", ")))
				if category, err = prompter.Ask(ctx, "Category", ""); err != nil {
					return fmt.Errorf("failed to read category: %w", err)
				}
			}

			draft := model.Draft{Type: txType, Category: category, Note: note, Date: a.today()}
			if draft.Amount, err = model.ParseAmount(amount); err != nil {
				return err
			}
			if date != "" {
				if draft.Date, err = parseDate(date); err != nil {
					return err
				}
			}

			settings := store.Settings(ctx)
			n := notifier(cmd, settings)

			txn, err := store.AddTransaction(ctx, draft)
			if errors.Is(err, common.ErrStorage) {
				return storageError(n, "transaction", err)
			}
			if err != nil {
				return err
			}

			notify.TransactionAdded(n, txn, settings.CurrencyCode)
			fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render(fmt.Sprintf("id %d", txn.ID)))

			if txn.Type == model.TypeExpense {
				a.checkBudget(cmd, store, settings, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", string(model.TypeExpense), "transaction type (expense, income)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 42.50")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	return cmd
}

// filterFlags holds the list filter flags shared by several commands.
type filterFlags struct {
	typeName string
	category string
	from     string
	to       string
	month    int
	year     int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typeName, "type", "", "only this type (expense, income)")
	cmd.Flags().StringVar(&f.category, "category", "", "only this category")
	cmd.Flags().StringVar(&f.from, "from", "", "from date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.to, "to", "", "to date YYYY-MM-DD (inclusive)")
	cmd.Flags().IntVar(&f.month, "month", 0, "calendar month 1-12")
	cmd.Flags().IntVar(&f.year, "year", 0, "calendar year (default: current year when --month is set)")
}

func (f *filterFlags) build(a *app) (model.Filter, error) {
	var filter model.Filter
	if f.typeName != "" {
		t, err := model.ParseTransactionType(f.typeName)
		if err != nil {
			return filter, err
		}
		filter.Type = t
	}
	filter.Category = strings.TrimSpace(f.category)

	if f.from != "" {
		from, err := parseDate(f.from)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if f.to != "" {
		to, err := parseDate(f.to)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}

	if f.month != 0 {
		if f.month < 1 || f.month > 12 {
			return filter, common.NewValidationError("month", fmt.Sprintf("%d is not between 1 and 12", f.month))
		}
		filter.Month = time.Month(f.month)
		filter.Year = f.year
		if filter.Year == 0 {
			filter.Year = a.now().UTC().Year()
		}
	}
	return filter, nil
}

func listCmd(a *app) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter, err := flags.build(a)
			if err != nil {
				return err
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			transactions := store.ListTransactions(ctx, filter)
			if len(transactions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions found. Use 'finance add' to record one."))
				return nil
			}

			currency := store.Settings(ctx).CurrencyCode
			writeTransactions(cmd.OutOrStdout(), transactions, currency, a.dateLayout())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func writeTransactions(out io.Writer, transactions []model.Transaction, currency, layout string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tNOTE")
	for _, t := range transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.Date.UTC().Format(layout),
			cli.TypeLabel(t.Type),
			cli.CategoryLabel(t.Category),
			cli.FormatSigned(t.Amount, currency, t.Type == model.TypeIncome),
			t.Note)
	}
	_ = w.Flush()
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			txn, ok := store.TransactionByID(ctx, id)
			if !ok {
				return common.NewUserError(fmt.Sprintf("transaction %d does not exist", id), common.ErrNotFound)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTransaction(txn, store.Settings(ctx).CurrencyCode, a.dateLayout()))
			return nil
		},
	}
}

func renderTransaction(t model.Transaction, currency, layout string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type:     %s\n", cli.TypeLabel(t.Type))
	fmt.Fprintf(&b, "Category: %s\n", cli.CategoryLabel(t.Category))
	fmt.Fprintf(&b, "Amount:   %s\n", cli.FormatSigned(t.Amount, currency, t.Type == model.TypeIncome))
	fmt.Fprintf(&b, "Date:     %s\n", t.Date.UTC().Format(layout))
	if t.Note != "" {
		fmt.Fprintf(&b, "Note:     %s\n", t.Note)
	}
	fmt.Fprintf(&b, "Created:  %s", t.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	if t.ModifiedAt != nil {
		fmt.Fprintf(&b, "\nModified: %s", t.ModifiedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	return cli.RenderBox(fmt.Sprintf("Transaction %d", t.ID), b.String())
}

func editCmd(a *app) *cobra.Command {
	var (
		typeName string
		category string
		amount   string
		date     string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long: `Change one or more fields of an existing transaction. Only the given flags are changed.

Example:
  finance edit 1718875800000 --amount 45 --note "Obiad z deserem"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch model.Patch
			flags := cmd.Flags()
			if flags.Changed("type") {
				t, err := model.ParseTransactionType(typeName)
				if err != nil {
					return err
				}
				patch.Type = &t
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("amount") {
				value, err := model.ParseAmount(amount)
				if err != nil {
					return err
				}
				patch.Amount = &value
			}
			if flags.Changed("date") {
				value, err := parseDate(date)
				if err != nil {
					return err
				}
				patch.Date = &value
			}
			if flags.Changed("note") {
				patch.Note = &note
			}
			if patch.Empty() {
				return common.NewUserError("nothing to change; pass at least one field flag", common.ErrValidation)
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			settings := store.Settings(ctx)
			n := notifier(cmd, settings)

			txn, err := store.UpdateTransaction(ctx, id, patch)
			switch {
			case errors.Is(err, common.ErrNotFound):
				return common.NewUserError(fmt.Sprintf("transaction %d does not exist", id), err)
			case errors.Is(err, common.ErrStorage):
				return storageError(n, "transaction", err)
			case err != nil:
				return err
			}

			notify.TransactionUpdated(n, txn)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "new type (expense, income)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&note, "note", "n", "", "new note")
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, ok := store.TransactionByID(ctx, id); !ok {
				return common.NewUserError(fmt.Sprintf("transaction %d does not exist", id), common.ErrNotFound)
			}

			if !force {
				ok, err := confirm(cmd, "Delete this transaction?")
				if err != nil || !ok {
					return err
				}
			}

			n := notifier(cmd, store.Settings(ctx))
			if !store.DeleteTransaction(ctx, id) {
				return storageError(n, "transaction history", common.ErrStorage)
			}
			notify.TransactionDeleted(n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func clearCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction, keeping categories and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			count := store.Info(ctx).TransactionCount
			if count == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found. Nothing to clear.")
				return nil
			}

			if !force {
				ok, err := confirm(cmd, fmt.Sprintf("This will delete %d transactions. Continue?", count))
				if err != nil || !ok {
					return err
				}
			}

			n := notifier(cmd, store.Settings(ctx))
			if !store.DeleteAllTransactions(ctx) {
				return storageError(n, "transaction history", common.ErrStorage)
			}
			// Cleared statement lines may be imported again.
			if err := store.Backend().Remove(ctx, ofx.HistoryKey); err != nil {
				slog.Warn("failed to clear import history", "error", err)
			}
			n.Success("History cleared", fmt.Sprintf("Deleted %d transactions", count))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	ok, err := prompter.Confirm(cmd.Context(), question)
	if err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
	}
	return ok, nil
}
