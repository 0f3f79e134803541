package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/budget"
	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/stats"
)

func summaryCmd(a *app) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and balance totals",
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

			summary := stats.New(store).Summary(ctx, filter)
			writeSummary(cmd.OutOrStdout(), "Summary", summary, store.Settings(ctx).CurrencyCode)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func writeSummary(out io.Writer, title string, s stats.Summary, currency string) {
	balance := cli.IncomeStyle.Render(cli.FormatAmount(s.Balance, currency))
	if s.Balance.IsNegative() {
		balance = cli.ExpenseStyle.Render(cli.FormatAmount(s.Balance, currency))
	}
	content := fmt.Sprintf("%s Income:  %s\n%s Expense: %s\n  Balance: %s",
		cli.IncomeIcon, cli.IncomeStyle.Render(cli.FormatAmount(s.Income, currency)),
		cli.ExpenseIcon, cli.ExpenseStyle.Render(cli.FormatAmount(s.Expense, currency)),
		balance)
	fmt.Fprintln(out, cli.RenderBox(title, content))
}

func statsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Break transactions down by category or day",
	}
	cmd.AddCommand(statsCategoriesCmd(a), statsDailyCmd(a))
	return cmd
}

func statsCategoriesCmd(a *app) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Totals per category with their share",
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

			groups := stats.New(store).ByCategory(ctx, filter)
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			currency := store.Settings(ctx).CurrencyCode
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(cli.ChartIcon+" By category"))
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tTYPE\tCOUNT\tAMOUNT\tSHARE")
			for _, s := range stats.Shares(groups) {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s%%\n",
					cli.CategoryLabel(s.Category),
					cli.TypeLabel(s.Type),
					s.Count,
					cli.FormatAmount(s.Amount, currency),
					s.Percent.StringFixed(2))
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}

func statsDailyCmd(a *app) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Income and expense per day",
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

			days := stats.New(store, stats.WithDayLayout(a.dateLayout())).ByDay(ctx, filter)
			if len(days) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			currency := store.Settings(ctx).CurrencyCode
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tINCOME\tEXPENSE")
			for _, d := range days {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					d.Date,
					cli.FormatAmount(d.Income, currency),
					cli.FormatAmount(d.Expense, currency))
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}

func monthCmd(a *app) *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Overview of one calendar month against the budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := a.now().UTC()
			m, y := now.Month(), now.Year()
			if month != 0 {
				if month < 1 || month > 12 {
					return common.NewValidationError("month", fmt.Sprintf("%d is not between 1 and 12", month))
				}
				m = time.Month(month)
			}
			if year != 0 {
				y = year
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			settings := store.Settings(ctx)
			overview := stats.New(store).MonthlyOverview(ctx, m, y)

			out := cmd.OutOrStdout()
			writeSummary(out, fmt.Sprintf("%s %s %d", cli.MoneyIcon, m, y), overview, settings.CurrencyCode)
			writeBudget(out, budget.Evaluate(overview.Expense, settings.BudgetLimit), settings.CurrencyCode)
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "calendar month 1-12 (default: current)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default: current)")
	return cmd
}
