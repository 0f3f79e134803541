package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/budget"
	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/ledger"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/notify"
	"github.com/Veraticus/finansowy-tracker/internal/stats"
)

const budgetBarWidth = 30

func budgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Show this month's spending against the budget limit",
		Long: `Show this month's expenses against the monthly budget limit and signal
thresholds crossed for the first time today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			settings := store.Settings(ctx)
			spent := stats.New(store).CurrentMonth(ctx, a.now()).Expense

			writeBudget(cmd.OutOrStdout(), budget.Evaluate(spent, settings.BudgetLimit), settings.CurrencyCode)
			if !settings.LimitNotificationsEnabled {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("Budget reminders are disabled."))
				return nil
			}
			a.checkBudget(cmd, store, settings, notifier(cmd, settings))
			return nil
		},
	}
}

func writeBudget(out io.Writer, s budget.Status, currency string) {
	filled := int(s.Fraction() * budgetBarWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", budgetBarWidth-filled)

	style := cli.SuccessStyle
	switch s.Level {
	case budget.LevelExceeded:
		style = cli.ErrorStyle
	case budget.LevelWarning:
		style = cli.WarningStyle
	case budget.LevelInfo:
		style = cli.InfoStyle
	}

	fmt.Fprintf(out, "Budget   %s %s%%\n", style.Render(bar), s.Percent.StringFixed(0))
	fmt.Fprintf(out, "Spent    %s of %s\n", cli.FormatAmount(s.Spent, currency), cli.FormatAmount(s.Limit, currency))
	if s.Remaining.IsNegative() {
		fmt.Fprintf(out, "Over by  %s\n", cli.ExpenseStyle.Render(cli.FormatAmount(s.Remaining.Neg(), currency)))
	} else {
		fmt.Fprintf(out, "Left     %s\n", cli.IncomeStyle.Render(cli.FormatAmount(s.Remaining, currency)))
	}
}

// checkBudget signals budget thresholds the current month crossed for the
// first time today. Failures are logged; they never fail the command.
func (a *app) checkBudget(cmd *cobra.Command, store *ledger.Store, settings model.Settings, n notify.Notifier) {
	ctx := cmd.Context()
	spent := stats.New(store).CurrentMonth(ctx, a.now()).Expense

	reminder := budget.NewReminder(store.Backend(), a.cfg.Budget.Thresholds, slog.Default())
	alert, err := reminder.Check(ctx, spent, settings, a.now())
	if err != nil {
		slog.Warn("failed to record budget reminder", "error", err)
	}
	if alert != nil {
		notify.BudgetStatus(n, *alert, settings.CurrencyCode)
	}
}
