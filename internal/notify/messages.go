package notify

import (
	"fmt"

	"github.com/Veraticus/finansowy-tracker/internal/budget"
	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// TransactionAdded confirms a new transaction.
func TransactionAdded(n Notifier, t model.Transaction, currency string) {
	n.Success("Transaction added", fmt.Sprintf("%s %s: %s",
		cli.CategoryIcon(t.Category), cli.TypeLabel(t.Type), cli.FormatAmount(t.Amount, currency)))
}

// TransactionUpdated confirms an edited transaction.
func TransactionUpdated(n Notifier, t model.Transaction) {
	n.Success("Transaction updated", fmt.Sprintf("Transaction %d was saved", t.ID))
}

// TransactionDeleted confirms a removal.
func TransactionDeleted(n Notifier) {
	n.Success("Transaction deleted", "The transaction was removed from the history")
}

// Imported confirms a snapshot or statement import.
func Imported(n Notifier, count int) {
	n.Success("Data imported", fmt.Sprintf("Imported %d transactions", count))
}

// Exported confirms a written export file.
func Exported(n Notifier, path string) {
	n.Success("Data exported", fmt.Sprintf("Saved to %s", path))
}

// SettingsSaved confirms updated preferences.
func SettingsSaved(n Notifier) {
	n.Success("Settings saved", "Your preferences were updated")
}

// StorageFailed reports a write that did not persist.
func StorageFailed(n Notifier, what string) {
	n.Error("Save failed", fmt.Sprintf("Could not save %s; local storage may be full or unavailable", what))
}

// BudgetStatus signals a crossed budget threshold with the severity of its level.
func BudgetStatus(n Notifier, alert budget.Alert, currency string) {
	s := alert.Status
	spent := cli.FormatAmount(s.Spent, currency)
	limit := cli.FormatAmount(s.Limit, currency)

	switch s.Level {
	case budget.LevelExceeded:
		n.Warning("Budget limit exceeded", fmt.Sprintf("You have spent %s of your %s limit", spent, limit))
	case budget.LevelWarning:
		n.Warning("Budget almost used", fmt.Sprintf("You have spent %s%% of your limit (%s of %s)",
			s.Percent.StringFixed(0), spent, limit))
	case budget.LevelInfo:
		n.Info("Budget overview", fmt.Sprintf("You have spent %s%% of your budget (%s)",
			s.Percent.StringFixed(0), spent))
	}
}
