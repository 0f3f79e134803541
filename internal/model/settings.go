package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/finansowy-tracker/internal/common"
)

// Settings is the user's preferences record. It is always replaced as a whole.
type Settings struct {
	BudgetLimit               decimal.Decimal `json:"budgetLimit"`
	CurrencyCode              string          `json:"currencyCode"`
	DarkTheme                 bool            `json:"darkTheme"`
	NotificationsEnabled      bool            `json:"notificationsEnabled"`
	LimitNotificationsEnabled bool            `json:"limitNotificationsEnabled"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	return Settings{
		BudgetLimit:               decimal.NewFromInt(3000),
		CurrencyCode:              "PLN",
		DarkTheme:                 false,
		NotificationsEnabled:      true,
		LimitNotificationsEnabled: true,
	}
}

// Validate checks the settings field constraints.
func (s Settings) Validate() error {
	if !s.BudgetLimit.IsPositive() {
		return common.NewValidationError("budgetLimit", "must be greater than 0")
	}
	if strings.TrimSpace(s.CurrencyCode) == "" {
		return common.NewValidationError("currencyCode", "cannot be empty")
	}
	return nil
}
