package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/common"
	"github.com/Veraticus/finansowy-tracker/internal/model"
	"github.com/Veraticus/finansowy-tracker/internal/notify"
)

// settingKeys maps the names accepted by "settings set" onto setters.
var settingKeys = map[string]func(*model.Settings, string) error{
	"budget-limit": func(s *model.Settings, v string) error {
		limit, err := model.ParseAmount(v)
		if err != nil {
			return common.NewValidationError("budgetLimit", "must be a number greater than 0")
		}
		s.BudgetLimit = limit
		return nil
	},
	"currency": func(s *model.Settings, v string) error {
		s.CurrencyCode = strings.ToUpper(strings.TrimSpace(v))
		return nil
	},
	"dark-theme": boolSetting(func(s *model.Settings, b bool) { s.DarkTheme = b }),
	"notifications": boolSetting(func(s *model.Settings, b bool) {
		s.NotificationsEnabled = b
	}),
	"limit-notifications": boolSetting(func(s *model.Settings, b bool) {
		s.LimitNotificationsEnabled = b
	}),
}

func boolSetting(set func(*model.Settings, bool)) func(*model.Settings, string) error {
	return func(s *model.Settings, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return common.NewValidationError("value", fmt.Sprintf("%q is not true or false", v))
		}
		set(s, b)
		return nil
	}
}

func settingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(showSettingsCmd(a), setSettingCmd(a))
	return cmd
}

func showSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			s := store.Settings(cmd.Context())
			content := fmt.Sprintf(
				"budget-limit:        %s\ncurrency:            %s\ndark-theme:          %t\nnotifications:       %t\nlimit-notifications: %t",
				cli.FormatAmount(s.BudgetLimit, s.CurrencyCode),
				s.CurrencyCode,
				s.DarkTheme,
				s.NotificationsEnabled,
				s.LimitNotificationsEnabled)
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Settings", content))
			return nil
		},
	}
}

func setSettingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting. Keys:
  budget-limit         monthly expense limit, e.g. 3500
  currency             currency code shown next to amounts, e.g. EUR
  dark-theme           true or false
  notifications        true or false
  limit-notifications  true or false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			set, ok := settingKeys[strings.ToLower(args[0])]
			if !ok {
				return common.NewUserError(fmt.Sprintf("unknown setting %q", args[0]), common.ErrValidation)
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var setErr error
			saved, err := store.UpdateSettings(ctx, func(s *model.Settings) {
				setErr = set(s, args[1])
			})
			if setErr != nil {
				return setErr
			}
			if err != nil {
				return err
			}

			// The new settings decide whether success is shown.
			n := notifier(cmd, store.Settings(ctx))
			if !saved {
				return storageError(n, "settings", errors.New("settings were not stored"))
			}
			notify.SettingsSaved(n)
			return nil
		},
	}
}
