package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/model"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long: `List, add and remove the categories offered for new transactions.
Removing a category leaves existing transactions untouched.`,
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(removeCategoryCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			categories := store.Categories(cmd.Context())
			out := cmd.OutOrStdout()
			for _, t := range []model.TransactionType{model.TypeExpense, model.TypeIncome} {
				fmt.Fprintln(out, cli.FormatTitle(cli.TypeLabel(t)))
				list := categories.List(t)
				if len(list) == 0 {
					fmt.Fprintln(out, cli.SubtleStyle.Render("  (none)"))
				}
				for _, name := range list {
					fmt.Fprintf(out, "  %s %s\n", cli.CategoryLabel(name), cli.SubtleStyle.Render("("+name+")"))
				}
			}
			return nil
		},
	}
}

func addCategoryCmd(a *app) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t, err := model.ParseTransactionType(typeName)
			if err != nil {
				return err
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			n := notifier(cmd, store.Settings(ctx))
			added, err := store.AddCategory(ctx, t, args[0])
			if err != nil {
				return err
			}
			if !added {
				if store.Categories(ctx).Contains(t, args[0]) {
					n.Warning("Category exists", fmt.Sprintf("%q is already a %s category", args[0], t.Key()))
					return nil
				}
				return storageError(n, "categories", fmt.Errorf("category %q was not stored", args[0]))
			}
			n.Success("Category added", cli.CategoryLabel(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", string(model.TypeExpense), "category type (expense, income)")
	return cmd
}

func removeCategoryCmd(a *app) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t, err := model.ParseTransactionType(typeName)
			if err != nil {
				return err
			}

			store, cleanup, err := a.openLedger(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			n := notifier(cmd, store.Settings(ctx))
			if !store.RemoveCategory(ctx, t, args[0]) {
				n.Warning("Category not found", fmt.Sprintf("%q is not a %s category", args[0], t.Key()))
				return nil
			}
			n.Success("Category removed", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", string(model.TypeExpense), "category type (expense, income)")
	return cmd
}
