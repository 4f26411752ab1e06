package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/model"
)

func newBudgetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage spending budgets",
	}
	cmd.AddCommand(
		newBudgetAddCommand(a),
		newBudgetListCommand(a),
		newBudgetMergeCommand(a),
		newBudgetUsageCommand(a),
	)
	return cmd
}

func newBudgetAddCommand(a *app) *cobra.Command {
	var amount, period, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a budget for the current month or year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseAmount(amount)
			if err != nil {
				return err
			}
			cat, err := parseRef[model.CategoryID](category)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				id, err := w.book.CreateBudget(d, model.BudgetPeriod(period), cat)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s budget %d: %s\n", period, id, w.money(d))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "budgeted amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&period, "period", string(model.Monthly), "monthly or yearly")
	cmd.Flags().StringVar(&category, "category", "", "category id; omit for a whole-book budget")

	return cmd
}

func newBudgetListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(w *workspace) error {
				tw := newTable(cmd.OutOrStdout(), "ID", "PERIOD", "START", "CATEGORY", "AMOUNT", "MERGED")
				for _, b := range w.book.Budgets() {
					merged := "-"
					if b.MergedAt != nil {
						merged = formatDate(*b.MergedAt)
					}
					row(tw, strconv.FormatInt(int64(b.ID), 10), string(b.Period), formatDate(b.StartDate),
						formatRef(b.CategoryID), w.money(b.Amount), merged)
				}
				return tw.Flush()
			})
		},
	}
}

func newBudgetMergeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <id>",
		Short: "Fold the active child budgets into a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.BudgetID](args[0])
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				added, err := w.book.MergeBudget(id)
				if err != nil {
					return err
				}
				b, err := w.book.Budget(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Merged %s into budget %d, now %s\n",
					w.money(added), id, w.money(b.Amount))
				return nil
			})
		},
	}
}

func newBudgetUsageCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage <id>",
		Short: "Show how much of a budget is spent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.BudgetID](args[0])
			if err != nil {
				return err
			}
			return a.read(func(w *workspace) error {
				u, err := w.book.BudgetUsage(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Budget %d (%s to %s): spent %s of %s, %s left\n",
					id, formatDate(u.Start), formatDate(u.End.AddDate(0, 0, -1)),
					w.money(u.Spent), w.money(u.Amount), w.money(u.Remaining))
				return nil
			})
		},
	}
}
