package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/model"
)

func newLedgerCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage ledgers",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a ledger",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.mutate(func(w *workspace) error {
					id, err := w.book.CreateLedger(args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Created ledger %d (%s)\n", id, args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List ledgers and their categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.read(func(w *workspace) error {
					tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "KIND", "PARENT")
					for _, l := range w.book.Ledgers() {
						row(tw, strconv.FormatInt(int64(l.ID), 10), l.Name, "ledger", "-")
						for _, c := range w.book.Categories(l.ID) {
							name := "  " + c.Name
							if !c.TopLevel() {
								name = "    " + c.Name
							}
							row(tw, strconv.FormatInt(int64(c.ID), 10), name, string(c.Kind), formatRef(c.ParentID))
						}
					}
					return tw.Flush()
				})
			},
		},
	)
	return cmd
}

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var kind, parent string
	add := &cobra.Command{
		Use:   "add <ledger> <name>",
		Short: "Create an income or expense category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := parseID[model.LedgerID](args[0])
			if err != nil {
				return err
			}
			parentID, err := parseRef[model.CategoryID](parent)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				id, err := w.book.CreateCategory(ledger, args[1], model.CategoryKind(kind), parentID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created category %d (%s)\n", id, args[1])
				return nil
			})
		},
	}
	add.Flags().StringVar(&kind, "kind", string(model.CategoryExpense), "income or expense")
	add.Flags().StringVar(&parent, "parent", "", "top-level category to nest under")

	cmd.AddCommand(add)
	return cmd
}
