package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/accounts"
	"github.com/cleared-dev/pocketbook/internal/model"
)

func newAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(
		newAccountAddCommand(a),
		newAccountListCommand(a),
		newAccountShowCommand(a),
		newAccountToggleCommand(a, "hide", "Hide an account from listings", func(w *workspace, id model.AccountID) error {
			return w.book.Hide(id)
		}),
		newAccountToggleCommand(a, "unhide", "Show a hidden account again", func(w *workspace, id model.AccountID) error {
			return w.book.Unhide(id)
		}),
		newAccountIncludeCommand(a),
		newAccountSetBalanceCommand(a),
		newAccountImportCommand(a),
	)
	return cmd
}

type accountFlagValues struct {
	kind         string
	balance      string
	limit        string
	debt         string
	counterparty string
	category     string
	note         string
	excluded     bool
}

func (f accountFlagValues) build(name string) (*model.Account, error) {
	balance, err := parseAmount(f.balance)
	if err != nil {
		return nil, err
	}

	var acct *model.Account
	switch model.AccountKind(f.kind) {
	case model.KindBasic:
		acct = accounts.Basic(name, balance)
	case model.KindCredit:
		limit, err := parseAmount(f.limit)
		if err != nil {
			return nil, err
		}
		debt, err := parseAmount(f.debt)
		if err != nil {
			return nil, err
		}
		acct = accounts.CreditCard(name, balance, limit, debt)
	case model.KindBorrowing:
		acct = accounts.Borrowing(name, f.counterparty, balance)
	case model.KindLending:
		acct = accounts.Lending(name, f.counterparty, balance)
	case model.KindLoan:
		return nil, fmt.Errorf("use 'loan add' to create loan accounts")
	default:
		return nil, fmt.Errorf("unknown account kind %q", f.kind)
	}

	if f.category != "" {
		acct.Category = model.AccountCategory(f.category)
	}
	acct.Note = f.note
	acct.IncludedInNetAssets = !f.excluded
	return acct, nil
}

func newAccountAddCommand(a *app) *cobra.Command {
	var f accountFlagValues

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a basic, credit, borrowing or lending account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := f.build(args[0])
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				id, err := w.book.CreateAccount(*acct)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %d (%s)\n", acct.Kind, id, acct.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.kind, "kind", string(model.KindBasic), "basic, credit, borrowing or lending")
	cmd.Flags().StringVar(&f.balance, "balance", "0", "opening balance (owed or lent amount for debts)")
	cmd.Flags().StringVar(&f.limit, "limit", "0", "credit limit")
	cmd.Flags().StringVar(&f.debt, "debt", "0", "opening credit debt")
	cmd.Flags().StringVar(&f.counterparty, "counterparty", "", "who the debt is with")
	cmd.Flags().StringVar(&f.category, "category", "", "display category")
	cmd.Flags().StringVar(&f.note, "note", "", "free-form note")
	cmd.Flags().BoolVar(&f.excluded, "exclude", false, "leave out of net assets")

	return cmd
}

func newAccountListCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(w *workspace) error {
				tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "KIND", "CATEGORY", "BALANCE", "OWED", "FLAGS")
				for _, acct := range w.book.Accounts() {
					if acct.Hidden && !all {
						continue
					}
					row(tw, strconv.FormatInt(int64(acct.ID), 10), acct.Name, string(acct.Kind),
						string(acct.Category), w.money(acct.Balance), owed(w, acct), accountFlags(acct))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include hidden accounts")

	return cmd
}

// owed is the credit debt or loan remainder of acct, or "-".
func owed(w *workspace, acct *model.Account) string {
	switch {
	case acct.Credit != nil:
		return w.money(acct.Credit.CurrentDebt)
	case acct.Loan != nil:
		return w.money(acct.Loan.RemainingAmount)
	}
	return "-"
}

func newAccountShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an account with its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			return a.read(func(w *workspace) error {
				acct, err := w.book.Account(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s, %s)\n", acct.Name, acct.Kind, acct.Category)
				fmt.Fprintf(out, "Balance: %s\n", w.money(acct.Balance))
				switch {
				case acct.Credit != nil:
					fmt.Fprintf(out, "Limit: %s\nDebt: %s\nAvailable: %s\n",
						w.money(acct.Credit.CreditLimit), w.money(acct.Credit.CurrentDebt),
						w.money(acct.Credit.AvailableCredit()))
				case acct.Loan != nil:
					fmt.Fprintf(out, "Remaining: %s\nPeriods: %d/%d\nStatus: %s\n",
						w.money(acct.Loan.RemainingAmount), acct.Loan.RepaidPeriods,
						acct.Loan.TotalPeriods, acct.Loan.Status)
				case acct.Debt != nil && acct.Debt.Counterparty != "":
					fmt.Fprintf(out, "Counterparty: %s\n", acct.Debt.Counterparty)
				}
				if acct.Note != "" {
					fmt.Fprintf(out, "Note: %s\n", acct.Note)
				}

				txns, err := w.book.AccountTransactions(id)
				if err != nil {
					return err
				}
				if len(txns) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				return writeTransactions(out, w, txns)
			})
		},
	}
}

func newAccountToggleCommand(a *app, use, short string, fn func(*workspace, model.AccountID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				return fn(w, id)
			})
		},
	}
}

func newAccountIncludeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "include <id> <true|false>",
		Short: "Choose whether an account counts towards net assets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			included, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid flag value %q", args[1])
			}
			return a.mutate(func(w *workspace) error {
				return w.book.SetIncluded(id, included)
			})
		},
	}
}

func newAccountSetBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <id> <amount>",
		Short: "Overwrite an account balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				if err := w.book.SetBalance(id, amount); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Account %d balance set to %s\n", id, w.money(amount))
				return nil
			})
		},
	}
}

func newAccountImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create accounts from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			accts, err := accounts.ReadAccounts(f)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				for _, acct := range accts {
					if _, err := w.book.CreateAccount(*acct); err != nil {
						return fmt.Errorf("account %q: %w", acct.Name, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", len(accts))
				return nil
			})
		},
	}
}
