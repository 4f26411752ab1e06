package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/model"
)

func newDebtCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Pay down card debt and settle borrowing or lending",
	}
	cmd.AddCommand(
		newDebtRepayCommand(a),
		newDebtSettleCommand(a),
	)
	return cmd
}

func newDebtRepayCommand(a *app) *cobra.Command {
	var amount, from string

	cmd := &cobra.Command{
		Use:   "repay <credit-account>",
		Short: "Pay down credit card debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			d, err := parseAmount(amount)
			if err != nil {
				return err
			}
			source, err := parseRef[model.AccountID](from)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				if err := w.book.RepayDebt(card, d, source); err != nil {
					return err
				}
				acct, err := w.book.Account(card)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Repaid %s, %s debt left on %s\n",
					w.money(d), w.money(acct.Credit.CurrentDebt), acct.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount to repay (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&from, "from", "", "account paying the debt")

	return cmd
}

// newDebtSettleCommand pays a borrowing account or collects on a lending
// account, depending on the kind of the account given.
func newDebtSettleCommand(a *app) *cobra.Command {
	var amount, via, date string

	cmd := &cobra.Command{
		Use:   "settle <account>",
		Short: "Repay money borrowed or collect money lent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			d, err := parseAmount(amount)
			if err != nil {
				return err
			}
			other, err := parseRef[model.AccountID](via)
			if err != nil {
				return err
			}
			on, err := parseDate(date)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				acct, err := w.book.Account(id)
				if err != nil {
					return err
				}
				var txID model.TransactionID
				switch acct.Kind {
				case model.KindBorrowing:
					txID, err = w.book.RepayBorrowing(id, d, other, on)
				case model.KindLending:
					txID, err = w.book.CollectLending(id, d, other, on)
				default:
					return fmt.Errorf("%s account %d: %w", acct.Kind, id, model.ErrUnsupportedOperation)
				}
				if err != nil {
					return err
				}
				acct, err = w.book.Account(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded transfer %d, %s outstanding on %s\n",
					txID, w.money(acct.Balance), acct.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount settled (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&via, "via", "", "account the money leaves from or arrives in")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD (default today)")

	return cmd
}
