package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/installment"
	"github.com/cleared-dev/pocketbook/internal/model"
)

func newPlanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage credit card installment plans",
	}
	cmd.AddCommand(
		newPlanAddCommand(a),
		newPlanListCommand(a),
		newPlanRepayCommand(a),
		newPlanRemoveCommand(a),
	)
	return cmd
}

func newPlanAddCommand(a *app) *cobra.Command {
	var amount, feeRate, strategy, start, description string
	var periods, paid int

	cmd := &cobra.Command{
		Use:   "add <credit-account>",
		Short: "Split a purchase on a credit card into installments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			total, err := parseAmount(amount)
			if err != nil {
				return err
			}
			rate, err := parseAmount(feeRate)
			if err != nil {
				return err
			}
			startDate, err := parseDate(start)
			if err != nil {
				return err
			}

			p := model.InstallmentPlan{
				Description:  description,
				TotalAmount:  total,
				TotalPeriods: periods,
				FeeRate:      rate,
				PaidPeriods:  paid,
				FeeStrategy:  model.FeeStrategy(strategy),
				StartDate:    startDate,
			}
			return a.mutate(func(w *workspace) error {
				id, err := w.book.AddInstallmentPlan(card, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added plan %d on account %d: %s over %d periods, fee %s\n",
					id, card, w.money(total), periods, w.money(installment.Fee(&p)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "purchase amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().IntVar(&periods, "periods", 0, "number of installments (required)")
	_ = cmd.MarkFlagRequired("periods")
	cmd.Flags().StringVar(&feeRate, "fee-rate", "0", "total fee as a fraction of the amount, 0.05 for 5%")
	cmd.Flags().StringVar(&strategy, "strategy", string(model.EvenlySplit), "evenly_split, upfront or final")
	cmd.Flags().IntVar(&paid, "paid", 0, "installments already paid")
	cmd.Flags().StringVar(&start, "start", "", "YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&description, "description", "", "what was bought")

	return cmd
}

func newPlanListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <credit-account>",
		Short: "List the plans of a credit card with their schedules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			return a.read(func(w *workspace) error {
				if _, err := w.book.Account(card); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, p := range w.book.Plans(card) {
					fmt.Fprintf(out, "Plan %d %s: %d/%d paid, %s remaining\n", p.ID, p.Description,
						p.PaidPeriods, p.TotalPeriods, w.money(installment.RemainingAmount(p)))
					tw := newTable(out, "", "PERIOD", "PAYMENT", "")
					for _, inst := range installment.Schedule(p) {
						mark := ""
						if inst.Paid {
							mark = "paid"
						}
						row(tw, "", strconv.Itoa(inst.Period), w.money(inst.Payment), mark)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newPlanRepayCommand(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "repay <plan>",
		Short: "Pay the next installment of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.PlanID](args[0])
			if err != nil {
				return err
			}
			source, err := parseRef[model.AccountID](from)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				paid, err := w.book.RepayInstallmentPlan(id, source)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Paid installment of plan %d: %s\n", id, w.money(paid))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "account paying the installment")

	return cmd
}

func newPlanRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <plan>",
		Short: "Remove a plan and its unpaid remainder from the card debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.PlanID](args[0])
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				if err := w.book.RemoveInstallmentPlan(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed plan %d\n", id)
				return nil
			})
		},
	}
}
