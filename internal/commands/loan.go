package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/book"
	"github.com/cleared-dev/pocketbook/internal/model"
)

func newLoanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Open, inspect and repay loans",
	}
	cmd.AddCommand(
		newLoanAddCommand(a),
		newLoanScheduleCommand(a),
		newLoanRepayCommand(a),
	)
	return cmd
}

func newLoanAddCommand(a *app) *cobra.Command {
	var (
		amount, rate, repayment string
		start, disburseTo, note string
		periods, repaid, day    int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Open a loan account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := parseAmount(amount)
			if err != nil {
				return err
			}
			annual, err := parseAmount(rate)
			if err != nil {
				return err
			}
			startDate, err := parseDate(start)
			if err != nil {
				return err
			}
			if startDate.IsZero() {
				startDate = a.today()
			}
			target, err := parseRef[model.AccountID](disburseTo)
			if err != nil {
				return err
			}

			p := book.LoanParams{
				Name:                args[0],
				Note:                note,
				LoanAmount:          principal,
				TotalPeriods:        periods,
				RepaidPeriods:       repaid,
				AnnualInterestRate:  annual,
				RepaymentType:       model.RepaymentType(repayment),
				RepaymentDay:        day,
				StartDate:           startDate,
				DisbursementAccount: target,
			}
			return a.mutate(func(w *workspace) error {
				id, err := w.book.CreateLoan(p)
				if err != nil {
					return err
				}
				acct, err := w.book.Account(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created loan %d (%s), %s to repay\n",
					id, acct.Name, w.money(acct.Loan.RemainingAmount))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "principal (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().IntVar(&periods, "periods", 0, "number of monthly periods (required)")
	_ = cmd.MarkFlagRequired("periods")
	cmd.Flags().StringVar(&rate, "rate", "0", "annual interest rate in percent")
	cmd.Flags().StringVar(&repayment, "type", string(model.EqualInterest),
		"equal_interest, equal_principal, equal_principal_and_interest or interest_before_principal")
	cmd.Flags().IntVar(&repaid, "repaid", 0, "periods already repaid")
	cmd.Flags().IntVar(&day, "day", 0, "day of month repayments fall due")
	cmd.Flags().StringVar(&start, "start", "", "YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&disburseTo, "disburse-to", "", "account receiving the principal")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")

	return cmd
}

func newLoanScheduleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id>",
		Short: "Print the repayment schedule of a loan",
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
				rows, err := w.book.LoanSchedule(id)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout(), "PERIOD", "PAYMENT", "PRINCIPAL", "INTEREST", "REMAINING", "")
				for _, p := range rows {
					mark := ""
					if p.Number <= acct.Loan.RepaidPeriods {
						mark = "repaid"
					}
					row(tw, strconv.Itoa(p.Number), w.money(p.Payment), w.money(p.Principal),
						w.money(p.Interest), w.money(p.Remaining), mark)
				}
				return tw.Flush()
			})
		},
	}
}

func newLoanRepayCommand(a *app) *cobra.Command {
	var amount, from string

	cmd := &cobra.Command{
		Use:   "repay <id>",
		Short: "Repay the next period, or as many whole periods as --amount covers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.AccountID](args[0])
			if err != nil {
				return err
			}
			source, err := parseRef[model.AccountID](from)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				out := cmd.OutOrStdout()
				if amount == "" {
					paid, err := w.book.RepayLoan(id, source)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Repaid one period of loan %d: %s\n", id, w.money(paid))
					return nil
				}
				d, err := parseAmount(amount)
				if err != nil {
					return err
				}
				n, err := w.book.RepayLoanAmount(id, d, source)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Repaid %d periods of loan %d\n", n, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "lump sum; whole periods it covers are repaid")
	cmd.Flags().StringVar(&from, "from", "", "account paying the installment")

	return cmd
}
