package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/model"
)

func newTxnCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Record and inspect transactions",
	}
	cmd.AddCommand(
		newTxnAddCommand(a),
		newTxnDeleteCommand(a),
		newTxnListCommand(a),
	)
	return cmd
}

type txnFlagValues struct {
	kind     string
	amount   string
	from     string
	to       string
	date     string
	ledger   string
	category string
	note     string
}

func (a *app) today() time.Time {
	y, m, d := a.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (a *app) buildTxn(f txnFlagValues) (model.Transaction, error) {
	var tx model.Transaction
	amount, err := parseAmount(f.amount)
	if err != nil {
		return tx, err
	}
	date, err := parseDate(f.date)
	if err != nil {
		return tx, err
	}
	if date.IsZero() {
		date = a.today()
	}
	from, err := parseRef[model.AccountID](f.from)
	if err != nil {
		return tx, err
	}
	to, err := parseRef[model.AccountID](f.to)
	if err != nil {
		return tx, err
	}

	switch model.TransactionKind(f.kind) {
	case model.Income:
		tx = model.NewIncome(date, amount, to)
	case model.Expense:
		tx = model.NewExpense(date, amount, from)
	case model.Transfer:
		tx = model.NewTransfer(date, amount, from, to)
	default:
		return tx, fmt.Errorf("unknown transaction kind %q", f.kind)
	}

	if tx.LedgerID, err = parseRef[model.LedgerID](f.ledger); err != nil {
		return tx, err
	}
	if tx.CategoryID, err = parseRef[model.CategoryID](f.category); err != nil {
		return tx, err
	}
	tx.Note = f.note
	return tx, nil
}

func newTxnAddCommand(a *app) *cobra.Command {
	var f txnFlagValues

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income, expense or transfer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := a.buildTxn(f)
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				id, err := w.book.RecordTransaction(tx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %d: %s\n", tx.Kind, id, w.money(tx.Amount))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.kind, "kind", "", "income, expense or transfer (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().StringVar(&f.amount, "amount", "", "positive amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&f.from, "from", "", "source account id")
	cmd.Flags().StringVar(&f.to, "to", "", "destination account id")
	cmd.Flags().StringVar(&f.date, "date", "", "YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.ledger, "ledger", "", "ledger id")
	cmd.Flags().StringVar(&f.category, "category", "", "category id")
	cmd.Flags().StringVar(&f.note, "note", "", "free-form note")

	return cmd
}

func newTxnDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and reverse its effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.TransactionID](args[0])
			if err != nil {
				return err
			}
			return a.mutate(func(w *workspace) error {
				if err := w.book.DeleteTransaction(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
				return nil
			})
		},
	}
}

func newTxnListCommand(a *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef[model.AccountID](account)
			if err != nil {
				return err
			}
			return a.read(func(w *workspace) error {
				txns := w.book.Transactions()
				if ref != nil {
					if txns, err = w.book.AccountTransactions(*ref); err != nil {
						return err
					}
				}
				return writeTransactions(cmd.OutOrStdout(), w, txns)
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "only transactions touching this account")

	return cmd
}

func writeTransactions(out io.Writer, w *workspace, txns []*model.Transaction) error {
	tw := newTable(out, "ID", "DATE", "KIND", "AMOUNT", "FROM", "TO", "CATEGORY", "NOTE")
	for _, t := range txns {
		row(tw, strconv.FormatInt(int64(t.ID), 10), formatDate(t.Date), string(t.Kind),
			w.money(t.Amount), formatRef(t.From), formatRef(t.To), formatRef(t.CategoryID), t.Note)
	}
	return tw.Flush()
}
