package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/accounts"
	"github.com/cleared-dev/pocketbook/internal/journal"
)

func newExportCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "export <accounts|transactions>",
		Short:     "Write accounts or transactions as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"accounts", "transactions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(w *workspace) error {
				if output == "" {
					return export(cmd.OutOrStdout(), w, args[0])
				}
				return exportFile(output, w, args[0])
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")

	return cmd
}

func export(out io.Writer, w *workspace, what string) error {
	if what == "accounts" {
		return accounts.WriteAccounts(out, w.book.Accounts())
	}
	return journal.WriteTransactions(out, w.book.Transactions())
}

// exportFile writes to path and reports a failed close, since buffered
// writes may only surface there.
func exportFile(path string, w *workspace, what string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return export(f, w, what)
}
