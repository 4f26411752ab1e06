package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/importer"
	"github.com/cleared-dev/pocketbook/internal/journal"
	"github.com/cleared-dev/pocketbook/internal/model"
)

func newImportCommand(a *app) *cobra.Command {
	var format, account, ledger string

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import a bank statement, or every pending file in <home>/import",
		Long: "Statement lines become income or expenses on --account. Without a file argument\n" +
			"every CSV in <home>/import is imported and then moved to import/processed.\n" +
			"With --format journal the file is a transaction export and is replayed as is.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []importer.FileInfo
			pending := len(args) == 0
			if pending {
				found, err := importer.Scan(a.home)
				if err != nil {
					return err
				}
				files = found
			} else {
				files = []importer.FileInfo{{Name: filepath.Base(args[0]), Path: args[0]}}
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}

			txns, err := a.readStatements(files, format, account, ledger)
			if err != nil {
				return err
			}

			var recorded, skipped int
			err = a.mutate(func(w *workspace) error {
				for i, tx := range txns {
					if w.book.HasReference(tx.Reference) {
						skipped++
						continue
					}
					if _, err := w.book.RecordTransaction(tx); err != nil {
						return fmt.Errorf("line %d (%s): %w", i+1, tx.Note, err)
					}
					recorded++
				}
				w.logger.Info("statement imported", zap.Int("files", len(files)),
					zap.Int("transactions", recorded), zap.Int("skipped", skipped))
				return nil
			})
			if err != nil {
				return err
			}

			if pending {
				for _, f := range files {
					if err := importer.MarkProcessed(a.home, f.Name); err != nil {
						return err
					}
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d transactions from %d files\n", recorded, len(files))
			if skipped > 0 {
				fmt.Fprintf(out, "Skipped %d lines already in the book\n", skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "statement format (chase, generic or journal)")
	cmd.Flags().StringVar(&account, "account", "", "account the statement belongs to")
	cmd.Flags().StringVar(&ledger, "ledger", "", "ledger to book imported lines in")

	return cmd
}

// journalFormat names a pocketbook transaction export rather than a bank statement.
const journalFormat = "journal"

func (a *app) readStatements(files []importer.FileInfo, format, account, ledger string) ([]model.Transaction, error) {
	var parser importer.Parser
	var target importer.Target
	if format != journalFormat {
		parser = importer.DefaultRegistry().Get(format)
		if parser == nil {
			return nil, fmt.Errorf("unknown import format %q", format)
		}
		acct, err := parseID[model.AccountID](account)
		if err != nil {
			return nil, fmt.Errorf("--account: %w", err)
		}
		target.Account = acct
		if target.Ledger, err = parseRef[model.LedgerID](ledger); err != nil {
			return nil, err
		}
	}

	var out []model.Transaction
	for _, f := range files {
		txns, err := readStatement(f.Path, parser, target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		out = append(out, txns...)
	}
	return out, nil
}

func readStatement(path string, parser importer.Parser, target importer.Target) ([]model.Transaction, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	if parser == nil {
		return journal.ReadTransactions(fh)
	}
	lines, err := parser.Parse(fh)
	if err != nil {
		return nil, err
	}
	return importer.ToTransactions(lines, target), nil
}
