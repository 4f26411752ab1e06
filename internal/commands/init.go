package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/accounts"
	"github.com/cleared-dev/pocketbook/internal/book"
	"github.com/cleared-dev/pocketbook/internal/config"
	"github.com/cleared-dev/pocketbook/internal/logging"
	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/store"
)

// defaultLedger is the ledger every new book starts with.
const defaultLedger = "Personal"

func newInitCommand(a *app) *cobra.Command {
	var name string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.home
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := a.runInit(absDir, name, currency); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized book for %s at %s\n", name, absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "owner name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "EUR", "display currency (ISO 4217)")

	return cmd
}

func (a *app) runInit(dir, name, currency string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(name)
	cfg.Currency = currency
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, d := range []string{"import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	lg, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer lg.Sync() //nolint:errcheck

	b := book.New(model.User{ID: 1, Name: name}, a.bookOptions(cfg, lg)...)
	for _, acct := range accounts.DefaultAccounts() {
		if _, err := b.CreateAccount(*acct); err != nil {
			return fmt.Errorf("creating account %s: %w", acct.Name, err)
		}
	}
	if _, err := b.CreateLedger(defaultLedger); err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}

	if err := store.Save(cfg.BookPath(dir), b.Snapshot()); err != nil {
		return fmt.Errorf("writing book: %w", err)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
