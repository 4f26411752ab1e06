package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocketbook/internal/buildinfo"
)

// HomeEnv names the environment variable holding the default workspace directory.
const HomeEnv = "POCKETBOOK_HOME"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	a := &app{now: now}

	rootCmd := &cobra.Command{
		Use:     "pocketbook",
		Short:   "Personal finance accounting",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	home := os.Getenv(HomeEnv)
	if home == "" {
		home = "."
	}
	rootCmd.PersistentFlags().StringVar(&a.home, "home", home, "workspace directory (env "+HomeEnv+")")

	rootCmd.AddCommand(
		newInitCommand(a),
		newAccountCommand(a),
		newTxnCommand(a),
		newLoanCommand(a),
		newPlanCommand(a),
		newDebtCommand(a),
		newLedgerCommand(a),
		newCategoryCommand(a),
		newBudgetCommand(a),
		newSummaryCommand(a),
		newImportCommand(a),
		newExportCommand(a),
	)

	return rootCmd
}
