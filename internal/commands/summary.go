package commands

import (
	"github.com/spf13/cobra"
)

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total assets, liabilities and net assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(w *workspace) error {
				owner := w.book.Owner()
				t := w.book.Totals()
				tw := newTable(cmd.OutOrStdout(), "OWNER", owner.Name)
				row(tw, "Assets", w.money(t.Assets))
				row(tw, "Liabilities", w.money(t.Liabilities))
				row(tw, "Lending", w.money(t.Lending))
				row(tw, "Net assets", w.money(t.NetAssets))
				return tw.Flush()
			})
		},
	}
}
