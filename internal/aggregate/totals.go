// Package aggregate derives an owner's total assets, liabilities and net assets
// from the current account set.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// Options tune the net assets formula.
type Options struct {
	// LendingAddBack adds outstanding lending to net assets on top of its
	// inclusion in total assets.
	LendingAddBack bool
}

// DefaultOptions keeps the lending add-back.
func DefaultOptions() Options {
	return Options{LendingAddBack: true}
}

// Totals are the derived owner figures.
type Totals struct {
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	Lending     decimal.Decimal
	NetAssets   decimal.Decimal
}

// Compute derives all totals in one pass.
func Compute(accts []*model.Account, opts Options) Totals {
	assets := decimal.Zero
	liabilities := decimal.Zero
	lending := decimal.Zero

	for _, a := range accts {
		if a.Hidden {
			continue
		}
		switch a.Kind {
		case model.KindBasic:
			if a.IncludedInNetAssets {
				assets = assets.Add(a.Balance)
			}
		case model.KindCredit:
			if a.IncludedInNetAssets {
				assets = assets.Add(a.Balance)
				liabilities = liabilities.Add(a.Credit.CurrentDebt)
			}
		case model.KindLoan:
			liabilities = liabilities.Add(a.Loan.RemainingAmount)
		case model.KindBorrowing:
			if a.IncludedInNetAssets && !a.Debt.Ended {
				liabilities = liabilities.Add(a.Balance)
			}
		case model.KindLending:
			if a.IncludedInNetAssets && !a.Debt.Ended {
				lending = lending.Add(a.Balance)
			}
		}
	}

	assets = assets.Add(lending)
	net := assets.Sub(liabilities)
	if opts.LendingAddBack {
		net = net.Add(lending)
	}
	return Totals{
		Assets:      money.Round(assets),
		Liabilities: money.Round(liabilities),
		Lending:     money.Round(lending),
		NetAssets:   money.Round(net),
	}
}

// Apply writes t onto the owner.
func Apply(u *model.User, t Totals) {
	u.TotalAssets = t.Assets
	u.TotalLiabilities = t.Liabilities
	u.TotalLending = t.Lending
	u.NetAssets = t.NetAssets
}
