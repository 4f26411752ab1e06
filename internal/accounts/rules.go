package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// rule is one row of the capability table.
type rule struct {
	credit func(a *model.Account, amount decimal.Decimal) (model.Effect, error)
	debit  func(a *model.Account, amount decimal.Decimal) (model.Effect, error)
}

// rules maps every account variant to its credit/debit behaviour.
// Borrowing and lending use the same two functions with opposite polarity.
var rules = map[model.AccountKind]rule{
	model.KindBasic:     {credit: addBalance, debit: subtractBalance},
	model.KindCredit:    {credit: addBalance, debit: debitCredit},
	model.KindLoan:      {credit: unsupported, debit: unsupported},
	model.KindBorrowing: {credit: settle, debit: addBalance},
	model.KindLending:   {credit: addBalance, debit: settle},
}

func lookup(kind model.AccountKind) (rule, error) {
	r, ok := rules[kind]
	if !ok {
		return rule{}, fmt.Errorf("%w: %q", model.ErrUnknownAccountKind, kind)
	}
	return r, nil
}

// Credit applies an inflow to a according to its variant and returns the applied effect.
func Credit(a *model.Account, amount decimal.Decimal) (model.Effect, error) {
	if !amount.IsPositive() {
		return model.Effect{}, model.ErrInvalidAmount
	}
	r, err := lookup(a.Kind)
	if err != nil {
		return model.Effect{}, err
	}
	eff, err := r.credit(a, money.Round(amount))
	if err != nil {
		return model.Effect{}, fmt.Errorf("credit %s account %d: %w", a.Kind, a.ID, err)
	}
	return eff, nil
}

// Debit applies an outflow to a according to its variant and returns the applied effect.
func Debit(a *model.Account, amount decimal.Decimal) (model.Effect, error) {
	if !amount.IsPositive() {
		return model.Effect{}, model.ErrInvalidAmount
	}
	r, err := lookup(a.Kind)
	if err != nil {
		return model.Effect{}, err
	}
	eff, err := r.debit(a, money.Round(amount))
	if err != nil {
		return model.Effect{}, fmt.Errorf("debit %s account %d: %w", a.Kind, a.ID, err)
	}
	return eff, nil
}

// CheckFunds fails with ErrInsufficientFunds when a basic account cannot cover amount.
// Other variants enforce their own limits inside Debit.
func CheckFunds(a *model.Account, amount decimal.Decimal) error {
	if a.Kind == model.KindBasic && amount.GreaterThan(a.Balance) {
		return fmt.Errorf("account %d holds %s, needs %s: %w",
			a.ID, a.Balance.StringFixed(2), amount.StringFixed(2), model.ErrInsufficientFunds)
	}
	return nil
}

// Reverse undoes a previously applied effect.
func Reverse(a *model.Account, eff model.Effect) error {
	if a.Kind == model.KindLoan {
		return model.ErrUnsupportedOperation
	}
	balance := a.Balance.Sub(eff.Balance)
	if balance.IsNegative() {
		if a.Debt != nil {
			return fmt.Errorf("reverse on account %d: %w", a.ID, model.ErrExceedsOutstanding)
		}
		return fmt.Errorf("reverse on account %d: %w", a.ID, model.ErrInsufficientFunds)
	}
	a.Balance = money.Round(balance)
	if a.Credit != nil {
		a.Credit.CurrentDebt = money.Round(a.Credit.CurrentDebt.Sub(eff.Debt))
	}
	markEnded(a)
	return nil
}

// SetBalance overwrites the balance. Loans track RemainingAmount instead.
func SetBalance(a *model.Account, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return model.ErrNegativeBalance
	}
	if a.Kind == model.KindLoan {
		return fmt.Errorf("set balance on loan account %d: %w", a.ID, model.ErrUnsupportedOperation)
	}
	a.Balance = money.Round(amount)
	markEnded(a)
	return nil
}

// Hide excludes a from every total.
func Hide(a *model.Account) { a.Hidden = true }

// Unhide brings a back into the totals.
func Unhide(a *model.Account) { a.Hidden = false }

// SetIncluded toggles whether a counts towards net assets.
func SetIncluded(a *model.Account, included bool) { a.IncludedInNetAssets = included }

func addBalance(a *model.Account, amount decimal.Decimal) (model.Effect, error) {
	a.Balance = money.Round(a.Balance.Add(amount))
	markEnded(a)
	return model.Effect{Account: a.ID, Balance: amount}, nil
}

func subtractBalance(a *model.Account, amount decimal.Decimal) (model.Effect, error) {
	a.Balance = money.Round(a.Balance.Sub(amount))
	return model.Effect{Account: a.ID, Balance: amount.Neg()}, nil
}

// debitCredit spends the balance first and books any shortfall as debt.
func debitCredit(a *model.Account, amount decimal.Decimal) (model.Effect, error) {
	if !amount.GreaterThan(a.Balance) {
		return subtractBalance(a, amount)
	}
	shortfall := amount.Sub(a.Balance)
	debt := a.Credit.CurrentDebt.Add(shortfall)
	if debt.GreaterThan(a.Credit.CreditLimit) {
		return model.Effect{}, fmt.Errorf("debt would reach %s of %s: %w",
			debt.StringFixed(2), a.Credit.CreditLimit.StringFixed(2), model.ErrCreditLimitExceeded)
	}
	eff := model.Effect{Account: a.ID, Balance: a.Balance.Neg(), Debt: shortfall}
	a.Balance = decimal.Zero
	a.Credit.CurrentDebt = money.Round(debt)
	return eff, nil
}

// settle reduces an outstanding borrowing/lending balance.
func settle(a *model.Account, amount decimal.Decimal) (model.Effect, error) {
	if amount.GreaterThan(a.Balance) {
		return model.Effect{}, fmt.Errorf("outstanding %s, got %s: %w",
			a.Balance.StringFixed(2), amount.StringFixed(2), model.ErrExceedsOutstanding)
	}
	a.Balance = money.Round(a.Balance.Sub(amount))
	markEnded(a)
	return model.Effect{Account: a.ID, Balance: amount.Neg()}, nil
}

func unsupported(*model.Account, decimal.Decimal) (model.Effect, error) {
	return model.Effect{}, model.ErrUnsupportedOperation
}

func markEnded(a *model.Account) {
	if a.Debt != nil {
		a.Debt.Ended = !a.Balance.IsPositive()
	}
}
