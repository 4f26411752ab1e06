package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// Basic returns a new unrestricted account holding balance.
func Basic(name string, balance decimal.Decimal) *model.Account {
	return newAccount(name, model.KindBasic, balance)
}

// CreditCard returns a credit account with a limit and an opening debt.
func CreditCard(name string, balance, limit, debt decimal.Decimal) *model.Account {
	a := newAccount(name, model.KindCredit, balance)
	a.Credit = &model.CreditDetail{CreditLimit: limit, CurrentDebt: debt}
	return a
}

// Borrowing returns an account for money owed to counterparty.
func Borrowing(name, counterparty string, owed decimal.Decimal) *model.Account {
	a := newAccount(name, model.KindBorrowing, owed)
	a.Debt = &model.DebtDetail{Counterparty: counterparty, Ended: !owed.IsPositive()}
	return a
}

// Lending returns an account for money counterparty owes back.
func Lending(name, counterparty string, lent decimal.Decimal) *model.Account {
	a := newAccount(name, model.KindLending, lent)
	a.Debt = &model.DebtDetail{Counterparty: counterparty, Ended: !lent.IsPositive()}
	return a
}

// DefaultAccounts returns the starter accounts of a new book.
func DefaultAccounts() []*model.Account {
	return []*model.Account{
		Basic("Cash", decimal.Zero),
		Basic("Checking", decimal.Zero),
		Basic("Savings", decimal.Zero),
	}
}

func newAccount(name string, kind model.AccountKind, balance decimal.Decimal) *model.Account {
	return &model.Account{
		Name:                name,
		Kind:                kind,
		Category:            model.DefaultCategory(kind),
		Balance:             balance,
		IncludedInNetAssets: true,
		Selectable:          true,
	}
}
