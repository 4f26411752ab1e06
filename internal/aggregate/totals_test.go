package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/pocketbook/internal/accounts"
	"github.com/cleared-dev/pocketbook/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func loan(remaining string) *model.Account {
	return &model.Account{
		Name: "Car loan",
		Kind: model.KindLoan,
		Loan: &model.LoanDetail{RemainingAmount: dec(remaining), Status: model.LoanActive},
	}
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil, DefaultOptions())
	assert.True(t, got.Assets.IsZero())
	assert.True(t, got.Liabilities.IsZero())
	assert.True(t, got.NetAssets.IsZero())
}

func TestCompute_CreditDebtIsLiability(t *testing.T) {
	base := []*model.Account{accounts.Basic("Cash", dec("250"))}
	before := Compute(base, DefaultOptions())

	card := accounts.CreditCard("Visa", decimal.Zero, dec("1000"), dec("500"))
	after := Compute(append(base, card), DefaultOptions())

	assert.Equal(t, "500.00", after.Liabilities.Sub(before.Liabilities).StringFixed(2))
	assert.True(t, after.Assets.Equal(before.Assets))
}

func TestCompute_Mixed(t *testing.T) {
	accts := []*model.Account{
		accounts.Basic("Cash", dec("1000")),
		accounts.CreditCard("Visa", dec("20"), dec("5000"), dec("300")),
		loan("8000"),
		accounts.Borrowing("From Bob", "Bob", dec("150")),
		accounts.Lending("To Carol", "Carol", dec("200")),
	}
	got := Compute(accts, DefaultOptions())
	assert.Equal(t, "1220.00", got.Assets.StringFixed(2))
	assert.Equal(t, "8450.00", got.Liabilities.StringFixed(2))
	assert.Equal(t, "200.00", got.Lending.StringFixed(2))
	assert.Equal(t, "-7030.00", got.NetAssets.StringFixed(2), "lending is added back once more")

	got = Compute(accts, Options{LendingAddBack: false})
	assert.Equal(t, "-7230.00", got.NetAssets.StringFixed(2))
}

func TestCompute_HiddenAndExcluded(t *testing.T) {
	hidden := accounts.Basic("Stash", dec("500"))
	hidden.Hidden = true
	excluded := accounts.CreditCard("Store card", decimal.Zero, dec("100"), dec("40"))
	excluded.IncludedInNetAssets = false
	hiddenLoan := loan("1000")
	hiddenLoan.Hidden = true
	ended := accounts.Borrowing("Settled", "Dan", decimal.Zero)

	got := Compute([]*model.Account{hidden, excluded, hiddenLoan, ended}, DefaultOptions())
	assert.True(t, got.Assets.IsZero())
	assert.True(t, got.Liabilities.IsZero())
}

func TestCompute_LoanIgnoresInclusionFlag(t *testing.T) {
	l := loan("1000")
	l.IncludedInNetAssets = false
	got := Compute([]*model.Account{l}, DefaultOptions())
	assert.Equal(t, "1000.00", got.Liabilities.StringFixed(2))
}

func TestApply(t *testing.T) {
	var u model.User
	Apply(&u, Totals{Assets: dec("10"), Liabilities: dec("4"), Lending: dec("1"), NetAssets: dec("7")})
	assert.Equal(t, "7", u.NetAssets.String())
	assert.Equal(t, "4", u.TotalLiabilities.String())
}
