package book

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cleared-dev/pocketbook/internal/accounts"
	"github.com/cleared-dev/pocketbook/internal/aggregate"
	"github.com/cleared-dev/pocketbook/internal/model"
)

var today = date(2026, 10, 16)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func newBook(opts ...Option) *Book {
	opts = append([]Option{WithClock(func() time.Time { return today })}, opts...)
	return New(model.User{ID: 1, Name: "Ana"}, opts...)
}

func mustCreate(t *testing.T, b *Book, a *model.Account) model.AccountID {
	t.Helper()
	id, err := b.CreateAccount(*a)
	require.NoError(t, err)
	return id
}

func balance(t *testing.T, b *Book, id model.AccountID) decimal.Decimal {
	t.Helper()
	a, err := b.Account(id)
	require.NoError(t, err)
	return a.Balance
}

func TestCreateAccount(t *testing.T) {
	b := newBook()
	id := mustCreate(t, b, accounts.Basic("Cash", dec("100.005")))

	a, err := b.Account(id)
	require.NoError(t, err)
	assert.Equal(t, model.UserID(1), a.OwnerID)
	assert.Equal(t, model.CategoryFunds, a.Category)
	assertMoney(t, "100.01", a.Balance)
	assertMoney(t, "100.01", b.Totals().Assets)
}

func TestCreateAccount_Rejects(t *testing.T) {
	tests := []struct {
		name string
		acct *model.Account
		want error
	}{
		{"negative balance", accounts.Basic("Cash", dec("-1")), model.ErrNegativeBalance},
		{"no name", accounts.Basic("", dec("1")), model.ErrValidation},
		{"loan", &model.Account{Name: "Car", Kind: model.KindLoan, Loan: &model.LoanDetail{}}, model.ErrUnsupportedOperation},
		{"debt over limit", accounts.CreditCard("Visa", decimal.Zero, dec("100"), dec("200")), model.ErrCreditLimitExceeded},
		{"credit without detail", &model.Account{Name: "Visa", Kind: model.KindCredit}, model.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBook()
			_, err := b.CreateAccount(*tt.acct)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, b.Accounts())
		})
	}
}

func TestCreditDebtCountsAsLiability(t *testing.T) {
	b := newBook()
	mustCreate(t, b, accounts.Basic("Cash", dec("250")))
	before := b.Totals().Liabilities

	mustCreate(t, b, accounts.CreditCard("Visa", decimal.Zero, dec("1000"), dec("500")))

	assertMoney(t, "500.00", b.Totals().Liabilities.Sub(before))
	assertMoney(t, "-250.00", b.Totals().NetAssets)
}

func TestDeleteTransfer_RestoresAndUnlinks(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("1000")))
	savings := mustCreate(t, b, accounts.Basic("Savings", dec("50")))
	ledger, err := b.CreateLedger("Household")
	require.NoError(t, err)
	cat, err := b.CreateCategory(ledger, "Moves", model.CategoryExpense, nil)
	require.NoError(t, err)

	tx := model.NewTransfer(date(2026, 10, 1), dec("200"), &cash, &savings)
	tx.LedgerID, tx.CategoryID = &ledger, &cat
	id, err := b.RecordTransaction(tx)
	require.NoError(t, err)

	assertMoney(t, "800.00", balance(t, b, cash))
	assertMoney(t, "250.00", balance(t, b, savings))
	from, _ := b.Account(cash)
	to, _ := b.Account(savings)
	l, _ := b.Ledger(ledger)
	c, _ := b.Category(cat)
	assert.Equal(t, []model.TransactionID{id}, from.Outgoing)
	assert.Equal(t, []model.TransactionID{id}, to.Incoming)
	assert.Equal(t, []model.TransactionID{id}, l.Transactions)
	assert.Equal(t, []model.TransactionID{id}, c.Transactions)
	assertMoney(t, "1050.00", b.Totals().Assets)

	require.NoError(t, b.DeleteTransaction(id))

	assertMoney(t, "1000.00", balance(t, b, cash))
	assertMoney(t, "50.00", balance(t, b, savings))
	from, _ = b.Account(cash)
	to, _ = b.Account(savings)
	l, _ = b.Ledger(ledger)
	c, _ = b.Category(cat)
	assert.Empty(t, from.Outgoing)
	assert.Empty(t, to.Incoming)
	assert.Empty(t, l.Transactions)
	assert.Empty(t, c.Transactions)
	_, err = b.Transaction(id)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assertMoney(t, "1050.00", b.Totals().Assets)
}

func TestRecordTransaction_FailingLegRollsBack(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("100")))
	loan, err := b.CreateLoan(LoanParams{
		Name:               "Car",
		LoanAmount:         dec("1200"),
		TotalPeriods:       12,
		AnnualInterestRate: decimal.Zero,
		RepaymentType:      model.EqualPrincipal,
	})
	require.NoError(t, err)

	_, err = b.RecordTransaction(model.NewTransfer(today, dec("50"), &cash, &loan))
	require.ErrorIs(t, err, model.ErrUnsupportedOperation)
	assert.ErrorIs(t, err, model.ErrCapability)

	a, _ := b.Account(cash)
	assertMoney(t, "100.00", a.Balance)
	assert.Empty(t, a.Outgoing)
	assert.Empty(t, b.Transactions())
}

func TestRecordTransaction_Limits(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("100")))
	card := mustCreate(t, b, accounts.CreditCard("Visa", dec("100"), dec("500"), decimal.Zero))

	_, err := b.RecordTransaction(model.NewExpense(today, dec("150"), &cash))
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.ErrorIs(t, err, model.ErrLimit)
	assertMoney(t, "100.00", balance(t, b, cash))

	_, err = b.RecordTransaction(model.NewExpense(today, dec("700"), &card))
	require.ErrorIs(t, err, model.ErrCreditLimitExceeded)
	a, _ := b.Account(card)
	assertMoney(t, "100.00", a.Balance)
	assertMoney(t, "0.00", a.Credit.CurrentDebt)
}

func TestRecordTransaction_CreditOverdraftReverses(t *testing.T) {
	b := newBook()
	card := mustCreate(t, b, accounts.CreditCard("Visa", dec("100"), dec("500"), decimal.Zero))

	id, err := b.RecordTransaction(model.NewExpense(today, dec("300"), &card))
	require.NoError(t, err)
	a, _ := b.Account(card)
	assertMoney(t, "0.00", a.Balance)
	assertMoney(t, "200.00", a.Credit.CurrentDebt)
	assertMoney(t, "200.00", b.Totals().Liabilities)

	require.NoError(t, b.DeleteTransaction(id))
	a, _ = b.Account(card)
	assertMoney(t, "100.00", a.Balance)
	assertMoney(t, "0.00", a.Credit.CurrentDebt)
	assertMoney(t, "0.00", b.Totals().Liabilities)
}

func TestDeleteTransaction_SpentIncomeIsRejected(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", decimal.Zero))
	income, err := b.RecordTransaction(model.NewIncome(today, dec("100"), &cash))
	require.NoError(t, err)
	_, err = b.RecordTransaction(model.NewExpense(today, dec("80"), &cash))
	require.NoError(t, err)

	err = b.DeleteTransaction(income)
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	assertMoney(t, "20.00", balance(t, b, cash))
	_, err = b.Transaction(income)
	assert.NoError(t, err)
}

func TestRecordTransaction_Validation(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("100")))
	home, _ := b.CreateLedger("Home")
	work, _ := b.CreateLedger("Work")
	food, _ := b.CreateCategory(home, "Food", model.CategoryExpense, nil)
	missing := model.AccountID(99)

	tests := []struct {
		name string
		tx   func() model.Transaction
		want error
	}{
		{"zero amount", func() model.Transaction { return model.NewExpense(today, decimal.Zero, &cash) }, model.ErrInvalidAmount},
		{"transfer to itself", func() model.Transaction { return model.NewTransfer(today, dec("1"), &cash, &cash) }, model.ErrInvalidTransaction},
		{"unknown account", func() model.Transaction { return model.NewIncome(today, dec("1"), &missing) }, model.ErrNotFound},
		{"category outside ledger", func() model.Transaction {
			tx := model.NewExpense(today, dec("1"), &cash)
			tx.LedgerID, tx.CategoryID = &work, &food
			return tx
		}, model.ErrInvalidTransaction},
		{"income in expense category", func() model.Transaction {
			tx := model.NewIncome(today, dec("1"), &cash)
			tx.LedgerID, tx.CategoryID = &home, &food
			return tx
		}, model.ErrInvalidTransaction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.RecordTransaction(tt.tx())
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, model.ErrValidation)
			assertMoney(t, "100.00", balance(t, b, cash))
		})
	}
}

func TestEditTransaction(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("1000")))
	savings := mustCreate(t, b, accounts.Basic("Savings", dec("500")))
	id, err := b.RecordTransaction(model.NewExpense(today, dec("100"), &cash))
	require.NoError(t, err)

	require.NoError(t, b.EditTransaction(id, model.NewExpense(today, dec("250"), &savings)))

	assertMoney(t, "1000.00", balance(t, b, cash))
	assertMoney(t, "250.00", balance(t, b, savings))
	tx, err := b.Transaction(id)
	require.NoError(t, err)
	assertMoney(t, "250.00", tx.Amount)
	from, _ := b.Account(cash)
	assert.Empty(t, from.Outgoing)
	txns, err := b.AccountTransactions(savings)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, id, txns[0].ID)

	// a failing edit leaves the original in place
	err = b.EditTransaction(id, model.NewExpense(today, dec("5000"), &savings))
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	assertMoney(t, "250.00", balance(t, b, savings))
	tx, _ = b.Transaction(id)
	assertMoney(t, "250.00", tx.Amount)
}

func TestTransactions_OrderedByDate(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("1000")))
	late, _ := b.RecordTransaction(model.NewExpense(date(2026, 10, 9), dec("1"), &cash))
	early, _ := b.RecordTransaction(model.NewIncome(date(2026, 10, 2), dec("1"), &cash))

	txns := b.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, early, txns[0].ID)
	assert.Equal(t, late, txns[1].ID)

	byAccount, err := b.AccountTransactions(cash)
	require.NoError(t, err)
	assert.Equal(t, early, byAccount[0].ID)
}

func TestHideAndInclude(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("300")))
	mustCreate(t, b, accounts.Basic("Wallet", dec("20")))
	assertMoney(t, "320.00", b.Totals().Assets)

	require.NoError(t, b.Hide(cash))
	assertMoney(t, "20.00", b.Totals().Assets)
	require.NoError(t, b.Unhide(cash))
	assertMoney(t, "320.00", b.Totals().Assets)
	require.NoError(t, b.SetIncluded(cash, false))
	assertMoney(t, "20.00", b.Totals().Assets)

	require.ErrorIs(t, b.Hide(99), model.ErrNotFound)
}

func TestSetBalance(t *testing.T) {
	b := newBook()
	lent := mustCreate(t, b, accounts.Lending("To Bo", "Bo", dec("200")))

	require.NoError(t, b.SetBalance(lent, decimal.Zero))
	a, _ := b.Account(lent)
	assert.True(t, a.Ended())
	assertMoney(t, "0.00", b.Totals().Lending)

	require.ErrorIs(t, b.SetBalance(lent, dec("-1")), model.ErrNegativeBalance)
}

func TestBorrowingAndLending(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("500")))
	owed := mustCreate(t, b, accounts.Borrowing("From Bo", "Bo", dec("300")))
	lent := mustCreate(t, b, accounts.Lending("To Cy", "Cy", dec("200")))

	totals := b.Totals()
	assertMoney(t, "700.00", totals.Assets)
	assertMoney(t, "300.00", totals.Liabilities)
	assertMoney(t, "200.00", totals.Lending)
	assertMoney(t, "600.00", totals.NetAssets)

	_, err := b.RepayBorrowing(owed, dec("300"), &cash, time.Time{})
	require.NoError(t, err)
	a, _ := b.Account(owed)
	assert.True(t, a.Ended())
	assertMoney(t, "200.00", balance(t, b, cash))
	assertMoney(t, "0.00", b.Totals().Liabilities)

	_, err = b.RepayBorrowing(owed, dec("10"), &cash, time.Time{})
	require.ErrorIs(t, err, model.ErrExceedsOutstanding)
	assertMoney(t, "200.00", balance(t, b, cash))

	txID, err := b.CollectLending(lent, dec("200"), &cash, date(2026, 10, 3))
	require.NoError(t, err)
	tx, _ := b.Transaction(txID)
	assert.Equal(t, model.Transfer, tx.Kind)
	a, _ = b.Account(lent)
	assert.True(t, a.Ended())
	totals = b.Totals()
	assertMoney(t, "400.00", totals.Assets)
	assertMoney(t, "0.00", totals.Lending)
	assertMoney(t, "400.00", totals.NetAssets)

	_, err = b.CollectLending(cash, dec("1"), nil, time.Time{})
	require.ErrorIs(t, err, model.ErrUnsupportedOperation)
}

func TestLendingAddBackOption(t *testing.T) {
	b := newBook(WithTotals(aggregate.Options{LendingAddBack: false}))
	mustCreate(t, b, accounts.Basic("Cash", dec("500")))
	mustCreate(t, b, accounts.Lending("To Cy", "Cy", dec("200")))

	assertMoney(t, "700.00", b.Totals().NetAssets)
}

func TestInstallmentPlans(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("2000")))
	card := mustCreate(t, b, accounts.CreditCard("Visa", decimal.Zero, dec("5000"), decimal.Zero))

	plan, err := b.AddInstallmentPlan(card, model.InstallmentPlan{
		Description:  "Laptop",
		TotalAmount:  dec("1000"),
		TotalPeriods: 10,
		FeeRate:      dec("0.05"),
		FeeStrategy:  model.EvenlySplit,
	})
	require.NoError(t, err)
	a, _ := b.Account(card)
	assertMoney(t, "1050.00", a.Credit.CurrentDebt)
	assert.Equal(t, []model.PlanID{plan}, a.Credit.Plans)
	assertMoney(t, "1050.00", b.Totals().Liabilities)

	payment, err := b.RepayInstallmentPlan(plan, &cash)
	require.NoError(t, err)
	assertMoney(t, "105.00", payment)
	a, _ = b.Account(card)
	assertMoney(t, "945.00", a.Credit.CurrentDebt)
	assertMoney(t, "1895.00", balance(t, b, cash))
	p, _ := b.Plan(plan)
	assert.Equal(t, 1, p.PaidPeriods)
	assert.Equal(t, today, p.StartDate)

	require.NoError(t, b.RemoveInstallmentPlan(plan))
	a, _ = b.Account(card)
	assertMoney(t, "0.00", a.Credit.CurrentDebt)
	assert.Empty(t, a.Credit.Plans)
	assert.Empty(t, b.Plans(card))
	_, err = b.Plan(plan)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepayInstallmentPlan_Failures(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("50")))
	card := mustCreate(t, b, accounts.CreditCard("Visa", decimal.Zero, dec("5000"), decimal.Zero))
	plan, err := b.AddInstallmentPlan(card, model.InstallmentPlan{
		TotalAmount:  dec("100"),
		TotalPeriods: 1,
		FeeRate:      decimal.Zero,
		FeeStrategy:  model.Upfront,
	})
	require.NoError(t, err)

	_, err = b.RepayInstallmentPlan(plan, &cash)
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	p, _ := b.Plan(plan)
	assert.Equal(t, 0, p.PaidPeriods)
	a, _ := b.Account(card)
	assertMoney(t, "100.00", a.Credit.CurrentDebt)

	_, err = b.RepayInstallmentPlan(plan, nil)
	require.NoError(t, err)
	_, err = b.RepayInstallmentPlan(plan, nil)
	require.ErrorIs(t, err, model.ErrPlanPaidOff)
	assert.ErrorIs(t, err, model.ErrState)

	_, err = b.AddInstallmentPlan(cash, model.InstallmentPlan{
		TotalAmount: dec("10"), TotalPeriods: 1, FeeStrategy: model.Final,
	})
	require.ErrorIs(t, err, model.ErrUnsupportedOperation)
}

func TestRepayDebt(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("1000")))
	card := mustCreate(t, b, accounts.CreditCard("Visa", decimal.Zero, dec("1000"), dec("500")))

	require.NoError(t, b.RepayDebt(card, dec("200"), &cash))
	a, _ := b.Account(card)
	assertMoney(t, "300.00", a.Credit.CurrentDebt)
	assertMoney(t, "800.00", balance(t, b, cash))
	assertMoney(t, "300.00", b.Totals().Liabilities)
	assert.Empty(t, b.Transactions())

	require.ErrorIs(t, b.RepayDebt(card, decimal.Zero, nil), model.ErrInvalidAmount)
	require.ErrorIs(t, b.RepayDebt(cash, dec("1"), nil), model.ErrUnsupportedOperation)
	require.ErrorIs(t, b.RepayDebt(card, dec("900"), &cash), model.ErrInsufficientFunds)
	require.ErrorIs(t, b.RepayDebt(card, dec("1"), &card), model.ErrValidation)
	a, _ = b.Account(card)
	assertMoney(t, "300.00", a.Credit.CurrentDebt)
}

func TestLoan_DisburseAndRepay(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", decimal.Zero))
	loan, err := b.CreateLoan(LoanParams{
		Name:                "Car",
		LoanAmount:          dec("12000"),
		TotalPeriods:        12,
		AnnualInterestRate:  dec("12"),
		RepaymentType:       model.EqualInterest,
		DisbursementAccount: &cash,
	})
	require.NoError(t, err)

	a, _ := b.Account(loan)
	assertMoney(t, "12794.28", a.Loan.RemainingAmount)
	assertMoney(t, "0.00", a.Balance)
	assert.Equal(t, model.LoanActive, a.Loan.Status)
	assertMoney(t, "12000.00", balance(t, b, cash))
	txns, _ := b.AccountTransactions(cash)
	require.Len(t, txns, 1)
	assert.Equal(t, model.Income, txns[0].Kind)
	assertMoney(t, "12794.28", b.Totals().Liabilities)

	payment, err := b.RepayLoan(loan, &cash)
	require.NoError(t, err)
	assertMoney(t, "1066.19", payment)
	a, _ = b.Account(loan)
	assert.Equal(t, 1, a.Loan.RepaidPeriods)
	assertMoney(t, "11728.09", a.Loan.RemainingAmount)
	assertMoney(t, "10933.81", balance(t, b, cash))
	assertMoney(t, "11728.09", b.Totals().Liabilities)

	require.ErrorIs(t, b.Credit(loan, dec("1")), model.ErrUnsupportedOperation)
	require.ErrorIs(t, b.Debit(loan, dec("1")), model.ErrUnsupportedOperation)

	schedule, err := b.LoanSchedule(loan)
	require.NoError(t, err)
	assert.Len(t, schedule, 12)

	require.NoError(t, b.Hide(loan))
	assertMoney(t, "0.00", b.Totals().Liabilities)
}

func TestLoan_RepayAmount(t *testing.T) {
	b := newBook()
	loan, err := b.CreateLoan(LoanParams{
		Name:               "Flat",
		LoanAmount:         dec("12000"),
		TotalPeriods:       12,
		AnnualInterestRate: dec("12"),
		RepaymentType:      model.EqualPrincipal,
		StartDate:          date(2026, 1, 5),
	})
	require.NoError(t, err)

	covered, err := b.RepayLoanAmount(loan, dec("2500"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, covered)
	a, _ := b.Account(loan)
	assert.Equal(t, 2, a.Loan.RepaidPeriods)
	assertMoney(t, "10280.00", a.Loan.RemainingAmount)

	_, err = b.RepayLoanAmount(loan, dec("20000"), nil)
	require.ErrorIs(t, err, model.ErrExceedsOutstanding)
	a, _ = b.Account(loan)
	assertMoney(t, "10280.00", a.Loan.RemainingAmount)

	covered, err = b.RepayLoanAmount(loan, dec("10280"), nil)
	require.NoError(t, err)
	assert.Equal(t, 10, covered)
	a, _ = b.Account(loan)
	assert.Equal(t, model.LoanEnded, a.Loan.Status)
	assertMoney(t, "0.00", a.Loan.RemainingAmount)

	_, err = b.RepayLoan(loan, nil)
	require.ErrorIs(t, err, model.ErrLoanRepaid)
}

func TestLoan_RepayAmountAboveRemainder(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("5000")))
	loan, err := b.CreateLoan(LoanParams{
		Name:          "Zero",
		LoanAmount:    dec("1200"),
		TotalPeriods:  12,
		RepaymentType: model.EqualPrincipal,
		StartDate:     date(2026, 1, 5),
	})
	require.NoError(t, err)

	_, err = b.RepayLoanAmount(loan, dec("3000"), &cash)
	require.ErrorIs(t, err, model.ErrExceedsOutstanding)
	require.ErrorIs(t, err, model.ErrLimit)
	assertMoney(t, "5000.00", balance(t, b, cash), "source is not debited")
	a, _ := b.Account(loan)
	assertMoney(t, "1200.00", a.Loan.RemainingAmount)
	assert.Equal(t, model.LoanActive, a.Loan.Status)
	assert.Zero(t, a.Loan.RepaidPeriods)
}

func TestCreateLoan_AlreadyRepaid(t *testing.T) {
	b := newBook()
	loan, err := b.CreateLoan(LoanParams{
		Name:               "Old",
		LoanAmount:         dec("1200"),
		TotalPeriods:       12,
		RepaidPeriods:      12,
		AnnualInterestRate: dec("5"),
		RepaymentType:      model.InterestBeforePrincipal,
	})
	require.NoError(t, err)
	a, _ := b.Account(loan)
	assert.Equal(t, model.LoanEnded, a.Loan.Status)

	_, err = b.CreateLoan(LoanParams{Name: "Bad", LoanAmount: dec("100"), TotalPeriods: 0, RepaymentType: model.EqualInterest})
	require.ErrorIs(t, err, model.ErrPeriodOutOfRange)
	_, err = b.CreateLoan(LoanParams{Name: "Bad", LoanAmount: dec("100"), TotalPeriods: 2, RepaymentType: "balloon"})
	require.ErrorIs(t, err, model.ErrValidation)
}

type budgetFixture struct {
	b         *Book
	cash      model.AccountID
	ledger    model.LedgerID
	food      model.CategoryID
	groceries model.CategoryID
	rent      model.CategoryID
}

func newBudgetFixture(t *testing.T) budgetFixture {
	t.Helper()
	f := budgetFixture{b: newBook()}
	f.cash = mustCreate(t, f.b, accounts.Basic("Cash", dec("1000")))
	var err error
	f.ledger, err = f.b.CreateLedger("Home")
	require.NoError(t, err)
	f.food, err = f.b.CreateCategory(f.ledger, "Food", model.CategoryExpense, nil)
	require.NoError(t, err)
	f.groceries, err = f.b.CreateCategory(f.ledger, "Groceries", model.CategoryExpense, &f.food)
	require.NoError(t, err)
	f.rent, err = f.b.CreateCategory(f.ledger, "Rent", model.CategoryExpense, nil)
	require.NoError(t, err)
	return f
}

func (f budgetFixture) spend(t *testing.T, on time.Time, amount string, cat model.CategoryID) {
	t.Helper()
	tx := model.NewExpense(on, dec(amount), &f.cash)
	tx.LedgerID, tx.CategoryID = &f.ledger, &cat
	_, err := f.b.RecordTransaction(tx)
	require.NoError(t, err)
}

func TestCreateCategory_Rejects(t *testing.T) {
	f := newBudgetFixture(t)
	_, err := f.b.CreateCategory(f.ledger, "Fruit", model.CategoryExpense, &f.groceries)
	require.ErrorIs(t, err, model.ErrValidation)
	_, err = f.b.CreateCategory(f.ledger, "Salary", model.CategoryIncome, &f.food)
	require.ErrorIs(t, err, model.ErrValidation)
	_, err = f.b.CreateCategory(99, "Lost", model.CategoryExpense, nil)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateBudget_Duplicate(t *testing.T) {
	f := newBudgetFixture(t)
	id, err := f.b.CreateBudget(dec("500"), model.Monthly, nil)
	require.NoError(t, err)
	bg, _ := f.b.Budget(id)
	assert.Equal(t, date(2026, 10, 1), bg.StartDate)

	_, err = f.b.CreateBudget(dec("600"), model.Monthly, nil)
	require.ErrorIs(t, err, model.ErrDuplicateBudget)

	_, err = f.b.CreateBudget(dec("6000"), model.Yearly, nil)
	require.NoError(t, err)
	_, err = f.b.CreateBudget(dec("100"), model.Monthly, &f.food)
	require.NoError(t, err)

	active := f.b.ActiveBudget(nil, model.Monthly)
	require.NotNil(t, active)
	assert.Equal(t, id, active.ID)
	assert.Nil(t, f.b.ActiveBudget(&f.rent, model.Monthly))

	_, err = f.b.CreateBudget(decimal.Zero, model.Monthly, &f.rent)
	require.ErrorIs(t, err, model.ErrInvalidAmount)
	missing := model.CategoryID(99)
	_, err = f.b.CreateBudget(dec("1"), model.Monthly, &missing)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestMergeBudget(t *testing.T) {
	f := newBudgetFixture(t)
	owner, _ := f.b.CreateBudget(dec("100"), model.Monthly, nil)
	food, _ := f.b.CreateBudget(dec("300"), model.Monthly, &f.food)
	_, _ = f.b.CreateBudget(dec("800"), model.Monthly, &f.rent)
	groceries, _ := f.b.CreateBudget(dec("150"), model.Monthly, &f.groceries)

	added, err := f.b.MergeBudget(owner)
	require.NoError(t, err)
	assertMoney(t, "1100.00", added)
	bg, _ := f.b.Budget(owner)
	assertMoney(t, "1200.00", bg.Amount)
	require.NotNil(t, bg.MergedAt)

	_, err = f.b.MergeBudget(owner)
	require.ErrorIs(t, err, model.ErrAlreadyMerged)
	bg, _ = f.b.Budget(owner)
	assertMoney(t, "1200.00", bg.Amount)

	added, err = f.b.MergeBudget(food)
	require.NoError(t, err)
	assertMoney(t, "150.00", added)

	_, err = f.b.MergeBudget(groceries)
	require.ErrorIs(t, err, model.ErrInvalidMerge)
	assert.Len(t, f.b.Budgets(), 4)
}

func TestBudgetUsage(t *testing.T) {
	f := newBudgetFixture(t)
	owner, _ := f.b.CreateBudget(dec("500"), model.Monthly, nil)
	food, _ := f.b.CreateBudget(dec("300"), model.Monthly, &f.food)
	f.spend(t, date(2026, 10, 10), "40", f.groceries)
	f.spend(t, date(2026, 10, 2), "30", f.rent)
	f.spend(t, date(2026, 9, 30), "99", f.food)

	usage, err := f.b.BudgetUsage(food)
	require.NoError(t, err)
	assertMoney(t, "40.00", usage.Spent)
	assertMoney(t, "260.00", usage.Remaining)

	usage, err = f.b.BudgetUsage(owner)
	require.NoError(t, err)
	assertMoney(t, "70.00", usage.Spent)
	assertMoney(t, "430.00", usage.Remaining)
	assert.Equal(t, date(2026, 11, 1), usage.End)
}

func TestBudgetUsage_ClockOutsideUTC(t *testing.T) {
	eastern := time.FixedZone("EST", -5*60*60)
	b := New(model.User{ID: 1, Name: "Ana"}, WithClock(func() time.Time {
		return time.Date(2024, 3, 10, 9, 0, 0, 0, eastern)
	}))
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("100")))
	owner, err := b.CreateBudget(dec("500"), model.Monthly, nil)
	require.NoError(t, err)
	_, err = b.RecordTransaction(model.NewExpense(date(2024, 3, 1), dec("40"), &cash))
	require.NoError(t, err)
	_, err = b.RecordTransaction(model.NewExpense(date(2024, 4, 1), dec("7"), &cash))
	require.NoError(t, err)

	usage, err := b.BudgetUsage(owner)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 1), usage.Start)
	assert.Equal(t, date(2024, 4, 1), usage.End)
	assertMoney(t, "40.00", usage.Spent)
}

func TestToday_LateEveningWestOfUTC(t *testing.T) {
	pacific := time.FixedZone("PST", -8*60*60)
	b := New(model.User{ID: 1, Name: "Ana"}, WithClock(func() time.Time {
		return time.Date(2024, 3, 31, 23, 30, 0, 0, pacific)
	}))
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("100")))
	lent := mustCreate(t, b, accounts.Lending("Tom", "Tom", dec("50")))

	id, err := b.CollectLending(lent, dec("20"), &cash, time.Time{})
	require.NoError(t, err)
	tx, err := b.Transaction(id)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 31), tx.Date)
}

func TestSnapshotRestore(t *testing.T) {
	f := newBudgetFixture(t)
	card := mustCreate(t, f.b, accounts.CreditCard("Visa", decimal.Zero, dec("2000"), decimal.Zero))
	_, err := f.b.AddInstallmentPlan(card, model.InstallmentPlan{
		TotalAmount: dec("1200"), TotalPeriods: 12, FeeRate: dec("0.06"), FeeStrategy: model.Upfront,
	})
	require.NoError(t, err)
	_, err = f.b.CreateBudget(dec("500"), model.Monthly, nil)
	require.NoError(t, err)
	f.spend(t, date(2026, 10, 10), "40", f.groceries)

	snap := f.b.Snapshot()
	restored, err := Restore(snap, WithClock(func() time.Time { return today }))
	require.NoError(t, err)

	assert.Equal(t, snap, restored.Snapshot())
	assertMoney(t, f.b.Totals().NetAssets.StringFixed(2), restored.Totals().NetAssets)

	id, err := restored.CreateLedger("Travel")
	require.NoError(t, err)
	assert.Equal(t, model.LedgerID(snap.NextID+1), id)
}

func TestHasReference(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("10")))
	tx := model.NewExpense(today, dec("3"), &cash)
	tx.Reference = "chase_20261016_COFFEE"
	id, err := b.RecordTransaction(tx)
	require.NoError(t, err)

	assert.True(t, b.HasReference("chase_20261016_COFFEE"))
	assert.False(t, b.HasReference("chase_20261016_COFFEE#2"))
	assert.False(t, b.HasReference(""))

	restored, err := Restore(b.Snapshot())
	require.NoError(t, err)
	assert.True(t, restored.HasReference("chase_20261016_COFFEE"))

	require.NoError(t, b.DeleteTransaction(id))
	assert.False(t, b.HasReference("chase_20261016_COFFEE"))
}

func TestRestore_DanglingReference(t *testing.T) {
	b := newBook()
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("10")))
	_, err := b.RecordTransaction(model.NewIncome(today, dec("5"), &cash))
	require.NoError(t, err)

	snap := b.Snapshot()
	snap.Transactions[0].To = model.Ptr(model.AccountID(42))
	_, err = Restore(snap)
	require.ErrorIs(t, err, model.ErrNotFound)

	snap.Version = 7
	_, err = Restore(snap)
	require.Error(t, err)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := newBook(WithLogger(zap.New(core)))
	cash := mustCreate(t, b, accounts.Basic("Cash", dec("10")))

	_, err := b.RecordTransaction(model.NewExpense(today, dec("5"), &cash))
	require.NoError(t, err)
	_, err = b.RecordTransaction(model.NewExpense(today, dec("50"), &cash))
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("transaction recorded").Len())
	rejected := logs.FilterMessage("operation rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.InfoLevel, rejected[0].Level)
	assert.Equal(t, "record transaction", rejected[0].ContextMap()["op"])
}
