package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind is the closed set of account variants.
type AccountKind string

const (
	KindBasic     AccountKind = "basic"
	KindCredit    AccountKind = "credit"
	KindLoan      AccountKind = "loan"
	KindBorrowing AccountKind = "borrowing"
	KindLending   AccountKind = "lending"
)

// AccountKinds lists every variant in display order.
var AccountKinds = []AccountKind{KindBasic, KindCredit, KindLoan, KindBorrowing, KindLending}

// Valid reports whether k is a known variant.
func (k AccountKind) Valid() bool {
	return slices.Contains(AccountKinds, k)
}

// AccountCategory groups accounts for display. It has no effect on balances.
type AccountCategory string

const (
	CategoryFunds      AccountCategory = "funds"
	CategoryCredit     AccountCategory = "credit"
	CategoryRecharge   AccountCategory = "recharge"
	CategoryInvestment AccountCategory = "investment"
	CategoryDebt       AccountCategory = "debt"
	CategoryReceivable AccountCategory = "receivable"
)

// DefaultCategory returns the category an account of kind k gets when none is given.
func DefaultCategory(k AccountKind) AccountCategory {
	switch k {
	case KindCredit:
		return CategoryCredit
	case KindLoan, KindBorrowing:
		return CategoryDebt
	case KindLending:
		return CategoryReceivable
	default:
		return CategoryFunds
	}
}

// RepaymentType selects a loan amortization schedule.
type RepaymentType string

const (
	EqualInterest             RepaymentType = "equal_interest"
	EqualPrincipal            RepaymentType = "equal_principal"
	EqualPrincipalAndInterest RepaymentType = "equal_principal_and_interest"
	InterestBeforePrincipal   RepaymentType = "interest_before_principal"
)

// Valid reports whether t is a known schedule.
func (t RepaymentType) Valid() bool {
	switch t {
	case EqualInterest, EqualPrincipal, EqualPrincipalAndInterest, InterestBeforePrincipal:
		return true
	}
	return false
}

// LoanStatus is the loan lifecycle state. Ended is terminal.
type LoanStatus string

const (
	LoanActive LoanStatus = "active"
	LoanEnded  LoanStatus = "ended"
)

// CreditDetail holds the credit-card specific state.
// CurrentDebt is overdraft debt plus the unpaid remainder of every attached plan.
type CreditDetail struct {
	CreditLimit decimal.Decimal `yaml:"credit_limit"`
	CurrentDebt decimal.Decimal `yaml:"current_debt"`
	BillDay     *int            `yaml:"bill_day,omitempty"`
	DueDay      *int            `yaml:"due_day,omitempty"`
	Plans       []PlanID        `yaml:"plans,omitempty"`
}

// AvailableCredit is the credit limit minus current debt.
func (c *CreditDetail) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentDebt)
}

// LoanDetail holds the loan terms and repayment progress.
type LoanDetail struct {
	TotalPeriods        int             `yaml:"total_periods"`
	RepaidPeriods       int             `yaml:"repaid_periods"`
	AnnualInterestRate  decimal.Decimal `yaml:"annual_interest_rate"` // percent, 12 = 12%
	LoanAmount          decimal.Decimal `yaml:"loan_amount"`
	RepaymentType       RepaymentType   `yaml:"repayment_type"`
	RemainingAmount     decimal.Decimal `yaml:"remaining_amount"`
	DisbursementAccount *AccountID      `yaml:"disbursement_account,omitempty"`
	RepaymentDay        int             `yaml:"repayment_day,omitempty"`
	StartDate           time.Time       `yaml:"start_date"`
	Status              LoanStatus      `yaml:"status"`
}

// DebtDetail holds the counterparty of a borrowing or lending account.
type DebtDetail struct {
	Counterparty string `yaml:"counterparty,omitempty"`
	Ended        bool   `yaml:"ended"`
}

// Account is a balance holder. Exactly one of Credit, Loan, Debt is set, matching Kind;
// basic accounts carry none.
type Account struct {
	ID                  AccountID       `yaml:"id"`
	Name                string          `yaml:"name"`
	Kind                AccountKind     `yaml:"kind"`
	Category            AccountCategory `yaml:"category"`
	OwnerID             UserID          `yaml:"owner_id"`
	Balance             decimal.Decimal `yaml:"balance"`
	Note                string          `yaml:"note,omitempty"`
	Hidden              bool            `yaml:"hidden"`
	IncludedInNetAssets bool            `yaml:"included_in_net_assets"`
	Selectable          bool            `yaml:"selectable"`
	Outgoing            []TransactionID `yaml:"outgoing,omitempty"`
	Incoming            []TransactionID `yaml:"incoming,omitempty"`

	Credit *CreditDetail `yaml:"credit,omitempty"`
	Loan   *LoanDetail   `yaml:"loan,omitempty"`
	Debt   *DebtDetail   `yaml:"debt,omitempty"`
}

// Validate checks that the variant detail matches the kind.
func (a *Account) Validate() error {
	if a.Name == "" {
		return invalid("name", "account name is required")
	}
	if !a.Kind.Valid() {
		return ErrUnknownAccountKind
	}
	hasCredit, hasLoan, hasDebt := a.Credit != nil, a.Loan != nil, a.Debt != nil
	want := map[AccountKind][3]bool{
		KindBasic:     {false, false, false},
		KindCredit:    {true, false, false},
		KindLoan:      {false, true, false},
		KindBorrowing: {false, false, true},
		KindLending:   {false, false, true},
	}[a.Kind]
	if want != [3]bool{hasCredit, hasLoan, hasDebt} {
		return invalid("kind", "%s account has mismatched variant detail", a.Kind)
	}
	if a.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	if a.Kind == KindLoan && !a.Balance.IsZero() {
		return invalid("balance", "loan account balance must be zero")
	}
	return nil
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	c := *a
	c.Outgoing = slices.Clone(a.Outgoing)
	c.Incoming = slices.Clone(a.Incoming)
	if a.Credit != nil {
		cd := *a.Credit
		cd.Plans = slices.Clone(a.Credit.Plans)
		c.Credit = &cd
	}
	if a.Loan != nil {
		ld := *a.Loan
		c.Loan = &ld
	}
	if a.Debt != nil {
		dd := *a.Debt
		c.Debt = &dd
	}
	return &c
}

// Ended reports whether a borrowing/lending account is settled or a loan is repaid.
func (a *Account) Ended() bool {
	switch {
	case a.Debt != nil:
		return a.Debt.Ended
	case a.Loan != nil:
		return a.Loan.Status == LoanEnded
	}
	return false
}
