// Package amortization computes loan repayment schedules and tracks repayment progress.
package amortization

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

var one = decimal.NewFromInt(1)

// Terms are the inputs of a schedule.
type Terms struct {
	Principal  decimal.Decimal
	Periods    int
	AnnualRate decimal.Decimal // percent
	Type       model.RepaymentType
}

// TermsOf extracts the schedule inputs of a loan.
func TermsOf(l *model.LoanDetail) Terms {
	return Terms{
		Principal:  l.LoanAmount,
		Periods:    l.TotalPeriods,
		AnnualRate: l.AnnualInterestRate,
		Type:       l.RepaymentType,
	}
}

// Validate checks the terms.
func (t Terms) Validate() error {
	if !t.Principal.IsPositive() {
		return fmt.Errorf("loan amount: %w", model.ErrInvalidAmount)
	}
	if t.Periods < 1 {
		return fmt.Errorf("total periods %d: %w", t.Periods, model.ErrPeriodOutOfRange)
	}
	if t.AnnualRate.IsNegative() {
		return &model.ValidationError{Field: "annual_interest_rate", Message: "rate cannot be negative"}
	}
	if !t.Type.Valid() {
		return &model.ValidationError{Field: "repayment_type", Message: fmt.Sprintf("unknown repayment type %q", t.Type)}
	}
	return nil
}

// MonthlyRate is AnnualRate/100/12.
func (t Terms) MonthlyRate() decimal.Decimal {
	return money.MonthlyRate(t.AnnualRate)
}

// MonthlyRepayment returns the payment due in period (1..Periods).
func (t Terms) MonthlyRepayment(period int) (decimal.Decimal, error) {
	if period < 1 || period > t.Periods {
		return decimal.Zero, fmt.Errorf("period %d of %d: %w", period, t.Periods, model.ErrPeriodOutOfRange)
	}
	return t.payment(period), nil
}

func (t Terms) payment(period int) decimal.Decimal {
	p := t.Principal
	n := decimal.NewFromInt(int64(t.Periods))
	r := t.MonthlyRate()

	if r.IsZero() {
		return money.Round(money.DivRate(p, n))
	}

	switch t.Type {
	case model.EqualPrincipal:
		principal := money.DivRate(p, n)
		outstanding := p.Sub(principal.Mul(decimal.NewFromInt(int64(period - 1))))
		return money.Round(principal.Add(outstanding.Mul(r)))
	case model.EqualPrincipalAndInterest:
		total := p.Add(p.Mul(r).Mul(n))
		return money.Round(money.DivRate(total, n))
	case model.InterestBeforePrincipal:
		interest := p.Mul(r)
		if period == t.Periods {
			return money.Round(p.Add(interest))
		}
		return money.Round(interest)
	default:
		growth := money.PowInt(one.Add(r), t.Periods)
		return money.Round(p.Mul(r).Mul(growth).DivRound(growth.Sub(one), money.RatePlaces))
	}
}

// TotalRepayment is the sum of every period payment.
func (t Terms) TotalRepayment() decimal.Decimal {
	return t.RemainingAfter(0)
}

// TotalInterest is TotalRepayment minus the principal.
func (t Terms) TotalInterest() decimal.Decimal {
	return money.Round(t.TotalRepayment().Sub(t.Principal))
}

// RemainingAfter sums the payments of periods repaid+1..Periods.
func (t Terms) RemainingAfter(repaid int) decimal.Decimal {
	total := decimal.Zero
	for i := repaid + 1; i <= t.Periods; i++ {
		total = total.Add(t.payment(i))
	}
	return money.Round(total)
}

// WholePeriodsCovered counts how many upcoming periods, starting after
// repaid, amount pays in full. It stops at the first period whose cumulative
// cost would exceed amount.
func (t Terms) WholePeriodsCovered(repaid int, amount decimal.Decimal) int {
	count := 0
	spent := decimal.Zero
	for i := repaid + 1; i <= t.Periods; i++ {
		next := spent.Add(t.payment(i))
		if next.GreaterThan(amount) {
			break
		}
		spent = next
		count++
	}
	return count
}

// Period is one row of a repayment schedule.
type Period struct {
	Number    int
	Payment   decimal.Decimal
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Remaining decimal.Decimal // total still owed after this payment
}

// Schedule lists every period with its principal/interest split.
func (t Terms) Schedule() []Period {
	rows := make([]Period, 0, t.Periods)
	r := t.MonthlyRate()
	outstanding := t.Principal
	remaining := t.TotalRepayment()
	for i := 1; i <= t.Periods; i++ {
		pay := t.payment(i)
		interest := t.interestPart(i, outstanding, r)
		principal := money.Round(pay.Sub(interest))
		if i == t.Periods {
			principal = money.Round(outstanding)
		}
		outstanding = outstanding.Sub(principal)
		remaining = remaining.Sub(pay)
		rows = append(rows, Period{
			Number:    i,
			Payment:   pay,
			Principal: principal,
			Interest:  interest,
			Remaining: money.Round(remaining),
		})
	}
	return rows
}

// interestPart follows the schedule's own interest rule: simple interest on
// the original principal for the flat schedules, on the outstanding balance
// otherwise.
func (t Terms) interestPart(period int, outstanding, r decimal.Decimal) decimal.Decimal {
	switch {
	case r.IsZero():
		return decimal.Zero
	case t.Type == model.EqualPrincipalAndInterest, t.Type == model.InterestBeforePrincipal:
		return money.Round(t.Principal.Mul(r))
	default:
		return money.Round(outstanding.Mul(r))
	}
}

// Repay advances the loan by one full period and returns the payment.
func Repay(l *model.LoanDetail) (decimal.Decimal, error) {
	if l.Status == model.LoanEnded || l.RepaidPeriods >= l.TotalPeriods {
		return decimal.Zero, model.ErrLoanRepaid
	}
	t := TermsOf(l)
	amount := t.payment(l.RepaidPeriods + 1)
	l.RepaidPeriods++
	l.RemainingAmount = money.Round(l.RemainingAmount.Sub(amount))
	CheckAndUpdateStatus(l)
	return amount, nil
}

// RepayAmount applies a partial repayment: whole periods covered by amount
// advance RepaidPeriods, and the full amount is taken off RemainingAmount.
// It returns the number of periods advanced. Amounts above RemainingAmount
// are refused and leave l untouched.
func RepayAmount(l *model.LoanDetail, amount decimal.Decimal) (int, error) {
	if !amount.IsPositive() {
		return 0, model.ErrInvalidAmount
	}
	if l.Status == model.LoanEnded {
		return 0, model.ErrLoanRepaid
	}
	amount = money.Round(amount)
	if amount.GreaterThan(l.RemainingAmount) {
		return 0, fmt.Errorf("repaying %s with %s outstanding: %w",
			amount.StringFixed(money.Places), l.RemainingAmount.StringFixed(money.Places), model.ErrExceedsOutstanding)
	}
	covered := TermsOf(l).WholePeriodsCovered(l.RepaidPeriods, amount)
	l.RepaidPeriods += covered
	l.RemainingAmount = money.Round(l.RemainingAmount.Sub(amount))
	CheckAndUpdateStatus(l)
	return covered, nil
}

// CheckAndUpdateStatus ends the loan once nothing remains.
func CheckAndUpdateStatus(l *model.LoanDetail) {
	if !l.RemainingAmount.IsPositive() {
		l.RemainingAmount = decimal.Zero
		l.Status = model.LoanEnded
	}
}
