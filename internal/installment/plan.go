// Package installment computes the payment schedule of a credit-card installment plan.
//
// Periods are numbered from 1. The fee is TotalAmount*FeeRate and is spread
// across the plan according to its FeeStrategy.
package installment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// Installment is one row of a plan schedule.
type Installment struct {
	Period  int
	Payment decimal.Decimal
	Paid    bool
}

// Validate checks the plan terms.
func Validate(p *model.InstallmentPlan) error {
	if !p.TotalAmount.IsPositive() {
		return fmt.Errorf("total amount: %w", model.ErrInvalidAmount)
	}
	if p.TotalPeriods < 1 {
		return fmt.Errorf("total periods %d: %w", p.TotalPeriods, model.ErrPeriodOutOfRange)
	}
	if p.PaidPeriods < 0 || p.PaidPeriods > p.TotalPeriods {
		return fmt.Errorf("paid periods %d of %d: %w", p.PaidPeriods, p.TotalPeriods, model.ErrPeriodOutOfRange)
	}
	if p.FeeRate.IsNegative() {
		return &model.ValidationError{Field: "fee_rate", Message: "fee rate cannot be negative"}
	}
	if !p.FeeStrategy.Valid() {
		return &model.ValidationError{Field: "fee_strategy", Message: fmt.Sprintf("unknown fee strategy %q", p.FeeStrategy)}
	}
	return nil
}

// Fee is the total fee charged over the plan.
func Fee(p *model.InstallmentPlan) decimal.Decimal {
	return money.Round(p.TotalAmount.Mul(p.FeeRate))
}

// MonthlyPayment returns the payment due in period (1..TotalPeriods).
// Periods are 1-based, so an Upfront fee is charged with period 1; there is
// no separate period 0, and the fee stays in RemainingAmount until period 1
// is paid.
func MonthlyPayment(p *model.InstallmentPlan, period int) (decimal.Decimal, error) {
	if period < 1 || period > p.TotalPeriods {
		return decimal.Zero, fmt.Errorf("period %d of %d: %w", period, p.TotalPeriods, model.ErrPeriodOutOfRange)
	}
	return payment(p, period), nil
}

func payment(p *model.InstallmentPlan, period int) decimal.Decimal {
	periods := decimal.NewFromInt(int64(p.TotalPeriods))
	fee := Fee(p)
	base := money.DivRate(p.TotalAmount, periods)

	switch p.FeeStrategy {
	case model.Upfront:
		if period == 1 {
			return money.Round(base.Add(fee))
		}
	case model.Final:
		if period == p.TotalPeriods {
			return money.Round(base.Add(fee))
		}
	default:
		return money.Round(money.DivRate(p.TotalAmount.Add(fee), periods))
	}
	return money.Round(base)
}

// RemainingAmount sums the payments of every unpaid period.
func RemainingAmount(p *model.InstallmentPlan) decimal.Decimal {
	total := decimal.Zero
	for i := p.PaidPeriods + 1; i <= p.TotalPeriods; i++ {
		total = total.Add(payment(p, i))
	}
	return money.Round(total)
}

// TotalCost is what the whole plan costs, fee included.
func TotalCost(p *model.InstallmentPlan) decimal.Decimal {
	total := decimal.Zero
	for i := 1; i <= p.TotalPeriods; i++ {
		total = total.Add(payment(p, i))
	}
	return money.Round(total)
}

// Schedule lists every period of the plan.
func Schedule(p *model.InstallmentPlan) []Installment {
	rows := make([]Installment, 0, p.TotalPeriods)
	for i := 1; i <= p.TotalPeriods; i++ {
		rows = append(rows, Installment{Period: i, Payment: payment(p, i), Paid: i <= p.PaidPeriods})
	}
	return rows
}

// RepayOnePeriod marks the next period as paid and returns its payment.
func RepayOnePeriod(p *model.InstallmentPlan) (decimal.Decimal, error) {
	if p.PaidOff() {
		return decimal.Zero, fmt.Errorf("plan %d: %w", p.ID, model.ErrPlanPaidOff)
	}
	amount := payment(p, p.PaidPeriods+1)
	p.PaidPeriods++
	return amount, nil
}
