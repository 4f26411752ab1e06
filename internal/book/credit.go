package book

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/installment"
	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

func (s *stage) creditAccount(id model.AccountID) (*model.Account, error) {
	a, err := s.account(id)
	if err != nil {
		return nil, err
	}
	if a.Kind != model.KindCredit {
		return nil, fmt.Errorf("%s account %d carries no credit debt: %w", a.Kind, id, model.ErrUnsupportedOperation)
	}
	return a, nil
}

// RepayDebt reduces the current debt of a credit account by amount, taking it
// from source when given. Over-repayment leaves a negative debt.
func (b *Book) RepayDebt(creditID model.AccountID, amount decimal.Decimal, source *model.AccountID) error {
	fields := []zap.Field{zap.Int64("account_id", int64(creditID)), zap.Stringer("amount", amount)}
	if !amount.IsPositive() {
		return b.reject("repay debt", model.ErrInvalidAmount, fields...)
	}
	if model.Equal(source, &creditID) {
		return b.reject("repay debt", &model.ValidationError{Field: "source", Message: "a card cannot repay itself"}, fields...)
	}
	amount = money.Round(amount)
	s := b.begin()
	a, err := s.creditAccount(creditID)
	if err != nil {
		return b.reject("repay debt", err, fields...)
	}
	a.Credit.CurrentDebt = money.Round(a.Credit.CurrentDebt.Sub(amount))
	if err := s.debitSource(source, amount); err != nil {
		return b.reject("repay debt", err, fields...)
	}
	b.commit(s, "debt repaid", fields...)
	return nil
}

// AddInstallmentPlan attaches p to a credit account and books its unpaid
// remainder as debt. The ID and account of p are assigned here.
func (b *Book) AddInstallmentPlan(creditID model.AccountID, p model.InstallmentPlan) (model.PlanID, error) {
	fields := []zap.Field{zap.Int64("account_id", int64(creditID))}
	if err := installment.Validate(&p); err != nil {
		return 0, b.reject("add installment plan", err, fields...)
	}
	s := b.begin()
	a, err := s.creditAccount(creditID)
	if err != nil {
		return 0, b.reject("add installment plan", err, fields...)
	}
	p.ID = model.PlanID(s.newID())
	p.CreditAccount = creditID
	p.TotalAmount = money.Round(p.TotalAmount)
	if p.StartDate.IsZero() {
		p.StartDate = b.today()
	}
	a.Credit.Plans = append(a.Credit.Plans, p.ID)
	a.Credit.CurrentDebt = money.Round(a.Credit.CurrentDebt.Add(installment.RemainingAmount(&p)))
	s.plans[p.ID] = &p
	b.commit(s, "installment plan added", append(fields, zap.Int64("plan_id", int64(p.ID)))...)
	return p.ID, nil
}

// RemoveInstallmentPlan detaches a plan and takes its unpaid remainder off the debt.
func (b *Book) RemoveInstallmentPlan(id model.PlanID) error {
	fields := []zap.Field{zap.Int64("plan_id", int64(id))}
	s := b.begin()
	p, err := s.plan(id)
	if err != nil {
		return b.reject("remove installment plan", err, fields...)
	}
	a, err := s.creditAccount(p.CreditAccount)
	if err != nil {
		return b.reject("remove installment plan", err, fields...)
	}
	a.Credit.Plans = slices.DeleteFunc(a.Credit.Plans, func(pid model.PlanID) bool { return pid == id })
	a.Credit.CurrentDebt = money.Round(a.Credit.CurrentDebt.Sub(installment.RemainingAmount(p)))
	s.dropPlans = append(s.dropPlans, id)
	b.commit(s, "installment plan removed", fields...)
	return nil
}

// RepayInstallmentPlan pays the next period of a plan and returns the payment.
func (b *Book) RepayInstallmentPlan(id model.PlanID, source *model.AccountID) (decimal.Decimal, error) {
	fields := []zap.Field{zap.Int64("plan_id", int64(id))}
	s := b.begin()
	p, err := s.plan(id)
	if err != nil {
		return decimal.Zero, b.reject("repay installment plan", err, fields...)
	}
	if model.Equal(source, &p.CreditAccount) {
		return decimal.Zero, b.reject("repay installment plan",
			&model.ValidationError{Field: "source", Message: "a card cannot repay itself"}, fields...)
	}
	a, err := s.creditAccount(p.CreditAccount)
	if err != nil {
		return decimal.Zero, b.reject("repay installment plan", err, fields...)
	}
	payment, err := installment.RepayOnePeriod(p)
	if err != nil {
		return decimal.Zero, b.reject("repay installment plan", err, fields...)
	}
	a.Credit.CurrentDebt = money.Round(a.Credit.CurrentDebt.Sub(payment))
	if err := s.debitSource(source, payment); err != nil {
		return decimal.Zero, b.reject("repay installment plan", err, fields...)
	}
	b.commit(s, "installment repaid",
		append(fields, zap.Stringer("payment", payment), zap.Int("paid_periods", p.PaidPeriods))...)
	return payment, nil
}

// Plan returns a copy of an installment plan.
func (b *Book) Plan(id model.PlanID) (*model.InstallmentPlan, error) {
	p, ok := b.plans[id]
	if !ok {
		return nil, fmt.Errorf("installment plan %d: %w", id, model.ErrNotFound)
	}
	return shallow(p), nil
}

// Plans returns copies of the plans attached to a credit account, in ID order.
func (b *Book) Plans(creditID model.AccountID) []*model.InstallmentPlan {
	var out []*model.InstallmentPlan
	for _, p := range sortedValues(b.plans) {
		if p.CreditAccount == creditID {
			out = append(out, shallow(p))
		}
	}
	return out
}
