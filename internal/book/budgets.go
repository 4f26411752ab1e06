package book

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/budget"
	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// CreateBudget opens a budget for the window containing today. A nil
// category budgets the whole owner. Only one budget per scope and period
// may be active at a time.
func (b *Book) CreateBudget(amount decimal.Decimal, period model.BudgetPeriod, category *model.CategoryID) (model.BudgetID, error) {
	fields := []zap.Field{zap.Stringer("amount", amount), zap.String("period", string(period))}
	if !amount.IsPositive() {
		return 0, b.reject("create budget", model.ErrInvalidAmount, fields...)
	}
	if !period.Valid() {
		return 0, b.reject("create budget",
			&model.ValidationError{Field: "period", Message: fmt.Sprintf("unknown budget period %q", period)}, fields...)
	}
	if category != nil {
		if _, ok := b.categories[*category]; !ok {
			return 0, b.reject("create budget", fmt.Errorf("category %d: %w", *category, model.ErrNotFound), fields...)
		}
	}
	today := b.today()
	s := b.begin()
	bg := &model.Budget{
		ID:         model.BudgetID(s.newID()),
		OwnerID:    b.owner.ID,
		Amount:     money.Round(amount),
		Period:     period,
		CategoryID: category,
		StartDate:  budget.StartDateForPeriod(today, period),
	}
	if dup := budget.FindActive(sortedValues(b.budgets), bg, today); dup != nil {
		return 0, b.reject("create budget", fmt.Errorf("budget %d: %w", dup.ID, model.ErrDuplicateBudget), fields...)
	}
	s.budgets[bg.ID] = bg
	b.commit(s, "budget created", append(fields, zap.Int64("budget_id", int64(bg.ID)))...)
	return bg.ID, nil
}

// ActiveBudget returns the budget of the given scope and period that is
// active today, or nil.
func (b *Book) ActiveBudget(category *model.CategoryID, period model.BudgetPeriod) *model.Budget {
	probe := &model.Budget{OwnerID: b.owner.ID, Period: period, CategoryID: category}
	if found := budget.FindActive(sortedValues(b.budgets), probe, b.today()); found != nil {
		return shallow(found)
	}
	return nil
}

// Budget returns a copy of a budget.
func (b *Book) Budget(id model.BudgetID) (*model.Budget, error) {
	bg, ok := b.budgets[id]
	if !ok {
		return nil, fmt.Errorf("budget %d: %w", id, model.ErrNotFound)
	}
	return shallow(bg), nil
}

// Budgets returns copies of every budget ordered by ID.
func (b *Book) Budgets() []*model.Budget {
	return clones(sortedValues(b.budgets), shallow[model.Budget])
}

// MergeBudget folds the active child budgets into a budget once and returns
// the amount added.
func (b *Book) MergeBudget(id model.BudgetID) (decimal.Decimal, error) {
	fields := []zap.Field{zap.Int64("budget_id", int64(id))}
	s := b.begin()
	target, err := s.budget(id)
	if err != nil {
		return decimal.Zero, b.reject("merge budget", err, fields...)
	}
	added, err := budget.Merge(target, sortedValues(b.budgets), categoryIndex(b.categories), b.today())
	if err != nil {
		return decimal.Zero, b.reject("merge budget", err, fields...)
	}
	b.commit(s, "budget merged", append(fields, zap.Stringer("added", added))...)
	return added, nil
}

// BudgetUsage reports how much of a budget its window's expenses have used.
func (b *Book) BudgetUsage(id model.BudgetID) (budget.Usage, error) {
	bg, ok := b.budgets[id]
	if !ok {
		return budget.Usage{}, fmt.Errorf("budget %d: %w", id, model.ErrNotFound)
	}
	return budget.Spent(bg, sortedValues(b.transactions), categoryIndex(b.categories)), nil
}
