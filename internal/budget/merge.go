package budget

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// Categories resolves category IDs.
type Categories interface {
	Category(id model.CategoryID) (*model.Category, bool)
}

// Level is the scope of a budget.
type Level int

const (
	LevelOwner Level = iota
	LevelCategory
	LevelSubcategory
)

// LevelOf classifies b by its category.
func LevelOf(b *model.Budget, cats Categories) (Level, error) {
	if b.CategoryID == nil {
		return LevelOwner, nil
	}
	c, ok := cats.Category(*b.CategoryID)
	if !ok {
		return 0, fmt.Errorf("category %d: %w", *b.CategoryID, model.ErrNotFound)
	}
	if c.TopLevel() {
		return LevelCategory, nil
	}
	return LevelSubcategory, nil
}

// Sources returns the active budgets that merge into target: top-level
// category budgets for an owner budget, subcategory budgets for a category budget.
func Sources(target *model.Budget, budgets []*model.Budget, cats Categories, today time.Time) ([]*model.Budget, error) {
	level, err := LevelOf(target, cats)
	if err != nil {
		return nil, err
	}
	if level == LevelSubcategory {
		return nil, fmt.Errorf("budget %d is a subcategory budget: %w", target.ID, model.ErrInvalidMerge)
	}

	var out []*model.Budget
	for _, b := range budgets {
		if b.ID == target.ID || b.CategoryID == nil || b.OwnerID != target.OwnerID || b.Period != target.Period {
			continue
		}
		if !IsActive(b, today) {
			continue
		}
		c, ok := cats.Category(*b.CategoryID)
		if !ok {
			continue
		}
		switch level {
		case LevelOwner:
			if c.TopLevel() {
				out = append(out, b)
			}
		case LevelCategory:
			if model.Equal(c.ParentID, target.CategoryID) {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// Merge adds the amounts of target's active child budgets to target.
// A target merges once; sources are left in place.
func Merge(target *model.Budget, budgets []*model.Budget, cats Categories, today time.Time) (decimal.Decimal, error) {
	if target.MergedAt != nil {
		return decimal.Zero, fmt.Errorf("budget %d merged on %s: %w",
			target.ID, target.MergedAt.Format("2006-01-02"), model.ErrAlreadyMerged)
	}
	sources, err := Sources(target, budgets, cats, today)
	if err != nil {
		return decimal.Zero, err
	}
	added := decimal.Zero
	for _, s := range sources {
		added = added.Add(s.Amount)
	}
	target.Amount = money.Round(target.Amount.Add(added))
	merged := today
	target.MergedAt = &merged
	return money.Round(added), nil
}
