// Package budget implements budget windows, the active-budget rule and merging
// of child budgets into a parent.
package budget

import (
	"time"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// StartDateForPeriod returns the first day of the window containing today:
// the first of the month for monthly budgets, January 1 for yearly ones.
// Windows start at UTC midnight of today's calendar date, matching the dates
// transactions carry.
func StartDateForPeriod(today time.Time, p model.BudgetPeriod) time.Time {
	y, m, _ := today.Date()
	if p == model.Yearly {
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// EndDate returns the exclusive end of a window starting at start.
func EndDate(start time.Time, p model.BudgetPeriod) time.Time {
	if p == model.Yearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

// IsInPeriod reports whether date falls before the end of b's window.
func IsInPeriod(b *model.Budget, date time.Time) bool {
	return date.Before(EndDate(b.StartDate, b.Period))
}

// IsActive reports whether b's window contains today.
func IsActive(b *model.Budget, today time.Time) bool {
	return !today.Before(b.StartDate) && IsInPeriod(b, today)
}

// SameScope reports whether a and b cover the same owner, category and period.
func SameScope(a, b *model.Budget) bool {
	return a.OwnerID == b.OwnerID && a.Period == b.Period && model.Equal(a.CategoryID, b.CategoryID)
}

// FindActive returns the active budget matching the scope of probe, or nil.
func FindActive(budgets []*model.Budget, probe *model.Budget, today time.Time) *model.Budget {
	for _, b := range budgets {
		if b.ID != probe.ID && SameScope(b, probe) && IsActive(b, today) {
			return b
		}
	}
	return nil
}
