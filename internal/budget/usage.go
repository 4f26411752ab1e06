package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// Usage is how much of a budget has been spent in its window.
type Usage struct {
	Budget    model.BudgetID
	Start     time.Time
	End       time.Time
	Amount    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// InScope reports whether an expense categorised as cat counts against b.
func InScope(b *model.Budget, cat *model.CategoryID, cats Categories) bool {
	if b.CategoryID == nil {
		return true
	}
	if cat == nil {
		return false
	}
	if *cat == *b.CategoryID {
		return true
	}
	c, ok := cats.Category(*cat)
	return ok && model.Equal(c.ParentID, b.CategoryID)
}

// Spent sums the expenses inside b's window that fall in its scope.
func Spent(b *model.Budget, txns []*model.Transaction, cats Categories) Usage {
	end := EndDate(b.StartDate, b.Period)
	spent := decimal.Zero
	for _, tx := range txns {
		if tx.Kind != model.Expense || tx.Date.Before(b.StartDate) || !tx.Date.Before(end) {
			continue
		}
		if InScope(b, tx.CategoryID, cats) {
			spent = spent.Add(tx.Amount)
		}
	}
	return Usage{
		Budget:    b.ID,
		Start:     b.StartDate,
		End:       end,
		Amount:    b.Amount,
		Spent:     money.Round(spent),
		Remaining: money.Round(b.Amount.Sub(spent)),
	}
}
