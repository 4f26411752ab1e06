package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the length of a budget window.
type BudgetPeriod string

const (
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known period.
func (p BudgetPeriod) Valid() bool {
	return p == Monthly || p == Yearly
}

// Budget caps spending for an owner, a category or a subcategory over one window.
// A nil CategoryID is a whole-owner budget.
type Budget struct {
	ID         BudgetID        `yaml:"id"`
	OwnerID    UserID          `yaml:"owner_id"`
	Amount     decimal.Decimal `yaml:"amount"`
	Period     BudgetPeriod    `yaml:"period"`
	CategoryID *CategoryID     `yaml:"category,omitempty"`
	StartDate  time.Time       `yaml:"start_date"`
	MergedAt   *time.Time      `yaml:"merged_at,omitempty"`
}
