package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStrategy decides which periods carry the installment fee.
type FeeStrategy string

const (
	EvenlySplit FeeStrategy = "evenly_split"
	Upfront     FeeStrategy = "upfront"
	Final       FeeStrategy = "final"
)

// Valid reports whether s is a known strategy.
func (s FeeStrategy) Valid() bool {
	switch s {
	case EvenlySplit, Upfront, Final:
		return true
	}
	return false
}

// InstallmentPlan is a purchase on a credit account split into fixed periods.
type InstallmentPlan struct {
	ID            PlanID          `yaml:"id"`
	CreditAccount AccountID       `yaml:"credit_account"`
	Description   string          `yaml:"description,omitempty"`
	TotalAmount   decimal.Decimal `yaml:"total_amount"`
	TotalPeriods  int             `yaml:"total_periods"`
	FeeRate       decimal.Decimal `yaml:"fee_rate"`
	PaidPeriods   int             `yaml:"paid_periods"`
	FeeStrategy   FeeStrategy     `yaml:"fee_strategy"`
	StartDate     time.Time       `yaml:"start_date"`
}

// PaidOff reports whether every period has been repaid.
func (p *InstallmentPlan) PaidOff() bool {
	return p.PaidPeriods >= p.TotalPeriods
}
