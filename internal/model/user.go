package model

import "github.com/shopspring/decimal"

// User is the owner of a book. The totals are derived and only written by
// the book's recompute step.
type User struct {
	ID               UserID          `yaml:"id"`
	Name             string          `yaml:"name"`
	TotalAssets      decimal.Decimal `yaml:"total_assets"`
	TotalLiabilities decimal.Decimal `yaml:"total_liabilities"`
	TotalLending     decimal.Decimal `yaml:"total_lending"`
	NetAssets        decimal.Decimal `yaml:"net_assets"`
}

// Snapshot is the serialisable state of a book.
type Snapshot struct {
	Version      int               `yaml:"version"`
	NextID       int64             `yaml:"next_id"`
	Owner        User              `yaml:"owner"`
	Accounts     []Account         `yaml:"accounts"`
	Transactions []Transaction     `yaml:"transactions"`
	Ledgers      []Ledger          `yaml:"ledgers"`
	Categories   []Category        `yaml:"categories"`
	Budgets      []Budget          `yaml:"budgets"`
	Plans        []InstallmentPlan `yaml:"plans"`
}
