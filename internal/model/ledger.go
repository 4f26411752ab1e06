package model

import "slices"

// CategoryKind separates income from expense categories.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

// Ledger is a named container of transactions and categories.
type Ledger struct {
	ID           LedgerID        `yaml:"id"`
	OwnerID      UserID          `yaml:"owner_id"`
	Name         string          `yaml:"name"`
	Transactions []TransactionID `yaml:"transactions,omitempty"`
	Categories   []CategoryID    `yaml:"categories,omitempty"`
}

// Clone returns a deep copy of l.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.Transactions = slices.Clone(l.Transactions)
	c.Categories = slices.Clone(l.Categories)
	return &c
}

// Category is a two-level classification inside a ledger.
type Category struct {
	ID           CategoryID      `yaml:"id"`
	LedgerID     LedgerID        `yaml:"ledger"`
	Name         string          `yaml:"name"`
	Kind         CategoryKind    `yaml:"kind"`
	ParentID     *CategoryID     `yaml:"parent,omitempty"`
	Transactions []TransactionID `yaml:"transactions,omitempty"`
}

// TopLevel reports whether c has no parent.
func (c *Category) TopLevel() bool { return c.ParentID == nil }

// Clone returns a deep copy of c.
func (c *Category) Clone() *Category {
	cc := *c
	cc.Transactions = slices.Clone(c.Transactions)
	return &cc
}
