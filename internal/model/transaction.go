package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags a transaction variant.
type TransactionKind string

const (
	Income   TransactionKind = "income"
	Expense  TransactionKind = "expense"
	Transfer TransactionKind = "transfer"
)

// Effect is the exact change a transaction applied to one account.
// Deleting the transaction subtracts these deltas again.
type Effect struct {
	Account AccountID       `yaml:"account"`
	Balance decimal.Decimal `yaml:"balance"`
	Debt    decimal.Decimal `yaml:"debt,omitempty"`
}

// Transaction is a recorded balance-affecting event.
type Transaction struct {
	ID         TransactionID   `yaml:"id"`
	Kind       TransactionKind `yaml:"kind"`
	Date       time.Time       `yaml:"date"`
	Amount     decimal.Decimal `yaml:"amount"`
	Note       string          `yaml:"note,omitempty"`
	Reference  string          `yaml:"reference,omitempty"`
	From       *AccountID      `yaml:"from,omitempty"`
	To         *AccountID      `yaml:"to,omitempty"`
	LedgerID   *LedgerID       `yaml:"ledger,omitempty"`
	CategoryID *CategoryID     `yaml:"category,omitempty"`
	Effects    []Effect        `yaml:"effects,omitempty"`
}

// NewIncome builds an income into to. It applies nothing until recorded.
func NewIncome(date time.Time, amount decimal.Decimal, to *AccountID) Transaction {
	return Transaction{Kind: Income, Date: date, Amount: amount, To: to}
}

// NewExpense builds an expense paid from from.
func NewExpense(date time.Time, amount decimal.Decimal, from *AccountID) Transaction {
	return Transaction{Kind: Expense, Date: date, Amount: amount, From: from}
}

// NewTransfer builds a transfer between two accounts; either side may be nil.
func NewTransfer(date time.Time, amount decimal.Decimal, from, to *AccountID) Transaction {
	return Transaction{Kind: Transfer, Date: date, Amount: amount, From: from, To: to}
}

// Validate enforces the per-variant shape of a transaction.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return invalid("date", "date is required")
	}
	switch t.Kind {
	case Income:
		if t.From != nil {
			return invalid("from", "income cannot have a source account")
		}
	case Expense:
		if t.To != nil {
			return invalid("to", "expense cannot have a destination account")
		}
	case Transfer:
		if t.From == nil && t.To == nil {
			return invalid("from", "transfer needs at least one account")
		}
		if Equal(t.From, t.To) {
			return invalid("to", "transfer source and destination must differ")
		}
	default:
		return invalid("kind", "unknown transaction kind %q", t.Kind)
	}
	if t.CategoryID != nil && t.LedgerID == nil {
		return invalid("category", "a categorised transaction must belong to a ledger")
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Effects = slices.Clone(t.Effects)
	return &c
}
