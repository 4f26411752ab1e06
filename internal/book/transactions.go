package book

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/accounts"
	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// RecordTransaction validates tx, applies it to its accounts and links it into
// every collection it belongs to. It is the only way a transaction takes effect.
func (b *Book) RecordTransaction(tx model.Transaction) (model.TransactionID, error) {
	s := b.begin()
	t := tx.Clone()
	t.ID = model.TransactionID(s.newID())
	if err := s.record(t); err != nil {
		return 0, b.reject("record transaction", err, zap.String("kind", string(tx.Kind)))
	}
	b.commit(s, "transaction recorded", txFields(t)...)
	return t.ID, nil
}

// DeleteTransaction reverses the effects of a transaction, unlinks it and drops it.
func (b *Book) DeleteTransaction(id model.TransactionID) error {
	fields := []zap.Field{zap.Int64("transaction_id", int64(id))}
	s := b.begin()
	t, err := s.txn(id)
	if err != nil {
		return b.reject("delete transaction", err, fields...)
	}
	if err := s.reverse(t); err != nil {
		return b.reject("delete transaction", err, fields...)
	}
	if err := s.unlink(t); err != nil {
		return b.reject("delete transaction", err, fields...)
	}
	s.dropTxns = append(s.dropTxns, id)
	b.commit(s, "transaction deleted", fields...)
	return nil
}

// EditTransaction replaces transaction id with tx, keeping its ID. The old
// effects are reversed before the new ones apply.
func (b *Book) EditTransaction(id model.TransactionID, tx model.Transaction) error {
	fields := []zap.Field{zap.Int64("transaction_id", int64(id))}
	s := b.begin()
	old, err := s.txn(id)
	if err != nil {
		return b.reject("edit transaction", err, fields...)
	}
	if err := s.reverse(old); err != nil {
		return b.reject("edit transaction", err, fields...)
	}
	if err := s.unlink(old); err != nil {
		return b.reject("edit transaction", err, fields...)
	}
	t := tx.Clone()
	t.ID = id
	if err := s.record(t); err != nil {
		return b.reject("edit transaction", err, fields...)
	}
	b.commit(s, "transaction edited", txFields(t)...)
	return nil
}

// Transaction returns a copy of a transaction.
func (b *Book) Transaction(id model.TransactionID) (*model.Transaction, error) {
	t, ok := b.transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", id, model.ErrNotFound)
	}
	return t.Clone(), nil
}

// HasReference reports whether a recorded transaction carries ref.
func (b *Book) HasReference(ref string) bool {
	if ref == "" {
		return false
	}
	for _, t := range b.transactions {
		if t.Reference == ref {
			return true
		}
	}
	return false
}

// Transactions returns copies of every transaction ordered by date, then ID.
func (b *Book) Transactions() []*model.Transaction {
	out := clones(sortedValues(b.transactions), (*model.Transaction).Clone)
	slices.SortStableFunc(out, byDate)
	return out
}

// AccountTransactions returns the transactions touching an account, ordered by date.
func (b *Book) AccountTransactions(id model.AccountID) ([]*model.Transaction, error) {
	a, ok := b.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, model.ErrNotFound)
	}
	ids := slices.Concat(a.Outgoing, a.Incoming)
	slices.Sort(ids)
	out := make([]*model.Transaction, 0, len(ids))
	for _, tid := range slices.Compact(ids) {
		if t, ok := b.transactions[tid]; ok {
			out = append(out, t.Clone())
		}
	}
	slices.SortStableFunc(out, byDate)
	return out, nil
}

func byDate(a, b *model.Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func txFields(t *model.Transaction) []zap.Field {
	return []zap.Field{
		zap.Int64("transaction_id", int64(t.ID)),
		zap.String("kind", string(t.Kind)),
		zap.Stringer("amount", t.Amount),
	}
}

// record validates, applies and links t, then stages it.
func (s *stage) record(t *model.Transaction) error {
	if err := s.validate(t); err != nil {
		return err
	}
	t.Amount = money.Round(t.Amount)
	if err := s.apply(t); err != nil {
		return err
	}
	if err := s.link(t); err != nil {
		return err
	}
	s.txns[t.ID] = t
	return nil
}

func (s *stage) validate(t *model.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidTransaction, err)
	}
	if t.LedgerID != nil {
		if _, err := s.ledger(*t.LedgerID); err != nil {
			return err
		}
	}
	if t.CategoryID == nil {
		return nil
	}
	c, err := s.category(*t.CategoryID)
	if err != nil {
		return err
	}
	if c.LedgerID != *t.LedgerID {
		return fmt.Errorf("%w: category %d belongs to ledger %d, not %d",
			model.ErrInvalidTransaction, c.ID, c.LedgerID, *t.LedgerID)
	}
	switch {
	case t.Kind == model.Income && c.Kind != model.CategoryIncome,
		t.Kind == model.Expense && c.Kind != model.CategoryExpense:
		return fmt.Errorf("%w: %s category %d on %s transaction",
			model.ErrInvalidTransaction, c.Kind, c.ID, t.Kind)
	}
	return nil
}

// apply debits the source then credits the destination, keeping the effects.
func (s *stage) apply(t *model.Transaction) error {
	t.Effects = nil
	if t.From != nil {
		a, err := s.account(*t.From)
		if err != nil {
			return err
		}
		if err := accounts.CheckFunds(a, t.Amount); err != nil {
			return err
		}
		eff, err := accounts.Debit(a, t.Amount)
		if err != nil {
			return err
		}
		t.Effects = append(t.Effects, eff)
	}
	if t.To != nil {
		a, err := s.account(*t.To)
		if err != nil {
			return err
		}
		eff, err := accounts.Credit(a, t.Amount)
		if err != nil {
			return err
		}
		t.Effects = append(t.Effects, eff)
	}
	return nil
}

// reverse undoes the effects of t, last first.
func (s *stage) reverse(t *model.Transaction) error {
	for _, eff := range slices.Backward(t.Effects) {
		a, err := s.account(eff.Account)
		if err != nil {
			return err
		}
		if err := accounts.Reverse(a, eff); err != nil {
			return err
		}
	}
	return nil
}

func (s *stage) link(t *model.Transaction) error {
	if t.From != nil {
		a, err := s.account(*t.From)
		if err != nil {
			return err
		}
		a.Outgoing = append(a.Outgoing, t.ID)
	}
	if t.To != nil {
		a, err := s.account(*t.To)
		if err != nil {
			return err
		}
		a.Incoming = append(a.Incoming, t.ID)
	}
	if t.LedgerID != nil {
		l, err := s.ledger(*t.LedgerID)
		if err != nil {
			return err
		}
		l.Transactions = append(l.Transactions, t.ID)
	}
	if t.CategoryID != nil {
		c, err := s.category(*t.CategoryID)
		if err != nil {
			return err
		}
		c.Transactions = append(c.Transactions, t.ID)
	}
	return nil
}

func (s *stage) unlink(t *model.Transaction) error {
	is := func(id model.TransactionID) bool { return id == t.ID }
	if t.From != nil {
		a, err := s.account(*t.From)
		if err != nil {
			return err
		}
		a.Outgoing = slices.DeleteFunc(a.Outgoing, is)
	}
	if t.To != nil {
		a, err := s.account(*t.To)
		if err != nil {
			return err
		}
		a.Incoming = slices.DeleteFunc(a.Incoming, is)
	}
	if t.LedgerID != nil {
		l, err := s.ledger(*t.LedgerID)
		if err != nil {
			return err
		}
		l.Transactions = slices.DeleteFunc(l.Transactions, is)
	}
	if t.CategoryID != nil {
		c, err := s.category(*t.CategoryID)
		if err != nil {
			return err
		}
		c.Transactions = slices.DeleteFunc(c.Transactions, is)
	}
	return nil
}
