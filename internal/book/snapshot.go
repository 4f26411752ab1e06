package book

import (
	"fmt"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// SnapshotVersion is the schema version written by Snapshot.
const SnapshotVersion = 1

// Snapshot returns a deep copy of the book's state.
func (b *Book) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Version: SnapshotVersion,
		NextID:  b.nextID,
		Owner:   b.owner,
	}
	for _, a := range sortedValues(b.accounts) {
		snap.Accounts = append(snap.Accounts, *a.Clone())
	}
	for _, t := range sortedValues(b.transactions) {
		snap.Transactions = append(snap.Transactions, *t.Clone())
	}
	for _, l := range sortedValues(b.ledgers) {
		snap.Ledgers = append(snap.Ledgers, *l.Clone())
	}
	for _, c := range sortedValues(b.categories) {
		snap.Categories = append(snap.Categories, *c.Clone())
	}
	for _, bg := range sortedValues(b.budgets) {
		snap.Budgets = append(snap.Budgets, *bg)
	}
	for _, p := range sortedValues(b.plans) {
		snap.Plans = append(snap.Plans, *p)
	}
	return snap
}

// Restore rebuilds a book from a snapshot. Every cross reference is checked
// and the owner totals are recomputed rather than trusted.
func Restore(snap model.Snapshot, opts ...Option) (*Book, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snap.Version, SnapshotVersion)
	}
	b := New(snap.Owner, opts...)
	maxID := int64(0)
	seen := func(id int64) error {
		if id <= 0 {
			return fmt.Errorf("id %d: %w", id, model.ErrNotFound)
		}
		maxID = max(maxID, id)
		return nil
	}

	for i := range snap.Accounts {
		a := snap.Accounts[i].Clone()
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("account %d: %w", a.ID, err)
		}
		if err := seen(int64(a.ID)); err != nil {
			return nil, err
		}
		b.accounts[a.ID] = a
	}
	for i := range snap.Ledgers {
		l := snap.Ledgers[i].Clone()
		if err := seen(int64(l.ID)); err != nil {
			return nil, err
		}
		b.ledgers[l.ID] = l
	}
	for i := range snap.Categories {
		c := snap.Categories[i].Clone()
		if err := seen(int64(c.ID)); err != nil {
			return nil, err
		}
		if _, ok := b.ledgers[c.LedgerID]; !ok {
			return nil, fmt.Errorf("category %d: ledger %d: %w", c.ID, c.LedgerID, model.ErrNotFound)
		}
		b.categories[c.ID] = c
	}
	for i := range snap.Transactions {
		t := snap.Transactions[i].Clone()
		if err := seen(int64(t.ID)); err != nil {
			return nil, err
		}
		if err := b.checkRefs(t); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		b.transactions[t.ID] = t
	}
	for i := range snap.Budgets {
		bg := snap.Budgets[i]
		if err := seen(int64(bg.ID)); err != nil {
			return nil, err
		}
		b.budgets[bg.ID] = &bg
	}
	for i := range snap.Plans {
		p := snap.Plans[i]
		if err := seen(int64(p.ID)); err != nil {
			return nil, err
		}
		if a, ok := b.accounts[p.CreditAccount]; !ok || a.Kind != model.KindCredit {
			return nil, fmt.Errorf("installment plan %d: credit account %d: %w", p.ID, p.CreditAccount, model.ErrNotFound)
		}
		b.plans[p.ID] = &p
	}
	b.nextID = max(snap.NextID, maxID)
	b.recompute()
	return b, nil
}

func (b *Book) checkRefs(t *model.Transaction) error {
	for _, id := range []*model.AccountID{t.From, t.To} {
		if id == nil {
			continue
		}
		if _, ok := b.accounts[*id]; !ok {
			return fmt.Errorf("account %d: %w", *id, model.ErrNotFound)
		}
	}
	if t.LedgerID != nil {
		if _, ok := b.ledgers[*t.LedgerID]; !ok {
			return fmt.Errorf("ledger %d: %w", *t.LedgerID, model.ErrNotFound)
		}
	}
	if t.CategoryID != nil {
		if _, ok := b.categories[*t.CategoryID]; !ok {
			return fmt.Errorf("category %d: %w", *t.CategoryID, model.ErrNotFound)
		}
	}
	return nil
}
