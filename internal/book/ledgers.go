package book

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// CreateLedger adds an empty ledger.
func (b *Book) CreateLedger(name string) (model.LedgerID, error) {
	if name == "" {
		return 0, b.reject("create ledger", &model.ValidationError{Field: "name", Message: "ledger name is required"})
	}
	s := b.begin()
	l := &model.Ledger{ID: model.LedgerID(s.newID()), OwnerID: b.owner.ID, Name: name}
	s.ledgers[l.ID] = l
	b.commit(s, "ledger created", zap.Int64("ledger_id", int64(l.ID)), zap.String("name", name))
	return l.ID, nil
}

// CreateCategory adds a category to a ledger. A parent makes it a subcategory;
// the parent must be a top-level category of the same ledger and kind.
func (b *Book) CreateCategory(ledgerID model.LedgerID, name string, kind model.CategoryKind, parent *model.CategoryID) (model.CategoryID, error) {
	fields := []zap.Field{zap.Int64("ledger_id", int64(ledgerID)), zap.String("name", name)}
	if name == "" {
		return 0, b.reject("create category", &model.ValidationError{Field: "name", Message: "category name is required"}, fields...)
	}
	if kind != model.CategoryIncome && kind != model.CategoryExpense {
		return 0, b.reject("create category",
			&model.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown category kind %q", kind)}, fields...)
	}
	s := b.begin()
	l, err := s.ledger(ledgerID)
	if err != nil {
		return 0, b.reject("create category", err, fields...)
	}
	if parent != nil {
		p, ok := b.categories[*parent]
		switch {
		case !ok:
			return 0, b.reject("create category", fmt.Errorf("parent category %d: %w", *parent, model.ErrNotFound), fields...)
		case p.LedgerID != ledgerID, p.Kind != kind, !p.TopLevel():
			return 0, b.reject("create category",
				&model.ValidationError{Field: "parent", Message: "parent must be a top-level category of the same ledger and kind"}, fields...)
		}
	}
	c := &model.Category{ID: model.CategoryID(s.newID()), LedgerID: ledgerID, Name: name, Kind: kind, ParentID: parent}
	l.Categories = append(l.Categories, c.ID)
	s.categories[c.ID] = c
	b.commit(s, "category created", append(fields, zap.Int64("category_id", int64(c.ID)))...)
	return c.ID, nil
}

// Ledger returns a copy of a ledger.
func (b *Book) Ledger(id model.LedgerID) (*model.Ledger, error) {
	l, ok := b.ledgers[id]
	if !ok {
		return nil, fmt.Errorf("ledger %d: %w", id, model.ErrNotFound)
	}
	return l.Clone(), nil
}

// Ledgers returns copies of every ledger ordered by ID.
func (b *Book) Ledgers() []*model.Ledger {
	return clones(sortedValues(b.ledgers), (*model.Ledger).Clone)
}

// Category returns a copy of a category.
func (b *Book) Category(id model.CategoryID) (*model.Category, error) {
	c, ok := b.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, model.ErrNotFound)
	}
	return c.Clone(), nil
}

// Categories returns copies of the categories of a ledger ordered by ID.
func (b *Book) Categories(ledgerID model.LedgerID) []*model.Category {
	var out []*model.Category
	for _, c := range sortedValues(b.categories) {
		if c.LedgerID == ledgerID {
			out = append(out, c.Clone())
		}
	}
	return out
}
