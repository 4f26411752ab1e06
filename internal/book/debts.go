package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// RepayBorrowing pays money owed on a borrowing account, optionally out of
// from, as a recorded transfer. The account ends once nothing is owed.
func (b *Book) RepayBorrowing(id model.AccountID, amount decimal.Decimal, from *model.AccountID, date time.Time) (model.TransactionID, error) {
	if err := b.expectKind(id, model.KindBorrowing); err != nil {
		return 0, b.reject("repay borrowing", err)
	}
	return b.RecordTransaction(model.NewTransfer(b.dateOr(date), amount, from, &id))
}

// CollectLending records money coming back on a lending account, optionally
// into to. The account ends once nothing is outstanding.
func (b *Book) CollectLending(id model.AccountID, amount decimal.Decimal, to *model.AccountID, date time.Time) (model.TransactionID, error) {
	if err := b.expectKind(id, model.KindLending); err != nil {
		return 0, b.reject("collect lending", err)
	}
	return b.RecordTransaction(model.NewTransfer(b.dateOr(date), amount, &id, to))
}

func (b *Book) expectKind(id model.AccountID, kind model.AccountKind) error {
	a, ok := b.accounts[id]
	if !ok {
		return fmt.Errorf("account %d: %w", id, model.ErrNotFound)
	}
	if a.Kind != kind {
		return fmt.Errorf("%s account %d is not a %s account: %w", a.Kind, id, kind, model.ErrUnsupportedOperation)
	}
	return nil
}

func (b *Book) dateOr(d time.Time) time.Time {
	if d.IsZero() {
		return b.today()
	}
	return d
}
