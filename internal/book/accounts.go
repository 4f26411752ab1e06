package book

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/accounts"
	"github.com/cleared-dev/pocketbook/internal/model"
	"github.com/cleared-dev/pocketbook/internal/money"
)

// CreateAccount adds a non-loan account and returns its ID. Loans are opened
// with CreateLoan. The owner, ID and transaction links of a are overwritten.
func (b *Book) CreateAccount(a model.Account) (model.AccountID, error) {
	s := b.begin()
	c := a.Clone()
	c.ID = model.AccountID(s.newID())
	c.OwnerID = b.owner.ID
	c.Outgoing, c.Incoming = nil, nil
	if c.Category == "" {
		c.Category = model.DefaultCategory(c.Kind)
	}
	if err := validateNewAccount(c); err != nil {
		return 0, b.reject("create account", err, zap.String("name", a.Name))
	}
	c.Balance = money.Round(c.Balance)
	if c.Credit != nil {
		c.Credit.CurrentDebt = money.Round(c.Credit.CurrentDebt)
		c.Credit.Plans = nil
	}
	if c.Debt != nil {
		c.Debt.Ended = !c.Balance.IsPositive()
	}
	s.accounts[c.ID] = c
	b.commit(s, "account created",
		zap.Int64("account_id", int64(c.ID)), zap.String("kind", string(c.Kind)))
	return c.ID, nil
}

func validateNewAccount(a *model.Account) error {
	if a.Kind == model.KindLoan {
		return fmt.Errorf("loan accounts are opened with their terms: %w", model.ErrUnsupportedOperation)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Credit != nil {
		if a.Credit.CreditLimit.IsNegative() {
			return &model.ValidationError{Field: "credit_limit", Message: "credit limit cannot be negative"}
		}
		if a.Credit.CurrentDebt.IsNegative() {
			return &model.ValidationError{Field: "current_debt", Message: "current debt cannot be negative"}
		}
		if a.Credit.CurrentDebt.GreaterThan(a.Credit.CreditLimit) {
			return fmt.Errorf("opening debt %s: %w", a.Credit.CurrentDebt.StringFixed(2), model.ErrCreditLimitExceeded)
		}
	}
	return nil
}

// Account returns a copy of the account.
func (b *Book) Account(id model.AccountID) (*model.Account, error) {
	a, ok := b.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, model.ErrNotFound)
	}
	return a.Clone(), nil
}

// Accounts returns copies of every account ordered by ID.
func (b *Book) Accounts() []*model.Account {
	return clones(sortedValues(b.accounts), (*model.Account).Clone)
}

// Credit applies an inflow to the account outside any transaction.
func (b *Book) Credit(id model.AccountID, amount decimal.Decimal) error {
	return b.mutateAccount("credit", id, func(a *model.Account) error {
		_, err := accounts.Credit(a, amount)
		return err
	}, zap.Stringer("amount", amount))
}

// Debit applies an outflow to the account outside any transaction.
func (b *Book) Debit(id model.AccountID, amount decimal.Decimal) error {
	return b.mutateAccount("debit", id, func(a *model.Account) error {
		_, err := accounts.Debit(a, amount)
		return err
	}, zap.Stringer("amount", amount))
}

// Hide removes the account from every total.
func (b *Book) Hide(id model.AccountID) error {
	return b.mutateAccount("hide", id, func(a *model.Account) error {
		accounts.Hide(a)
		return nil
	})
}

// Unhide restores the account to the totals.
func (b *Book) Unhide(id model.AccountID) error {
	return b.mutateAccount("unhide", id, func(a *model.Account) error {
		accounts.Unhide(a)
		return nil
	})
}

// SetIncluded sets whether the account counts towards net assets.
func (b *Book) SetIncluded(id model.AccountID, included bool) error {
	return b.mutateAccount("set included", id, func(a *model.Account) error {
		accounts.SetIncluded(a, included)
		return nil
	}, zap.Bool("included", included))
}

// SetBalance overwrites the balance of a non-loan account.
func (b *Book) SetBalance(id model.AccountID, amount decimal.Decimal) error {
	return b.mutateAccount("set balance", id, func(a *model.Account) error {
		return accounts.SetBalance(a, amount)
	}, zap.Stringer("amount", amount))
}

func (b *Book) mutateAccount(op string, id model.AccountID, fn func(*model.Account) error, fields ...zap.Field) error {
	fields = append(fields, zap.Int64("account_id", int64(id)))
	s := b.begin()
	a, err := s.account(id)
	if err != nil {
		return b.reject(op, err, fields...)
	}
	if err := fn(a); err != nil {
		return b.reject(op, err, fields...)
	}
	b.commit(s, op, fields...)
	return nil
}

// debitSource takes amount out of a repayment source account.
// Basic sources must hold the full amount.
func (s *stage) debitSource(source *model.AccountID, amount decimal.Decimal) error {
	if source == nil || !amount.IsPositive() {
		return nil
	}
	a, err := s.account(*source)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := accounts.CheckFunds(a, amount); err != nil {
		return err
	}
	_, err = accounts.Debit(a, amount)
	return err
}
