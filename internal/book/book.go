// Package book is the accounting engine. A Book owns every account,
// transaction, ledger, category, budget and installment plan of one owner,
// addressed by typed IDs.
//
// Each exported mutating method is one command: it stages clones of whatever
// it touches, validates and mutates the clones, and commits them together
// with a single recomputation of the owner totals. A failing command leaves
// the book exactly as it was.
//
// A Book is not safe for concurrent use; callers serialise mutations per owner.
package book

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/aggregate"
	"github.com/cleared-dev/pocketbook/internal/model"
)

// Book is the in-memory object graph of one owner.
type Book struct {
	owner        model.User
	nextID       int64
	accounts     map[model.AccountID]*model.Account
	transactions map[model.TransactionID]*model.Transaction
	ledgers      map[model.LedgerID]*model.Ledger
	categories   map[model.CategoryID]*model.Category
	budgets      map[model.BudgetID]*model.Budget
	plans        map[model.PlanID]*model.InstallmentPlan

	totals aggregate.Options
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Book.
type Option func(*Book)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Book) { b.logger = l }
}

// WithClock sets the source of "today" used by budgets and defaults.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithTotals sets the aggregate options used by every recomputation.
func WithTotals(o aggregate.Options) Option {
	return func(b *Book) { b.totals = o }
}

// New returns an empty book for owner.
func New(owner model.User, opts ...Option) *Book {
	b := &Book{
		owner:        owner,
		accounts:     make(map[model.AccountID]*model.Account),
		transactions: make(map[model.TransactionID]*model.Transaction),
		ledgers:      make(map[model.LedgerID]*model.Ledger),
		categories:   make(map[model.CategoryID]*model.Category),
		budgets:      make(map[model.BudgetID]*model.Budget),
		plans:        make(map[model.PlanID]*model.InstallmentPlan),
		totals:       aggregate.DefaultOptions(),
		now:          time.Now,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.recompute()
	return b
}

// Owner returns a copy of the owner with its current totals.
func (b *Book) Owner() model.User {
	return b.owner
}

// Totals returns the owner totals.
func (b *Book) Totals() aggregate.Totals {
	return aggregate.Totals{
		Assets:      b.owner.TotalAssets,
		Liabilities: b.owner.TotalLiabilities,
		Lending:     b.owner.TotalLending,
		NetAssets:   b.owner.NetAssets,
	}
}

// recompute is the only writer of the owner totals.
func (b *Book) recompute() {
	aggregate.Apply(&b.owner, aggregate.Compute(sortedValues(b.accounts), b.totals))
}

// today is the clock's calendar date at UTC midnight, the form transaction
// dates and budget windows use.
func (b *Book) today() time.Time {
	y, m, d := b.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// reject logs a refused command and returns err wrapped with the operation name.
func (b *Book) reject(op string, err error, fields ...zap.Field) error {
	b.logger.Info("operation rejected", append(fields, zap.String("op", op), zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, err)
}

// stage holds the clones touched by one command.
type stage struct {
	b          *Book
	nextID     int64
	accounts   map[model.AccountID]*model.Account
	ledgers    map[model.LedgerID]*model.Ledger
	categories map[model.CategoryID]*model.Category
	budgets    map[model.BudgetID]*model.Budget
	plans      map[model.PlanID]*model.InstallmentPlan
	txns       map[model.TransactionID]*model.Transaction
	dropTxns   []model.TransactionID
	dropPlans  []model.PlanID
}

func (b *Book) begin() *stage {
	return &stage{
		b:          b,
		nextID:     b.nextID,
		accounts:   make(map[model.AccountID]*model.Account),
		ledgers:    make(map[model.LedgerID]*model.Ledger),
		categories: make(map[model.CategoryID]*model.Category),
		budgets:    make(map[model.BudgetID]*model.Budget),
		plans:      make(map[model.PlanID]*model.InstallmentPlan),
		txns:       make(map[model.TransactionID]*model.Transaction),
	}
}

// commit publishes every staged change and recomputes the totals once.
func (b *Book) commit(s *stage, msg string, fields ...zap.Field) {
	maps.Copy(b.accounts, s.accounts)
	maps.Copy(b.ledgers, s.ledgers)
	maps.Copy(b.categories, s.categories)
	maps.Copy(b.budgets, s.budgets)
	maps.Copy(b.plans, s.plans)
	maps.Copy(b.transactions, s.txns)
	for _, id := range s.dropTxns {
		delete(b.transactions, id)
	}
	for _, id := range s.dropPlans {
		delete(b.plans, id)
	}
	b.nextID = s.nextID
	b.recompute()
	b.logger.Debug(msg, fields...)
}

func (s *stage) newID() int64 {
	s.nextID++
	return s.nextID
}

// touch returns the staged clone of id, cloning the committed value on first use.
func touch[K ~int64, V any](staged, committed map[K]*V, id K, clone func(*V) *V, what string) (*V, error) {
	if v, ok := staged[id]; ok {
		return v, nil
	}
	v, ok := committed[id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", what, id, model.ErrNotFound)
	}
	c := clone(v)
	staged[id] = c
	return c, nil
}

func (s *stage) account(id model.AccountID) (*model.Account, error) {
	return touch(s.accounts, s.b.accounts, id, (*model.Account).Clone, "account")
}

func (s *stage) ledger(id model.LedgerID) (*model.Ledger, error) {
	return touch(s.ledgers, s.b.ledgers, id, (*model.Ledger).Clone, "ledger")
}

func (s *stage) category(id model.CategoryID) (*model.Category, error) {
	return touch(s.categories, s.b.categories, id, (*model.Category).Clone, "category")
}

func (s *stage) txn(id model.TransactionID) (*model.Transaction, error) {
	return touch(s.txns, s.b.transactions, id, (*model.Transaction).Clone, "transaction")
}

func (s *stage) plan(id model.PlanID) (*model.InstallmentPlan, error) {
	return touch(s.plans, s.b.plans, id, shallow[model.InstallmentPlan], "installment plan")
}

func (s *stage) budget(id model.BudgetID) (*model.Budget, error) {
	return touch(s.budgets, s.b.budgets, id, shallow[model.Budget], "budget")
}

func shallow[V any](v *V) *V {
	c := *v
	return &c
}

// categoryIndex lets read-only helpers resolve categories.
type categoryIndex map[model.CategoryID]*model.Category

func (c categoryIndex) Category(id model.CategoryID) (*model.Category, bool) {
	v, ok := c[id]
	return v, ok
}

func sortedValues[K cmp.Ordered, V any](m map[K]*V) []*V {
	out := make([]*V, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out
}

func clones[V any](in []*V, clone func(*V) *V) []*V {
	out := make([]*V, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}
