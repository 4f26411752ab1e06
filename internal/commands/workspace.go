package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/pocketbook/internal/aggregate"
	"github.com/cleared-dev/pocketbook/internal/book"
	"github.com/cleared-dev/pocketbook/internal/config"
	"github.com/cleared-dev/pocketbook/internal/logging"
	"github.com/cleared-dev/pocketbook/internal/store"
)

// app carries the state shared by every command of one invocation.
type app struct {
	home string
	now  func() time.Time
}

// workspace is a loaded book together with its configuration.
type workspace struct {
	home   string
	cfg    *config.Config
	book   *book.Book
	logger *zap.Logger
}

func (a *app) open() (*workspace, error) {
	cfg, err := config.Load(filepath.Join(a.home, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading workspace %s: %w", a.home, err)
	}
	lg, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	snap, err := store.Load(cfg.BookPath(a.home))
	if err != nil {
		return nil, err
	}
	b, err := book.Restore(snap, a.bookOptions(cfg, lg)...)
	if err != nil {
		return nil, fmt.Errorf("restoring book: %w", err)
	}
	return &workspace{home: a.home, cfg: cfg, book: b, logger: lg}, nil
}

func (a *app) bookOptions(cfg *config.Config, lg *zap.Logger) []book.Option {
	return []book.Option{
		book.WithLogger(lg),
		book.WithClock(a.now),
		book.WithTotals(aggregate.Options{LendingAddBack: cfg.NetAssets.LendingAddBack}),
	}
}

// read runs fn against the workspace without saving.
func (a *app) read(fn func(w *workspace) error) error {
	w, err := a.open()
	if err != nil {
		return err
	}
	defer w.logger.Sync() //nolint:errcheck
	return fn(w)
}

// mutate runs fn and saves the book only when fn succeeds.
func (a *app) mutate(fn func(w *workspace) error) error {
	w, err := a.open()
	if err != nil {
		return err
	}
	defer w.logger.Sync() //nolint:errcheck
	if err := fn(w); err != nil {
		return err
	}
	return w.save()
}

func (w *workspace) save() error {
	if err := store.Save(w.cfg.BookPath(w.home), w.book.Snapshot()); err != nil {
		return err
	}
	w.logger.Debug("book saved", zap.String("path", w.cfg.BookPath(w.home)))
	return nil
}

func (w *workspace) money(d decimal.Decimal) string {
	return formatMoney(d, w.cfg.Currency)
}
