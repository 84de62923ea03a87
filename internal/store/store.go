// Package store implements the application state: a single source of truth
// for transactions, categories, budgets, goals and recurring templates.
// Every mutation is a pure reduction to a fresh snapshot, and every snapshot
// is persisted to the durable blob store after it becomes current.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"accountable/internal/core"
	applog "accountable/internal/log"
	"accountable/internal/storage"
)

// ChangePublisher is notified after a snapshot has been persisted. It is
// best-effort: failures are logged and never fail the mutation.
type ChangePublisher interface {
	PublishChange(ctx context.Context, kind string) error
}

// Store owns the canonical state. Construct one at process start and pass
// the handle to every consumer; there is no ambient singleton.
type Store struct {
	mu        sync.RWMutex
	state     State
	blob      storage.Blob
	logger    *applog.Logger
	publisher ChangePublisher

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher attaches a change publisher.
func WithPublisher(p ChangePublisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(blob storage.Blob, logger *applog.Logger, opts ...Option) *Store {
	s := &Store{
		state:  DefaultState(),
		blob:   blob,
		logger: logger.WithComponent(applog.ComponentStore),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load rehydrates the state from the persisted snapshot, if one exists.
// A missing snapshot keeps the defaults; a corrupt one falls back to the
// defaults with a logged warning, since there is no recovery path.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.blob.Get(ctx, storage.DataKey)
	if err == storage.ErrNotFound {
		s.logger.InfoContext(ctx, "no persisted snapshot, starting from defaults")
		return nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot read failed, starting from defaults", applog.FieldError, err)
		return nil
	}

	next := DefaultState()
	if err := json.Unmarshal(raw, &next); err != nil {
		s.logger.WarnContext(ctx, "snapshot parse failed, starting from defaults", applog.FieldError, err)
		return nil
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "snapshot loaded",
		"transactions", len(next.Transactions),
		"categories", len(next.Categories))
	return nil
}

// dispatch reduces and then persists. The in-memory state is the source of
// truth for the session: a failed persist is logged but the reduction stands.
// The lock is held across the blob write so concurrent dispatches cannot
// persist snapshots out of order; the blob always holds the latest reduction.
func (s *Store) dispatch(ctx context.Context, a Action, kind string) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	raw, err := json.Marshal(s.state)
	if err != nil {
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "snapshot encode failed", applog.FieldAction, kind, applog.FieldError, err)
		return
	}
	err = s.blob.Set(ctx, storage.DataKey, raw)
	s.mu.Unlock()

	if err != nil {
		s.logger.WarnContext(ctx, "snapshot persist failed, state kept in memory",
			applog.FieldAction, kind, applog.FieldError, err)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishChange(ctx, kind); err != nil {
			s.logger.WarnContext(ctx, "change publish failed", applog.FieldAction, kind, applog.FieldError, err)
		}
	}
}

// AddTransaction assigns a fresh id and creation timestamp to the draft and
// prepends it. The draft is re-validated here even though the caller should
// have done so already.
func (s *Store) AddTransaction(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	draft.ID = core.NewID()
	draft.CreatedAt = s.now()
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.dispatch(ctx, AddTransaction{Transaction: draft}, "transaction.add")
	return draft, nil
}

// UpdateTransaction replaces the transaction with the matching id wholesale.
// An unknown id is a no-op, not an error.
func (s *Store) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.dispatch(ctx, UpdateTransaction{Transaction: tx}, "transaction.update")
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.dispatch(ctx, DeleteTransaction{ID: id}, "transaction.delete")
}

func (s *Store) AddCategory(ctx context.Context, draft core.Category) (core.Category, error) {
	draft.ID = core.NewID()
	if err := draft.Validate(); err != nil {
		return core.Category{}, err
	}
	s.dispatch(ctx, AddCategory{Category: draft}, "category.add")
	return draft, nil
}

// DeleteCategory removes the category and reassigns every transaction that
// referenced it to the fallback category, as one reduction.
func (s *Store) DeleteCategory(ctx context.Context, id string) {
	s.dispatch(ctx, DeleteCategory{ID: id}, "category.delete")
}

func (s *Store) UpdateBudget(ctx context.Context, monthly, yearly *float64) {
	s.dispatch(ctx, UpdateBudget{Monthly: monthly, Yearly: yearly}, "budget.update")
}

func (s *Store) SetTheme(ctx context.Context, theme string) {
	s.dispatch(ctx, SetTheme{Theme: theme}, "theme.set")
}

func (s *Store) AddGoal(ctx context.Context, draft core.Goal) (core.Goal, error) {
	draft.ID = core.NewID()
	draft.CreatedAt = s.now()
	if err := draft.Validate(); err != nil {
		return core.Goal{}, err
	}
	s.dispatch(ctx, AddGoal{Goal: draft}, "goal.add")
	return draft, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.dispatch(ctx, UpdateGoal{Goal: g}, "goal.update")
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) {
	s.dispatch(ctx, DeleteGoal{ID: id}, "goal.delete")
}

func (s *Store) AddRecurring(ctx context.Context, draft core.RecurringTransaction) (core.RecurringTransaction, error) {
	draft.ID = core.NewID()
	if err := draft.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	s.dispatch(ctx, AddRecurring{Recurring: draft}, "recurring.add")
	return draft, nil
}

func (s *Store) UpdateRecurring(ctx context.Context, r core.RecurringTransaction) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.dispatch(ctx, UpdateRecurring{Recurring: r}, "recurring.update")
	return nil
}

func (s *Store) DeleteRecurring(ctx context.Context, id string) {
	s.dispatch(ctx, DeleteRecurring{ID: id}, "recurring.delete")
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.state.Transactions...)
}

func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.state.Categories...)
}

func (s *Store) Budgets() core.Budgets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Budgets
}

func (s *Store) Goals() []core.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Goal(nil), s.state.Goals...)
}

func (s *Store) Recurring() []core.RecurringTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.RecurringTransaction(nil), s.state.Recurring...)
}

func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Theme
}
