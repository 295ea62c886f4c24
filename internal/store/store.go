// Package store holds a user's transactions and summary and keeps them in
// sync with the remote service.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/notify"
	"golang.org/x/sync/errgroup"
)

// Success message shown after a delete and the follow-up refresh.
const deletedMessage = "Transaction deleted successfully"

// Fetcher is the remote service as seen by the store.
type Fetcher interface {
	ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error)
	GetSummary(ctx context.Context, userID string) (model.Summary, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Transactions []model.Transaction
	Summary      model.Summary
	IsLoading    bool
}

// Store owns the transaction list, the summary and the loading flag for one user.
//
// Overlapping Load calls are not serialized: each sets and clears the loading
// flag on its own, and whichever fetch completes last determines the state.
// State changes are published to subscribers one at a time, in order.
type Store struct {
	fetcher      Fetcher
	notifier     notify.Notifier
	logger       *slog.Logger
	subscribers  map[int]func(Snapshot)
	userID       string
	transactions []model.Transaction
	summary      model.Summary
	nextSubID    int
	isLoading    bool
	mu           sync.RWMutex
	subMu        sync.Mutex
	pubMu        sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for swallowed read errors and delete failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store for userID. The store starts in the loading state.
func New(userID string, fetcher Fetcher, notifier notify.Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = notify.Discard
	}
	s := &Store{
		userID:       userID,
		fetcher:      fetcher,
		notifier:     notifier,
		logger:       slog.Default(),
		transactions: []model.Transaction{},
		isLoading:    true,
		subscribers:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("user_id", userID)

	return s
}

// UserID returns the user the store is scoped to.
func (s *Store) UserID() string {
	return s.userID
}

// Transactions returns a copy of the current transaction list.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTransactions(s.transactions)
}

// Summary returns the current summary.
func (s *Store) Summary() model.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// IsLoading reports whether a load is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Snapshot returns all state at once.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change, in
// the order the changes happened. fn is called synchronously from the
// goroutine that changed the state; it must not block and must not call the
// store's fetch, load or delete methods. The returned func removes the
// subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// FetchTransactions replaces the transaction list with the server's.
// Failures are logged and leave the current list in place.
func (s *Store) FetchTransactions(ctx context.Context) {
	if s.userID == "" {
		return
	}

	transactions, err := s.fetcher.ListTransactions(ctx, s.userID)
	if err != nil {
		s.logger.Error("Error fetching transactions", "error", err)
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}

	s.update(func() {
		s.transactions = transactions
	})
}

// FetchSummary replaces the summary with the server's normalized one.
// Failures are logged and leave the current summary in place.
func (s *Store) FetchSummary(ctx context.Context) {
	if s.userID == "" {
		return
	}

	summary, err := s.fetcher.GetSummary(ctx, s.userID)
	if err != nil {
		s.logger.Error("Error fetching summary", "error", err)
		return
	}

	s.update(func() {
		s.summary = summary
	})
}

// Load refreshes transactions and summary concurrently. The loading flag is
// set for the duration of the call and always cleared when it returns.
func (s *Store) Load(ctx context.Context) {
	if s.userID == "" {
		return
	}

	s.setLoading(true)
	defer s.setLoading(false)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverFetch("transactions", &err)
		s.FetchTransactions(gctx)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverFetch("summary", &err)
		s.FetchSummary(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Error loading data", "error", err)
	}
}

// DeleteTransaction deletes a transaction and refreshes everything on
// success. The outcome is reported through the notifier, never returned.
func (s *Store) DeleteTransaction(ctx context.Context, transactionID string) {
	s.logger.Debug("Deleting transaction", "transaction_id", transactionID)

	if err := s.fetcher.DeleteTransaction(ctx, transactionID); err != nil {
		s.logger.Error("Error deleting transaction",
			"transaction_id", transactionID,
			"status", common.StatusCode(err),
			"error", err)
		s.notifier.Notify(notify.TitleError, alertMessage(err))
		return
	}

	s.Load(ctx)
	s.notifier.Notify(notify.TitleSuccess, deletedMessage)
}

func (s *Store) setLoading(loading bool) {
	s.update(func() {
		s.isLoading = loading
	})
}

// update applies fn under the write lock and publishes the result.
func (s *Store) update(fn func()) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Transactions: copyTransactions(s.transactions),
		Summary:      s.summary,
		IsLoading:    s.isLoading,
	}
}

func copyTransactions(in []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(in))
	copy(out, in)
	return out
}

// recoverFetch turns a panic in a fetch goroutine into an error for the group.
func recoverFetch(what string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic fetching %s: %v", what, r)
	}
}

// alertMessage renders err for an alert: the error text, capitalized.
func alertMessage(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
