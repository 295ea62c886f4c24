package store

import (
	"context"
	"sync"

	"github.com/Veraticus/ledger/internal/model"
)

// MockFetcher is a mock implementation of Fetcher for testing.
type MockFetcher struct {
	// Functions that can be set by tests to control behavior
	ListTransactionsFn  func(ctx context.Context, userID string) ([]model.Transaction, error)
	GetSummaryFn        func(ctx context.Context, userID string) (model.Summary, error)
	DeleteTransactionFn func(ctx context.Context, transactionID string) error

	// Call tracking
	listCalls    []string
	summaryCalls []string
	deleteCalls  []string
	mu           sync.Mutex
}

// NewMockFetcher creates a new mock fetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

// ListTransactions implements Fetcher.ListTransactions.
func (m *MockFetcher) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, userID)
	fn := m.ListTransactionsFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, userID)
	}

	// Default behavior: return empty slice
	return []model.Transaction{}, nil
}

// GetSummary implements Fetcher.GetSummary.
func (m *MockFetcher) GetSummary(ctx context.Context, userID string) (model.Summary, error) {
	m.mu.Lock()
	m.summaryCalls = append(m.summaryCalls, userID)
	fn := m.GetSummaryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, userID)
	}

	return model.Summary{}, nil
}

// DeleteTransaction implements Fetcher.DeleteTransaction.
func (m *MockFetcher) DeleteTransaction(ctx context.Context, transactionID string) error {
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, transactionID)
	fn := m.DeleteTransactionFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, transactionID)
	}

	return nil
}

// ListCalls returns the user ids passed to ListTransactions.
func (m *MockFetcher) ListCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.listCalls...)
}

// SummaryCalls returns the user ids passed to GetSummary.
func (m *MockFetcher) SummaryCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.summaryCalls...)
}

// DeleteCalls returns the transaction ids passed to DeleteTransaction.
func (m *MockFetcher) DeleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleteCalls...)
}

// Reset clears all call tracking.
func (m *MockFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = nil
	m.summaryCalls = nil
	m.deleteCalls = nil
}

// Ensure MockFetcher implements Fetcher interface.
var _ Fetcher = (*MockFetcher)(nil)
