package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Veraticus/ledger/internal/api"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func txns(ids ...string) []model.Transaction {
	out := make([]model.Transaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Transaction{"id": id})
	}
	return out
}

func TestNewStoreInitialState(t *testing.T) {
	s := New("u1", NewMockFetcher(), nil)

	snap := s.Snapshot()
	assert.NotNil(t, snap.Transactions)
	assert.Empty(t, snap.Transactions)
	assert.Equal(t, model.Summary{}, snap.Summary)
	assert.True(t, snap.IsLoading)
	assert.Equal(t, "u1", s.UserID())
}

func TestLoadWithoutUserIsNoop(t *testing.T) {
	fetcher := NewMockFetcher()
	s := New("", fetcher, nil, WithLogger(quietLogger()))

	s.Load(context.Background())
	s.FetchTransactions(context.Background())
	s.FetchSummary(context.Background())

	assert.True(t, s.IsLoading(), "loading flag must be untouched")
	assert.Empty(t, fetcher.ListCalls())
	assert.Empty(t, fetcher.SummaryCalls())
}

func TestLoadEmptyUser(t *testing.T) {
	s := New("u1", NewMockFetcher(), nil, WithLogger(quietLogger()))

	s.Load(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, []model.Transaction{}, snap.Transactions)
	assert.Equal(t, model.Summary{}, snap.Summary)
	assert.False(t, snap.IsLoading)
}

func TestLoadReplacesStateWholesale(t *testing.T) {
	fetcher := NewMockFetcher()
	s := New("u1", fetcher, nil, WithLogger(quietLogger()))

	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns("1", "2", "3"), nil
	}
	fetcher.GetSummaryFn = func(context.Context, string) (model.Summary, error) {
		return model.Summary{Balance: 30, Income: 50, Expenses: 20}, nil
	}
	s.Load(context.Background())
	require.Len(t, s.Transactions(), 3)

	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns("3"), nil
	}
	s.Load(context.Background())

	assert.Equal(t, txns("3"), s.Transactions())
	assert.Equal(t, model.Summary{Balance: 30, Income: 50, Expenses: 20}, s.Summary())
	assert.Equal(t, []string{"u1", "u1"}, fetcher.ListCalls())
	assert.Equal(t, []string{"u1", "u1"}, fetcher.SummaryCalls())
}

func TestFetchFailuresKeepPreviousState(t *testing.T) {
	var logs bytes.Buffer
	fetcher := NewMockFetcher()
	s := New("u1", fetcher, nil, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns("1"), nil
	}
	fetcher.GetSummaryFn = func(context.Context, string) (model.Summary, error) {
		return model.Summary{Balance: 5}, nil
	}
	s.Load(context.Background())

	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return nil, &common.HTTPError{StatusCode: http.StatusInternalServerError, Body: "oops"}
	}
	fetcher.GetSummaryFn = func(context.Context, string) (model.Summary, error) {
		return model.Summary{}, &common.ParseError{Raw: "<html>"}
	}
	s.Load(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, txns("1"), snap.Transactions)
	assert.Equal(t, model.Summary{Balance: 5}, snap.Summary)
	assert.False(t, snap.IsLoading)
	assert.Contains(t, logs.String(), "Error fetching transactions")
	assert.Contains(t, logs.String(), "Error fetching summary")
}

func TestPartialFailure(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return nil, &common.TransportError{Op: http.MethodGet, URL: "x", Err: errors.New("refused")}
	}
	fetcher.GetSummaryFn = func(context.Context, string) (model.Summary, error) {
		return model.Summary{Income: 9}, nil
	}
	s := New("u1", fetcher, nil, WithLogger(quietLogger()))

	s.Load(context.Background())

	assert.Empty(t, s.Transactions())
	assert.Equal(t, model.Summary{Income: 9}, s.Summary())
	assert.False(t, s.IsLoading())
}

func TestLoadingFlagDuringLoad(t *testing.T) {
	for _, fail := range []bool{false, true} {
		name := "success"
		if fail {
			name = "failure"
		}
		t.Run(name, func(t *testing.T) {
			fetcher := NewMockFetcher()
			s := New("u1", fetcher, nil, WithLogger(quietLogger()))
			s.Load(context.Background())
			require.False(t, s.IsLoading())

			started := make(chan struct{}, 2)
			release := make(chan struct{})
			fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
				started <- struct{}{}
				<-release
				if fail {
					return nil, errors.New("boom")
				}
				return txns("1"), nil
			}
			fetcher.GetSummaryFn = func(context.Context, string) (model.Summary, error) {
				started <- struct{}{}
				<-release
				if fail {
					return model.Summary{}, errors.New("boom")
				}
				return model.Summary{Balance: 1}, nil
			}

			done := make(chan struct{})
			go func() {
				s.Load(context.Background())
				close(done)
			}()

			// Both fetches are in flight at the same time.
			<-started
			<-started
			assert.True(t, s.IsLoading())

			close(release)
			<-done
			assert.False(t, s.IsLoading())
		})
	}
}

func TestSubscribe(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns("1"), nil
	}
	s := New("u1", fetcher, nil, WithLogger(quietLogger()))

	var mu sync.Mutex
	var snaps []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		snaps = append(snaps, snap)
		mu.Unlock()
	})

	s.Load(context.Background())

	mu.Lock()
	require.NotEmpty(t, snaps)
	assert.True(t, snaps[0].IsLoading)
	last := snaps[len(snaps)-1]
	count := len(snaps)
	mu.Unlock()

	assert.False(t, last.IsLoading)
	assert.Equal(t, txns("1"), last.Transactions)

	unsubscribe()
	s.Load(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, snaps, count)
}

func TestTransactionsReturnsCopy(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns("1", "2"), nil
	}
	s := New("u1", fetcher, nil, WithLogger(quietLogger()))
	s.Load(context.Background())

	got := s.Transactions()
	got[0] = model.Transaction{"id": "changed"}

	assert.Equal(t, "1", s.Transactions()[0].ID())
}

func TestDeleteTransactionSuccess(t *testing.T) {
	fetcher := NewMockFetcher()
	recorder := notify.NewRecorder(nil)
	s := New("u1", fetcher, recorder, WithLogger(quietLogger()))

	s.DeleteTransaction(context.Background(), "17")

	assert.Equal(t, []string{"17"}, fetcher.DeleteCalls())
	assert.Len(t, fetcher.ListCalls(), 1, "exactly one refresh of transactions")
	assert.Len(t, fetcher.SummaryCalls(), 1, "exactly one refresh of summary")
	assert.Equal(t, []notify.Notification{
		{Title: notify.TitleSuccess, Message: "Transaction deleted successfully"},
	}, recorder.Notifications())
	assert.False(t, s.IsLoading())
}

func TestDeleteTransactionFailure(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.DeleteTransactionFn = func(context.Context, string) error {
		return &common.DeleteError{StatusCode: http.StatusNotFound, Body: "not found"}
	}
	recorder := notify.NewRecorder(nil)
	var logs bytes.Buffer
	s := New("u1", fetcher, recorder, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	s.DeleteTransaction(context.Background(), "17")

	assert.Empty(t, fetcher.ListCalls())
	assert.Empty(t, fetcher.SummaryCalls())
	assert.Contains(t, logs.String(), "transaction_id=17 status=404")
	assert.Equal(t, []notify.Notification{
		{Title: notify.TitleError, Message: "Failed to delete transaction"},
	}, recorder.Notifications())
}

func TestDeleteTransactionTransportFailure(t *testing.T) {
	fetcher := NewMockFetcher()
	cause := &common.TransportError{Op: http.MethodDelete, URL: "http://x/transactions/1", Err: errors.New("connection refused")}
	fetcher.DeleteTransactionFn = func(context.Context, string) error { return cause }
	recorder := notify.NewRecorder(nil)
	s := New("u1", fetcher, recorder, WithLogger(quietLogger()))

	s.DeleteTransaction(context.Background(), "1")

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, notify.TitleError, last.Title)
	assert.Equal(t, cause.Error(), last.Message)
	assert.Empty(t, fetcher.ListCalls())
}

func TestLoadTwiceIsStable(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns("1", "2"), nil
	}
	fetcher.GetSummaryFn = func(context.Context, string) (model.Summary, error) {
		return model.Summary{Balance: 3, Income: 4, Expenses: 1}, nil
	}

	once := New("u1", fetcher, nil, WithLogger(quietLogger()))
	once.Load(context.Background())

	twice := New("u1", fetcher, nil, WithLogger(quietLogger()))
	twice.Load(context.Background())
	twice.Load(context.Background())

	assert.Equal(t, once.Transactions(), twice.Transactions())
	assert.Equal(t, once.Summary(), twice.Summary())
}

// Overlapping loads are not serialized; the later completion wins. With an
// unchanged upstream both completions carry the same data, so the final state
// is the same regardless of ordering.
func TestOverlappingLoads(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns("1"), nil
	}
	s := New("u1", fetcher, nil, WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, txns("1"), s.Transactions())
	assert.False(t, s.IsLoading())
	assert.Len(t, fetcher.ListCalls(), 2)
}

func TestStoreAgainstHTTPService(t *testing.T) {
	var deleted atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /transactions/summary/u1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"total_balance": 100, "income": 50, "total_expenses": 20}`)
	})
	mux.HandleFunc("GET /transactions/u1", func(w http.ResponseWriter, _ *http.Request) {
		if deleted.Load() {
			_, _ = io.WriteString(w, `[{"id":2}]`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	})
	mux.HandleFunc("DELETE /transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "Transaction not found")
			return
		}
		deleted.Store(true)
		_, _ = io.WriteString(w, `{"message":"Transaction deleted successfully"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := api.NewClient(server.URL, api.WithLogger(quietLogger()))
	require.NoError(t, err)

	recorder := notify.NewRecorder(nil)
	s := New("u1", client, recorder, WithLogger(quietLogger()))

	s.Load(context.Background())
	assert.Len(t, s.Transactions(), 2)
	assert.Equal(t, model.Summary{Balance: 100, Income: 50, Expenses: 20}, s.Summary())

	s.DeleteTransaction(context.Background(), "99")
	s.DeleteTransaction(context.Background(), "1")

	assert.Len(t, s.Transactions(), 1)
	assert.Equal(t, []notify.Notification{
		{Title: notify.TitleError, Message: "Failed to delete transaction"},
		{Title: notify.TitleSuccess, Message: "Transaction deleted successfully"},
	}, recorder.Notifications())
}

func TestDeleteAlertIsCapitalized(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "delete refused", err: &common.DeleteError{StatusCode: http.StatusBadRequest}, want: "Failed to delete transaction"},
		{name: "already capitalized", err: errors.New("Gateway down"), want: "Gateway down"},
		{name: "empty message", err: errors.New(""), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := NewMockFetcher()
			fetcher.DeleteTransactionFn = func(context.Context, string) error { return tt.err }
			recorder := notify.NewRecorder(nil)
			s := New("u1", fetcher, recorder, WithLogger(quietLogger()))

			s.DeleteTransaction(context.Background(), "1")

			last, ok := recorder.Last()
			require.True(t, ok)
			assert.Equal(t, notify.TitleError, last.Title)
			assert.Equal(t, tt.want, last.Message)
		})
	}
}

func TestLoadRecoversFromFetchPanic(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		panic("decoder blew up")
	}
	fetcher.GetSummaryFn = func(context.Context, string) (model.Summary, error) {
		return model.Summary{Balance: 5}, nil
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	s := New("u1", fetcher, nil, WithLogger(logger))

	require.NotPanics(t, func() { s.Load(context.Background()) })

	assert.False(t, s.IsLoading(), "loading flag is cleared after a panicking fetch")
	assert.Empty(t, s.Transactions())
	assert.Contains(t, logs.String(), "Error loading data")
	assert.Contains(t, logs.String(), "panic fetching transactions: decoder blew up")
}

func TestSubscribersSeeChangesInOrder(t *testing.T) {
	fetcher := NewMockFetcher()
	var n atomic.Int64
	fetcher.ListTransactionsFn = func(context.Context, string) ([]model.Transaction, error) {
		return txns(string(rune('a' + n.Add(1)%26))), nil
	}
	s := New("u1", fetcher, nil, WithLogger(quietLogger()))

	var mu sync.Mutex
	var last Snapshot
	s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		last = snap
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.FetchTransactions(context.Background())
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, s.Snapshot(), last, "the last delivered snapshot matches the final state")
}
