package notify

import (
	"bytes"
	"sync"
	"testing"

	"github.com/Veraticus/ledger/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalNotify(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf)

	n.Notify(TitleSuccess, "Transaction deleted successfully")
	n.Notify(TitleError, "Failed to delete transaction")
	n.Notify("Heads up", "Service is slow")

	out := buf.String()
	assert.Contains(t, out, cli.SuccessIcon+" Success: Transaction deleted successfully")
	assert.Contains(t, out, cli.ErrorIcon+" Error: Failed to delete transaction")
	assert.Contains(t, out, cli.InfoIcon+" Heads up: Service is slow")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestNewTerminalDefaultsToStdout(t *testing.T) {
	n := NewTerminal(nil)
	assert.NotNil(t, n.writer)
}

func TestRecorder(t *testing.T) {
	var forwarded []string
	r := NewRecorder(Func(func(title, _ string) {
		forwarded = append(forwarded, title)
	}))

	_, ok := r.Last()
	assert.False(t, ok)
	assert.False(t, r.Failed())

	r.Notify(TitleSuccess, "ok")
	r.Notify(TitleError, "boom")

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, Notification{Title: TitleError, Message: "boom"}, last)
	assert.True(t, r.Failed())
	assert.Equal(t, []string{TitleSuccess, TitleError}, forwarded)
	assert.Len(t, r.Notifications(), 2)
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Notify(TitleSuccess, "ok")
		}()
	}
	wg.Wait()

	assert.Len(t, r.Notifications(), 20)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Notify(TitleError, "ignored") })
}
