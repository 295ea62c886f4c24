// Package notify delivers user-visible alerts.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/Veraticus/ledger/internal/cli"
)

// Alert titles used by the store.
const (
	TitleSuccess = "Success"
	TitleError   = "Error"
)

// Notifier shows a titled message to the user. Implementations must not block.
type Notifier interface {
	Notify(title, message string)
}

// Func adapts a plain function to Notifier.
type Func func(title, message string)

// Notify calls f.
func (f Func) Notify(title, message string) {
	f(title, message)
}

// Discard drops every notification.
var Discard Notifier = Func(func(string, string) {})

// Terminal prints styled alerts to a writer.
type Terminal struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewTerminal creates a terminal notifier. A nil writer means stdout.
func NewTerminal(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stdout
	}
	return &Terminal{writer: w}
}

// Notify writes one line styled by title.
func (t *Terminal) Notify(title, message string) {
	line := fmt.Sprintf("%s: %s", title, message)
	switch title {
	case TitleError:
		line = cli.FormatError(line)
	case TitleSuccess:
		line = cli.FormatSuccess(line)
	default:
		line = cli.FormatInfo(line)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintln(t.writer, line); err != nil {
		slog.Warn("Failed to write notification", "error", err)
	}
}

// Notification is one recorded alert.
type Notification struct {
	Title   string
	Message string
}

// Recorder keeps every notification and optionally forwards it.
type Recorder struct {
	next          Notifier
	notifications []Notification
	mu            sync.Mutex
}

// NewRecorder creates a recorder forwarding to next (which may be nil).
func NewRecorder(next Notifier) *Recorder {
	return &Recorder{next: next}
}

// Notify records the alert and forwards it.
func (r *Recorder) Notify(title, message string) {
	r.mu.Lock()
	r.notifications = append(r.notifications, Notification{Title: title, Message: message})
	r.mu.Unlock()

	if r.next != nil {
		r.next.Notify(title, message)
	}
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// Failed reports whether any recorded alert was an error.
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.Title == TitleError {
			return true
		}
	}
	return false
}
