package tui

import (
	"log/slog"

	"github.com/Veraticus/ledger/internal/notify"
)

// Notifier forwards store notifications into the running program.
type Notifier struct {
	ch chan notify.Notification
}

// NewNotifier creates a notifier with room for a few pending alerts.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan notify.Notification, 8)}
}

// Notify queues an alert for the status bar. It never blocks; when the queue
// is full the alert is logged and dropped.
func (n *Notifier) Notify(title, message string) {
	select {
	case n.ch <- notify.Notification{Title: title, Message: message}:
	default:
		slog.Warn("Dropping notification, UI queue full", "title", title, "message", message)
	}
}

// C returns the channel the program reads alerts from.
func (n *Notifier) C() <-chan notify.Notification {
	return n.ch
}

var _ notify.Notifier = (*Notifier)(nil)
