package tui

import (
	"github.com/Veraticus/ledger/internal/notify"
	"github.com/Veraticus/ledger/internal/store"
)

// snapshotMsg carries the store state after a change.
type snapshotMsg struct {
	snapshot store.Snapshot
}

// noticeMsg carries a notification raised by the store.
type noticeMsg struct {
	notice notify.Notification
}

// loadFinishedMsg is sent when a reload triggered from the UI returns.
type loadFinishedMsg struct{}

// deleteFinishedMsg is sent when a delete triggered from the UI returns.
type deleteFinishedMsg struct {
	transactionID string
}
