package tui

import (
	"context"

	"github.com/Veraticus/ledger/internal/notify"
	"github.com/Veraticus/ledger/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// load runs a full refresh in the background.
func (m Model) load() tea.Cmd {
	source, ctx := m.source, m.ctx
	return func() tea.Msg {
		source.Load(ctx)
		return loadFinishedMsg{}
	}
}

// deleteTransaction deletes one transaction; the store refreshes and notifies.
func (m Model) deleteTransaction(id string) tea.Cmd {
	source, ctx := m.source, m.ctx
	return func() tea.Msg {
		source.DeleteTransaction(ctx, id)
		return deleteFinishedMsg{transactionID: id}
	}
}

// waitForSnapshot blocks until the store publishes new state.
func waitForSnapshot(ch <-chan store.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snapshot: snap}
	}
}

// waitForNotice blocks until the store raises a notification.
func waitForNotice(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{notice: n}
	}
}

// publishLatest delivers snap, replacing an undelivered older snapshot.
func publishLatest(ch chan store.Snapshot, snap store.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Source is the state holder the UI renders and drives.
type Source interface {
	Snapshot() store.Snapshot
	Subscribe(fn func(store.Snapshot)) func()
	Load(ctx context.Context)
	DeleteTransaction(ctx context.Context, transactionID string)
	UserID() string
}
