// Package tui renders a user's transactions and summary in the terminal and
// binds the reload and delete actions to keys.
package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/notify"
	"github.com/Veraticus/ledger/internal/store"
	"github.com/Veraticus/ledger/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Fixed column widths; the description column takes the rest.
const (
	idWidth       = 8
	dateWidth     = 10
	categoryWidth = 16
	amountWidth   = 12
	// header (1) + summary (1) + blank (1) + status bar (1) + borders (2)
	chromeHeight = 6
)

// Model holds the main TUI state.
type Model struct {
	ctx           context.Context
	source        Source
	notice        *notify.Notification
	snapshots     chan store.Snapshot
	notices       <-chan notify.Notification
	unsubscribe   func()
	pendingDelete string
	deleting      string
	config        Config
	theme         themes.Theme
	keymap        KeyMap
	snapshot      store.Snapshot
	table         table.Model
	spinner       spinner.Model
	help          help.Model
	width         int
	height        int
	quitting      bool
}

// New creates a model bound to source. notices may be nil when alerts are
// delivered elsewhere.
func New(ctx context.Context, source Source, notices <-chan notify.Notification, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	snapshots := make(chan store.Snapshot, 1)
	unsubscribe := source.Subscribe(func(snap store.Snapshot) {
		publishLatest(snapshots, snap)
	})

	keymap := DefaultKeyMap()

	t := table.New(
		table.WithColumns(columns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(max(cfg.Height-chromeHeight, 3)),
	)
	t.KeyMap = tableKeyMap(keymap)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(cfg.Theme.BorderedBox.GetBorderStyle()).
		BorderForeground(cfg.Theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(cfg.Theme.StatusInfo),
	)

	m := Model{
		ctx:         ctx,
		source:      source,
		snapshots:   snapshots,
		notices:     notices,
		unsubscribe: unsubscribe,
		config:      cfg,
		theme:       cfg.Theme,
		keymap:      keymap,
		table:       t,
		spinner:     spin,
		help:        help.New(),
		width:       cfg.Width,
		height:      cfg.Height,
	}
	m.applySnapshot(source.Snapshot())

	return m
}

// Init starts the first load and begins listening for store updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForSnapshot(m.snapshots),
		waitForNotice(m.notices),
		m.load(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(msg.snapshot)
		return m, waitForSnapshot(m.snapshots)

	case noticeMsg:
		n := msg.notice
		m.notice = &n
		return m, waitForNotice(m.notices)

	case loadFinishedMsg:
		m.applySnapshot(m.source.Snapshot())
		return m, nil

	case deleteFinishedMsg:
		if m.deleting == msg.transactionID {
			m.deleting = ""
		}
		m.applySnapshot(m.source.Snapshot())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	if m.pendingDelete != "" {
		switch {
		case key.Matches(msg, m.keymap.Confirm):
			id := m.pendingDelete
			m.pendingDelete = ""
			m.deleting = id
			return m, m.deleteTransaction(id)
		case key.Matches(msg, m.keymap.Cancel):
			m.pendingDelete = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		m.notice = nil
		return m, m.load()

	case key.Matches(msg, m.keymap.Delete):
		if txn, ok := m.selected(); ok && txn.ID() != "" {
			m.notice = nil
			m.pendingDelete = txn.ID()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// selected returns the transaction under the cursor.
func (m Model) selected() (model.Transaction, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.snapshot.Transactions) {
		return nil, false
	}
	return m.snapshot.Transactions[cursor], true
}

func (m *Model) applySnapshot(snap store.Snapshot) {
	m.snapshot = snap

	rows := make([]table.Row, 0, len(snap.Transactions))
	for _, txn := range snap.Transactions {
		date := ""
		if d := txn.Date(); !d.IsZero() {
			date = d.Format("2006-01-02")
		}
		rows = append(rows, table.Row{
			txn.ID(),
			date,
			txn.Description(),
			txn.Category(),
			fmt.Sprintf("%+.2f", txn.Amount()),
		})
	}
	m.table.SetRows(rows)
	// An empty table leaves the cursor at -1; pull it back onto a row.
	if c := m.table.Cursor(); c < 0 || c >= len(rows) {
		m.table.SetCursor(max(min(c, len(rows)-1), 0))
	}
}

func (m *Model) handleResize() {
	m.table.SetColumns(columns(m.width))
	m.table.SetHeight(max(m.height-chromeHeight, 3))
	m.help.Width = m.width
}

func columns(width int) []table.Column {
	// borders (2) + padding (2) + cell padding (2 per column)
	descWidth := width - 4 - 10 - idWidth - dateWidth - categoryWidth - amountWidth
	if descWidth < 12 {
		descWidth = 12
	}
	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Date", Width: dateWidth},
		{Title: "Description", Width: descWidth},
		{Title: "Category", Width: categoryWidth},
		{Title: "Amount", Width: amountWidth},
	}
}

func tableKeyMap(k KeyMap) table.KeyMap {
	disabled := key.NewBinding(key.WithDisabled())
	return table.KeyMap{
		LineUp:       k.Up,
		LineDown:     k.Down,
		PageUp:       k.PageUp,
		PageDown:     k.PageDown,
		HalfPageUp:   disabled,
		HalfPageDown: disabled,
		GotoTop:      k.Home,
		GotoBottom:   k.End,
	}
}
