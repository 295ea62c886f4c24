package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/ledger/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive program and blocks until the user quits or ctx
// is canceled. Alerts from notices are shown in the status bar.
func Run(ctx context.Context, source Source, notices <-chan notify.Notification, opts ...Option) error {
	if source == nil {
		return fmt.Errorf("source is required")
	}

	m := New(ctx, source, notices, opts...)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(m, programOpts...).Run()
	if fm, ok := final.(Model); ok && fm.unsubscribe != nil {
		fm.unsubscribe()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
