package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledger/internal/notify"
	"github.com/charmbracelet/lipgloss"
)

// View renders the whole screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummary(),
		"",
		m.renderBody(),
		m.renderStatusBar(),
	}
	if m.help.ShowAll {
		sections = append(sections, m.help.View(m.keymap))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return m.theme.BorderedBox.
		Width(max(m.width-2, 0)).
		Render(content)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(m.config.Title)
	user := m.theme.Subtitle.Render("user " + m.source.UserID())
	return title + "  " + user
}

// renderSummary renders balance, income and expenses on one line.
func (m Model) renderSummary() string {
	s := m.snapshot.Summary

	balanceStyle := m.theme.Bold
	if s.Balance < 0 {
		balanceStyle = m.theme.StatusError
	}

	return strings.Join([]string{
		m.theme.Subtitle.Render("Balance ") + balanceStyle.Render(fmt.Sprintf("$%.2f", s.Balance)),
		m.theme.Subtitle.Render("Income ") + m.theme.StatusSuccess.Render(fmt.Sprintf("+$%.2f", s.Income)),
		m.theme.Subtitle.Render("Expenses ") + m.theme.StatusError.Render(fmt.Sprintf("-$%.2f", abs(s.Expenses))),
	}, "   ")
}

func (m Model) renderBody() string {
	if len(m.snapshot.Transactions) == 0 {
		if m.snapshot.IsLoading {
			return m.spinner.View() + " " + m.theme.StatusPending.Render("Loading transactions...")
		}
		return m.theme.StatusPending.Render("No transactions yet")
	}
	return m.table.View()
}

func (m Model) renderStatusBar() string {
	var left string

	switch {
	case m.pendingDelete != "":
		left = m.theme.StatusWarning.Render(fmt.Sprintf("Delete transaction %s? (y/n)", m.pendingDelete))
	case m.deleting != "":
		left = m.spinner.View() + " " + m.theme.StatusPending.Render(fmt.Sprintf("Deleting transaction %s...", m.deleting))
	case m.notice != nil:
		left = m.renderNotice(*m.notice)
	case m.snapshot.IsLoading:
		left = m.spinner.View() + " " + m.theme.StatusPending.Render("Refreshing...")
	default:
		left = m.theme.Subtitle.Render(fmt.Sprintf("%d transactions", len(m.snapshot.Transactions)))
	}

	right := m.help.ShortHelpView(m.keymap.ShortHelp())
	if m.help.ShowAll {
		right = ""
	}

	gap := m.width - 6 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderNotice(n notify.Notification) string {
	style := m.theme.StatusSuccess
	if n.Title == notify.TitleError {
		style = m.theme.StatusError
	}
	return style.Render(n.Title + ": " + n.Message)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
