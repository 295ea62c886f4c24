// Package themes holds the color schemes of the terminal UI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	BorderedBox   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Border        lipgloss.Color
}

// newTheme derives every style from a small palette.
func newTheme(primary, success, warning, errColor, info, fg, subtle, border, selectedFg lipgloss.Color) Theme {
	return Theme{
		Border: border,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Subtitle: lipgloss.NewStyle().
			Foreground(subtle),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(selectedFg).
			Bold(true),

		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89dceb"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#1e1e2e"),
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
