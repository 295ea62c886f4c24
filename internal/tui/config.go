package tui

import (
	"github.com/Veraticus/ledger/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Title     string
	Width     int
	Height    int
	ShowHelp  bool
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Title:     "Transactions",
		Width:     80,
		Height:    24,
		ShowHelp:  true,
		AltScreen: true,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(c *Config) {
		c.Title = title
	}
}

// WithSize sets the initial size used before the terminal reports its own.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen controls whether the program takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
