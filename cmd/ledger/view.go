package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/tui"
	"github.com/Veraticus/ledger/internal/tui/themes"
	"github.com/spf13/cobra"
)

func (a *app) viewCmd() *cobra.Command {
	var (
		theme    string
		noAlt    bool
		logStdio bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse transactions interactively",
		Long: `Open the interactive view for the configured user.

Keys: r reloads, d deletes the selected transaction, ? shows all keys, q quits.
Logs go to the configured log file while the view owns the screen.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, closeLog, err := a.viewLogger(cmd, logStdio)
			if err != nil {
				return err
			}
			defer closeLog()

			notifier := tui.NewNotifier()
			st, err := a.newStore(notifier, logger)
			if err != nil {
				return err
			}

			logger.Info("Starting view", "user_id", st.UserID(), "base_url", a.cfg.API.BaseURL)

			return tui.Run(cmd.Context(), st, notifier.C(),
				tui.WithTheme(themes.ByName(theme)),
				tui.WithAltScreen(!noAlt),
			)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin)")
	cmd.Flags().BoolVar(&noAlt, "no-alt-screen", false, "render inline instead of the alternate screen")
	cmd.Flags().BoolVar(&logStdio, "log-stderr", false, "log to stderr instead of the log file")

	return cmd
}

// viewLogger points the default logger at the log file.
func (a *app) viewLogger(cmd *cobra.Command, toStderr bool) (*slog.Logger, func(), error) {
	if toStderr || a.cfg.Logging.File == "" {
		if err := setupLogging(cmd, a.cfg.Logging); err != nil {
			return nil, nil, err
		}
		return slog.Default(), func() {}, nil
	}

	f, err := common.OpenLogFile(a.cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := common.SetupLogger(f, a.cfg.Logging.Level, a.cfg.Logging.Format); err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	return slog.Default(), func() { _ = f.Close() }, nil
}
