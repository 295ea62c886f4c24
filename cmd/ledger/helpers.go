package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/ledger/internal/api"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/config"
	"github.com/Veraticus/ledger/internal/notify"
	"github.com/Veraticus/ledger/internal/store"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func setupLogging(cmd *cobra.Command, cfg config.LoggingConfig) error {
	if err := common.SetupLogger(cmd.ErrOrStderr(), cfg.Level, cfg.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func (a *app) newClient(logger *slog.Logger) (*api.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := api.NewClient(a.cfg.API.BaseURL,
		api.WithTimeout(a.cfg.API.Timeout),
		api.WithUserAgent(a.cfg.API.UserAgent),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, common.NewUserError("invalid service URL", err)
	}
	return client, nil
}

// newStore builds a store for the configured user. A nil logger means the
// default logger.
func (a *app) newStore(notifier notify.Notifier, logger *slog.Logger) (*store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	userID, err := a.cfg.RequireUser()
	if err != nil {
		return nil, err
	}

	client, err := a.newClient(logger)
	if err != nil {
		return nil, err
	}

	return store.New(userID, client, notifier, store.WithLogger(logger)), nil
}

// startSpinner shows a spinner on w when it is a terminal.
func startSpinner(w io.Writer, description string) func() {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return func() {}
	}
	s := cli.StartSpinner(f, description)
	return s.Stop
}
