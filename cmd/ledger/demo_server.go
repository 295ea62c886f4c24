package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/ledger/internal/demo"
	"github.com/spf13/cobra"
)

func (a *app) demoServerCmd() *cobra.Command {
	var (
		addr    string
		seed    uint64
		perUser int
	)

	cmd := &cobra.Command{
		Use:   "demo-server",
		Short: "Run a fake transactions service for local testing",
		Long: `Serve the transactions API from memory with generated data.

Point the client at it with --base-url http://localhost:5001/api.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := demo.NewServer(demo.NewLedger(seed, perUser), slog.Default())
			e := srv.Echo()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Demo server listening", "addr", addr)
				errCh <- e.Start(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("demo server: %w", err)
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shut down demo server: %w", err)
			}
			slog.Info("Demo server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5001", "listen address")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for generated data")
	cmd.Flags().IntVar(&perUser, "per-user", 25, "transactions generated for each new user")

	return cmd
}
