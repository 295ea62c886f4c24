package main

import (
	"fmt"

	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/notify"
	"github.com/spf13/cobra"
)

func (a *app) deleteCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:     "delete <transaction-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Long: `Delete a transaction, then refresh the user's transactions and summary.

The outcome is shown as an alert. The command exits non-zero when the
service refuses the delete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder := notify.NewRecorder(notify.NewTerminal(cmd.ErrOrStderr()))

			st, err := a.newStore(recorder, nil)
			if err != nil {
				return err
			}

			stop := startSpinner(cmd.ErrOrStderr(), "Deleting transaction...")
			st.DeleteTransaction(cmd.Context(), args[0])
			stop()

			if recorder.Failed() {
				last, _ := recorder.Last()
				return fmt.Errorf("delete %s: %s", args[0], last.Message)
			}
			if quiet {
				return nil
			}

			out := cmd.OutOrStdout()
			if err := cli.PrintSummary(out, st.Summary()); err != nil {
				return err
			}
			return cli.PrintTransactions(out, st.Transactions())
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "don't print the refreshed list")

	return cmd
}
