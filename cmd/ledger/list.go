package main

import (
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var withSummary bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a user's transactions",
		Long: `Fetch the user's transactions and summary and print them.

Fetch failures are logged and an empty list is shown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.newStore(nil, nil)
			if err != nil {
				return err
			}

			stop := startSpinner(cmd.ErrOrStderr(), "Loading transactions...")
			st.Load(cmd.Context())
			stop()

			out := cmd.OutOrStdout()
			if err := cli.PrintHeading(out, "Transactions for "+st.UserID()); err != nil {
				return err
			}
			if withSummary {
				if err := cli.PrintSummary(out, st.Summary()); err != nil {
					return err
				}
			}
			return cli.PrintTransactions(out, st.Transactions())
		},
	}

	cmd.Flags().BoolVarP(&withSummary, "summary", "s", false, "print the summary above the list")

	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balance, income and expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.newStore(nil, nil)
			if err != nil {
				return err
			}

			stop := startSpinner(cmd.ErrOrStderr(), "Loading summary...")
			st.FetchSummary(cmd.Context())
			stop()

			return cli.PrintSummary(cmd.OutOrStdout(), st.Summary())
		},
	}
}
