package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read chain state from the RPC URL",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "height",
			Short: "Latest block height",
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := wire.Query.GetHeight(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), h)
				return err
			},
		},
		&cobra.Command{
			Use:   "balance <address>",
			Short: "Balance of an address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := wire.Query.GetBalance(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), b.String())
				return err
			},
		},
		queryAccountCmd(),
		&cobra.Command{
			Use:   "txcount <address>",
			Short: "Number of transactions of an address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := wire.Query.GetTransactionCount(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			},
		},
		&cobra.Command{
			Use:   "node <address>",
			Short: "Staked node at an address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := wire.Query.GetNode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), n)
			},
		},
		&cobra.Command{
			Use:   "app <address>",
			Short: "Staked application at an address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := wire.Query.GetApp(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), a)
			},
		},
		&cobra.Command{
			Use:   "block <height>",
			Short: "Block at a height",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("height: %w", err)
				}
				b, err := wire.Query.GetBlock(cmd.Context(), h)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), b)
			},
		},
		&cobra.Command{
			Use:   "tx <hash>",
			Short: "Transaction by hash",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tx, err := wire.Query.GetTransaction(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tx)
			},
		},
		&cobra.Command{
			Use:   "type <address>",
			Short: "Whether an address is an app, a node or a plain account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := wire.Query.GetType(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), t)
				return err
			},
		},
	)
	return cmd
}

func queryAccountCmd() *cobra.Command {
	var withTxs bool
	cmd := &cobra.Command{
		Use:   "account <address>",
		Short: "Account balance and public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if withTxs {
				a, err := wire.Query.GetAccountWithTransactions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), a)
			}
			a, err := wire.Query.GetAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
	cmd.Flags().BoolVar(&withTxs, "txs", false, "include the account's transactions")
	return cmd
}
