package commands

import (
	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Submit transactions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "send <signed-tx-hex>",
		Short: "Submit a transaction signed by --account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := unlock()
			if err != nil {
				return err
			}
			res, err := wire.Query.SendTransaction(cmd.Context(), km.Address(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	})
	return cmd
}
