package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pocketrelay/internal/signer"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage PPK-protected accounts",
	}
	cmd.AddCommand(
		accountNewCmd(),
		accountImportCmd(),
		accountImportPPKCmd(),
		accountExportPPKCmd(),
		accountShowCmd(),
		accountListCmd(),
		accountSignCmd(),
	)
	return cmd
}

type accountView struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

func view(km *signer.KeyManager) accountView {
	return accountView{Name: account, Address: km.Address(), PublicKey: km.PublicKey()}
}

func accountNewCmd() *cobra.Command {
	var hint string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a key and store it encrypted under --account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("password required (-p)")
			}
			km, err := appCtx.NewAccount(account, password, hint)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view(km))
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", "password hint stored in the clear")
	return cmd
}

func accountImportCmd() *cobra.Command {
	var hint string
	cmd := &cobra.Command{
		Use:   "import <private-key-hex>",
		Short: "Store an existing hex private key encrypted under --account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("password required (-p)")
			}
			km, err := appCtx.ImportAccount(account, strings.TrimSpace(args[0]), password, hint)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view(km))
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", "password hint stored in the clear")
	return cmd
}

func accountImportPPKCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ppk <file>",
		Short: "Store a PPK file under --account after checking the password opens it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("password required (-p)")
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			km, err := appCtx.ImportPPK(account, raw, password)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view(km))
		},
	}
}

func accountExportPPKCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-ppk",
		Short: "Print the stored PPK for --account, or write it to --out",
		RunE: func(cmd *cobra.Command, args []string) error {
			ppk, err := appCtx.ExportPPK(account)
			if err != nil {
				return err
			}
			if out == "" {
				return printJSON(cmd.OutOrStdout(), ppk)
			}
			f, err := os.OpenFile(out, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
			if err != nil {
				return err
			}
			if err := printJSON(f, ppk); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to create")
	return cmd
}

func accountShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Unlock --account and print its address and public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := unlock()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view(km))
		},
	}
}

func accountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored account names",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := appCtx.Accounts()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func accountSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <payload-hex>",
		Short: "Sign hex bytes with --account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := unlock()
			if err != nil {
				return err
			}
			sig, err := km.Sign(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
}
