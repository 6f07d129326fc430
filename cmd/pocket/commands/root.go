package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"pocketrelay/internal/app"
	"pocketrelay/internal/signer"
)

var (
	home     string
	password string
	account  string

	rpcURL      string
	dispatchers []string
	timeout     time.Duration
	retries     int

	wire   *app.Wire
	appCtx *app.App
)

// Execute runs the CLI with os.Args. An interrupt cancels in-flight calls.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "pocket",
		Short:         "Pocket relay client: accounts, sessions, relays and queries",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg)

			wire, err = app.NewWire(cfg)
			if err != nil {
				return err
			}
			appCtx = app.New(wire.Keys)
			if password == "" {
				password = os.Getenv("POCKET_PASSWORD")
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default $POCKET_HOME or ~/.pocket)")
	pf.StringVarP(&password, "password", "p", "", "password protecting the account key (default $POCKET_PASSWORD)")
	pf.StringVarP(&account, "account", "a", "default", "account name")
	pf.StringVar(&rpcURL, "rpc-url", "", "RPC URL for queries and transactions")
	pf.StringSliceVar(&dispatchers, "dispatcher", nil, "dispatcher URL (repeatable)")
	pf.DurationVar(&timeout, "timeout", 0, "per-attempt timeout")
	pf.IntVar(&retries, "retries", 0, "retry attempts after the first")

	root.AddCommand(accountCmd(), sessionCmd(), relayCmd(), queryCmd(), txCmd(), configCmd())
	return root
}

// applyFlags overrides cfg with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *app.Config) {
	flags := cmd.Flags()
	if flags.Changed("rpc-url") {
		cfg.RPCURL = rpcURL
	}
	if flags.Changed("dispatcher") {
		cfg.Dispatchers = dispatchers
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("retries") {
		cfg.RetryAttempts = retries
	}
}

func unlock() (*signer.KeyManager, error) {
	if password == "" {
		return nil, errors.New("password required (-p or $POCKET_PASSWORD)")
	}
	return appCtx.Unlock(account, password)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
