package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	logger "github.com/kthomas/go-logger"
	"github.com/spf13/cobra"

	"pocketrelay/internal/devnode"
	"pocketrelay/internal/signer"
)

const shutdownTimeout = 5 * time.Second

// Execute runs the devnode command with os.Args until interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	var (
		addr      string
		chains    []string
		height    int64
		maxRelays int
		key       string
	)
	cmd := &cobra.Command{
		Use:          "devnode",
		Short:        "Run a local Pocket dispatcher and service node",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(chains) == 0 {
				return errors.New("at least one chain is required")
			}
			var km *signer.KeyManager
			if key != "" {
				var err error
				if km, err = signer.FromPrivateKey(key); err != nil {
					return fmt.Errorf("node key: %w", err)
				}
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			log := newLogger()
			node, err := devnode.New(devnode.Config{
				ServiceURL: "http://" + ln.Addr().String(),
				Chains:     chains,
				Height:     height,
				MaxRelays:  maxRelays,
				Key:        km,
				Logger:     log,
			})
			if err != nil {
				_ = ln.Close()
				return err
			}
			log.Debugf("devnode %s listening on %s", node.PublicKey(), ln.Addr())
			return serve(cmd.Context(), ln, node.Router())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", envOr("DEVNODE_ADDR", "127.0.0.1:8081"), "listen address")
	flags.StringSliceVar(&chains, "chains", strings.Split(envOr("DEVNODE_CHAINS", "0001,0021"), ","), "relay chains served")
	flags.Int64Var(&height, "height", envInt("DEVNODE_HEIGHT", 1), "block height reported")
	flags.IntVar(&maxRelays, "max-relays", int(envInt("DEVNODE_MAX_RELAYS", 0)), "relays per session, 0 for unlimited")
	flags.StringVar(&key, "key", os.Getenv("DEVNODE_PRIVATE_KEY"), "hex node private key (default: random)")
	return cmd
}

// serve runs h on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger() *logger.Logger {
	lvl := os.Getenv("LOG_LEVEL")
	if lvl == "" {
		lvl = "DEBUG"
	}
	var endpoint *string
	if ep := os.Getenv("SYSLOG_ENDPOINT"); ep != "" {
		endpoint = &ep
	}
	return logger.NewLogger("devnode", lvl, endpoint)
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(name), 10, 64)
	if err != nil {
		return def
	}
	return n
}
