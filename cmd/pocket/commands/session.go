package commands

import (
	"github.com/spf13/cobra"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/services/session"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Work with relay sessions",
	}
	cmd.AddCommand(sessionDispatchCmd())
	return cmd
}

type dispatchFlags struct {
	chain  string
	appKey string
	height int64
}

func (f *dispatchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.chain, "chain", "", "relay chain id, e.g. 0021")
	cmd.Flags().StringVar(&f.appKey, "app-key", "", "application public key (default: the unlocked account's)")
	cmd.Flags().Int64Var(&f.height, "height", 0, "session block height (0 for the current session)")
	_ = cmd.MarkFlagRequired("chain")
}

// dispatch requests a session. signer may be nil when --app-key is set.
func (f *dispatchFlags) dispatch(cmd *cobra.Command, s domain.Signer) (domain.Session, error) {
	return wire.Sessions(s).GetSession(cmd.Context(), session.GetSessionRequest{
		ApplicationPubKey:  f.appKey,
		Chain:              f.chain,
		SessionBlockHeight: f.height,
		Options:            wire.Config.Options(),
	})
}

func sessionDispatchCmd() *cobra.Command {
	var f dispatchFlags
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Request the session serving an application on a chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			var s domain.Signer
			if f.appKey == "" {
				km, err := unlock()
				if err != nil {
					return err
				}
				s = km
			}
			sess, err := f.dispatch(cmd, s)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sess)
		},
	}
	f.register(cmd)
	return cmd
}
