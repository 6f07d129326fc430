package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pocketrelay/internal/domain"
	"pocketrelay/internal/services/relayer"
)

func relayCmd() *cobra.Command {
	var (
		f       dispatchFlags
		data    string
		method  string
		path    string
		headers map[string]string
		aatFile string
		node    string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Dispatch a session and send a signed relay to one of its nodes",
		Long: `Dispatch a session for the token's application and relay --data through a
node of that session. The unlocked account is the client key the token
delegates to. --node pins a service node by public key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			aat, err := readAAT(aatFile)
			if err != nil {
				return err
			}
			km, err := unlock()
			if err != nil {
				return err
			}
			if f.appKey == "" {
				f.appKey = aat.ApplicationPublicKey
			}
			sess, err := f.dispatch(cmd, km)
			if err != nil {
				return err
			}

			req := relayer.Request{
				Blockchain: f.chain,
				Data:       data,
				AAT:        aat,
				Session:    sess,
				Options:    wire.Config.Options(),
				Headers:    headers,
				Method:     method,
				Path:       path,
			}
			if node != "" {
				req.Node = &domain.Node{PublicKey: node}
				for i := range sess.Nodes {
					if sess.Nodes[i].PublicKey == node {
						req.Node = &sess.Nodes[i]
					}
				}
			}

			res, err := wire.Relayer(km).Relay(cmd.Context(), req)
			if err != nil {
				return err
			}
			if verbose {
				return printJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), responseText(res.Response))
			return err
		},
	}
	f.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&data, "data", "", "payload forwarded to the chain, e.g. a JSON-RPC request")
	flags.StringVar(&method, "method", "", "HTTP method the node uses toward the chain")
	flags.StringVar(&path, "path", "", "path the node appends toward the chain")
	flags.StringToStringVar(&headers, "header", nil, "header forwarded to the chain (key=value, repeatable)")
	flags.StringVar(&aatFile, "aat", "", "application authentication token JSON file")
	flags.StringVar(&node, "node", "", "service node public key")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print the proof and serving node with the response")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("aat")
	return cmd
}

// responseText prints a JSON string response as its contents and any other
// JSON value as is.
func responseText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func readAAT(path string) (domain.AAT, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.AAT{}, err
	}
	var aat domain.AAT
	if err := json.Unmarshal(b, &aat); err != nil {
		return domain.AAT{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return aat, nil
}
