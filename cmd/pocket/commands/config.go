package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pocketrelay/internal/app"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or persist the effective configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(wire.Config)
			},
		},
		&cobra.Command{
			Use:   "save",
			Short: "Write the effective configuration, flags included, to the config file",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.SaveConfig(wire.Config); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/config.yaml\n", wire.Config.Home)
				return err
			},
		},
	)
	return cmd
}
