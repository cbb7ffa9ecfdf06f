package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Errze/note-bad-ideas/pkg/config"
)

// configCommand inspects the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.config().Write(c.Out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath != "" {
				fmt.Fprintln(c.Out, c.configPath)
				return nil
			}
			p, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, p)
			return nil
		},
	})

	return cmd
}
