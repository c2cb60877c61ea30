// Package config implements the `ffcv config` command group.
package config

import "github.com/spf13/cobra"

// NewConfigCommand groups the configuration resolution commands.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Resolve and inspect effective Firefox configuration",
	}

	cmd.AddCommand(newViewCommand())
	cmd.AddCommand(newGetCommand())

	return cmd
}
