package cli

import (
	"github.com/spf13/cobra"

	configcmd "github.com/darkcodi/ffcv/cmd/ffcv/config"
	profilecmd "github.com/darkcodi/ffcv/cmd/ffcv/profile"
)

// NewRootCommand constructs the root ffcv command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ffcv",
		Short: "ffcv resolves the effective Firefox configuration across preference tiers",
	}

	cmd.AddCommand(profilecmd.NewProfileCommand())
	cmd.AddCommand(configcmd.NewConfigCommand())

	return cmd
}
