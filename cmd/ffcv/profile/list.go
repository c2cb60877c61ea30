// Package profile implements the `ffcv profile` command group.
package profile

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	profilepkg "github.com/darkcodi/ffcv/pkg/profile"
)

type listOptions struct {
	ProfilesDir string
}

// NewProfileCommand groups the profile discovery commands.
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect Firefox profiles",
	}

	cmd.AddCommand(newListCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	opts := listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles declared in profiles.ini",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runListCommand(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ProfilesDir, "profiles-dir", "", "Profiles directory (default: the platform's conventional location)")
	return cmd
}

func runListCommand(cmd *cobra.Command, opts listOptions) error {
	dir := opts.ProfilesDir
	if dir == "" {
		d, err := profilepkg.DefaultDirectory()
		if err != nil {
			return err
		}
		dir = d
	}

	infos, err := profilepkg.List(dir)
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}
	if infos == nil {
		infos = []profilepkg.Info{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(infos)
}
