package config

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/darkcodi/ffcv/internal/cli/render"
)

var (
	isTerminal = term.IsTerminal
	stdoutFD   = func() int { return int(os.Stdout.Fd()) }
)

func newViewCommand() *cobra.Command {
	opts := resolveOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runViewCommand(cmd, opts)
		},
	}

	bindResolveFlags(cmd, &opts)
	return cmd
}

func runViewCommand(cmd *cobra.Command, opts resolveOptions) error {
	format, err := render.ParseFormat(opts.Output)
	if err != nil {
		return err
	}

	merged, err := resolve(cmd, opts, "config-view")
	if err != nil {
		return err
	}

	renderOpts := render.Options{
		Format:          format,
		Color:           format == render.FormatTable && isTerminal(stdoutFD()),
		UnexplainedOnly: opts.Unexplained,
	}
	doc := render.BuildDocument(merged, renderOpts)
	return render.Write(cmd.OutOrStdout(), doc, renderOpts)
}
