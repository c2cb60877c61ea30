package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darkcodi/ffcv/internal/explain"
	"github.com/darkcodi/ffcv/pkg/prefs"
)

func newGetCommand() *cobra.Command {
	opts := resolveOptions{}

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a single resolved preference value in raw form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runGetCommand(cmd, opts, args[0])
		},
	}

	bindResolveFlags(cmd, &opts)
	return cmd
}

func runGetCommand(cmd *cobra.Command, opts resolveOptions, key string) error {
	merged, err := resolve(cmd, opts, "config-get")
	if err != nil {
		return err
	}

	r, ok := merged.Get(key)
	if !ok {
		return fmt.Errorf("preference %q not found", key)
	}
	if opts.Unexplained {
		if _, explained := explain.Lookup(key); explained {
			return fmt.Errorf("preference %q has an explanation, but --unexplained-only was specified", key)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), rawValue(r.Value))
	return nil
}

// rawValue prints the value without quoting or JSON wrapping, so shell
// pipelines get the bare text.
func rawValue(v prefs.Value) string {
	if v.Kind == prefs.KindString {
		return v.Str
	}
	return v.String()
}
