package config

import "github.com/spf13/cobra"

// defaultMaxArchiveSize bounds how much of omni.ja is loaded into
// memory. Stock archives are well under this.
const defaultMaxArchiveSize int64 = 256 << 20

type resolveOptions struct {
	Profile        string
	ProfilesDir    string
	InstallDir     string
	Stdin          bool
	Queries        []string
	Output         string
	MaxArchiveSize int64
	NoBuiltins     bool
	NoGlobals      bool
	NoUser         bool
	FailFast       bool
	Strict         bool
	Unexplained    bool
	Verbose        bool
}

func bindResolveFlags(cmd *cobra.Command, opts *resolveOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.Profile, "profile", "default", "Firefox profile name")
	f.StringVar(&opts.ProfilesDir, "profiles-dir", "", "Profiles directory (default: the platform's conventional location)")
	f.StringVar(&opts.InstallDir, "install-dir", "", "Firefox installation directory (default: auto-detected)")
	f.BoolVar(&opts.Stdin, "stdin", false, "Read user preferences from standard input instead of a profile")
	f.StringArrayVar(&opts.Queries, "query", nil, "Glob pattern to filter preference keys (repeatable)")
	f.StringVar(&opts.Output, "output", "json", "Output format: json, yaml or table")
	f.Int64Var(&opts.MaxArchiveSize, "max-archive-size", defaultMaxArchiveSize, "Maximum omni.ja size in bytes")
	f.BoolVar(&opts.NoBuiltins, "no-builtins", false, "Skip built-in defaults from the application archive")
	f.BoolVar(&opts.NoGlobals, "no-globals", false, "Skip global defaults (greprefs.js)")
	f.BoolVar(&opts.NoUser, "no-user", false, "Skip user preferences")
	f.BoolVar(&opts.FailFast, "fail-fast", false, "Abort on the first tier that fails to load")
	f.BoolVar(&opts.Strict, "strict", false, "Treat malformed preference statements as errors")
	f.BoolVar(&opts.Unexplained, "unexplained-only", false, "Show only preferences without a known explanation")
	f.BoolVar(&opts.Verbose, "verbose", false, "Emit structured diagnostics to stderr")
}
