package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/darkcodi/ffcv/internal/locate"
	"github.com/darkcodi/ffcv/pkg/diag"
	"github.com/darkcodi/ffcv/pkg/merge"
	"github.com/darkcodi/ffcv/pkg/prefs"
	"github.com/darkcodi/ffcv/pkg/profile"
	"github.com/darkcodi/ffcv/pkg/query"
)

var errArchiveTooLarge = errors.New("application archive exceeds --max-archive-size")

// resolve gathers tier bytes per the options and folds them. The
// returned result carries load warnings; hard failures surface as an
// error per --fail-fast.
func resolve(cmd *cobra.Command, opts resolveOptions, scope string) (*merge.MergedPreferences, error) {
	logger := diag.StructuredLogger(diag.Discard{})
	if opts.Verbose {
		l, err := diag.NewLogger(cmd.ErrOrStderr(), scope)
		if err != nil {
			return nil, err
		}
		logger = l
	}

	cfg := merge.Config{
		IncludeBuiltins: !opts.NoBuiltins,
		IncludeGlobals:  !opts.NoGlobals,
		IncludeUser:     !opts.NoUser,
		ContinueOnError: !opts.FailFast,
	}

	in, err := gatherInputs(cmd, opts, logger)
	if err != nil {
		return nil, err
	}

	if opts.Strict {
		if err := strictCheck(in); err != nil {
			return nil, err
		}
	}

	merged, err := merge.Resolve(in, cfg)
	if err != nil {
		logger.Emit(diag.Entry{
			Category: diag.CategoryResolve,
			Message:  "resolution failed",
			Error:    err,
		})
		return nil, err
	}

	logger.Emit(diag.Entry{
		Category: diag.CategoryResolve,
		Message:  "resolution complete",
		Metadata: map[string]string{
			"keys":     fmt.Sprintf("%d", len(merged.Entries)),
			"warnings": fmt.Sprintf("%d", len(merged.Warnings)),
		},
	})
	for _, w := range merged.Warnings {
		logger.Emit(diag.Entry{
			Category: diag.CategorySource,
			Severity: diag.SeverityWarn,
			Message:  w,
		})
	}

	if len(opts.Queries) > 0 {
		matcher, err := query.Compile(opts.Queries)
		if err != nil {
			return nil, err
		}
		merged = query.Filter(merged, matcher)
	}
	return merged, nil
}

// gatherInputs reads the archive, global and user bytes. A source that
// cannot be found stays nil; merge.Resolve turns that into a warning or
// a hard failure per the config.
func gatherInputs(cmd *cobra.Command, opts resolveOptions, logger diag.StructuredLogger) (merge.ResolveInput, error) {
	var in merge.ResolveInput

	if !opts.NoBuiltins || !opts.NoGlobals {
		installDir, err := findInstallDir(opts)
		if err != nil && opts.FailFast {
			return in, err
		}
		if installDir != "" {
			if !opts.NoBuiltins {
				if p := locate.OmniPath(installDir); p != "" {
					data, err := readArchiveFile(p, opts.MaxArchiveSize)
					if err != nil {
						return in, err
					}
					in.Archive = data
					logger.Emit(diag.Entry{
						Category: diag.CategorySource,
						Message:  "loaded application archive",
						Source:   p,
						Metadata: map[string]string{"bytes": fmt.Sprintf("%d", len(data))},
					})
				}
			}
			if !opts.NoGlobals {
				if p := locate.GreprefsPath(installDir); p != "" {
					data, err := os.ReadFile(p)
					if err == nil {
						in.GlobalText = data
						in.GlobalName = p
						logger.Emit(diag.Entry{
							Category: diag.CategorySource,
							Message:  "loaded global defaults",
							Source:   p,
						})
					}
				}
			}
		}
	}

	if !opts.NoUser {
		text, name, err := readUserPrefs(cmd, opts, logger)
		if err != nil {
			return in, err
		}
		in.UserText = text
		in.UserName = name
	}

	return in, nil
}

func findInstallDir(opts resolveOptions) (string, error) {
	if opts.InstallDir != "" {
		install, err := locate.Validate(opts.InstallDir)
		if err != nil {
			return "", err
		}
		return install.Path, nil
	}
	install, err := locate.Find()
	if err != nil {
		return "", err
	}
	return install.Path, nil
}

func readArchiveFile(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", errArchiveTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	return data, nil
}

func readUserPrefs(cmd *cobra.Command, opts resolveOptions, logger diag.StructuredLogger) ([]byte, string, error) {
	if opts.Stdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("reading preferences from stdin: %w", err)
		}
		return data, "stdin", nil
	}

	profilesDir := opts.ProfilesDir
	if profilesDir == "" {
		dir, err := profile.DefaultDirectory()
		if err != nil {
			if opts.FailFast {
				return nil, "", err
			}
			return nil, "prefs.js", nil
		}
		profilesDir = dir
	}

	profileDir, err := profile.FindPath(profilesDir, opts.Profile)
	if err != nil {
		if opts.FailFast {
			return nil, "", fmt.Errorf("finding profile %q: %w", opts.Profile, err)
		}
		logger.Emit(diag.Entry{
			Category: diag.CategoryProfile,
			Severity: diag.SeverityWarn,
			Message:  "profile not found",
			Metadata: map[string]string{"profile": opts.Profile},
		})
		return nil, "prefs.js", nil
	}

	prefsPath := profile.PrefsPath(profileDir)
	data, err := os.ReadFile(prefsPath)
	if err != nil {
		return nil, prefsPath, nil
	}
	logger.Emit(diag.Entry{
		Category: diag.CategoryProfile,
		Message:  "loaded user preferences",
		Source:   prefsPath,
	})
	return data, prefsPath, nil
}

// strictCheck re-parses the explicitly provided text tiers in strict
// mode so malformed statements fail the command instead of degrading
// to warnings. Built-in archive entries stay lenient, matching how the
// application itself treats vendor files.
func strictCheck(in merge.ResolveInput) error {
	if in.GlobalText != nil {
		if _, err := prefs.ParseStrict(string(in.GlobalText)); err != nil {
			return fmt.Errorf("%s: %w", in.GlobalName, err)
		}
	}
	if in.UserText != nil {
		if _, err := prefs.ParseStrict(string(in.UserText)); err != nil {
			return fmt.Errorf("%s: %w", in.UserName, err)
		}
	}
	return nil
}
