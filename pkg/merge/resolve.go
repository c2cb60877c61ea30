package merge

import (
	"errors"
	"fmt"

	"github.com/darkcodi/ffcv/pkg/omni"
)

// ErrSourceUnavailable marks a tier whose backing file or archive is
// missing or unreadable. Under Config.ContinueOnError it degrades to a
// warning; otherwise it aborts the resolution.
var ErrSourceUnavailable = errors.New("merge: source unavailable")

// ResolveInput carries the raw bytes of every tier. A nil slice means
// the source could not be obtained; an empty non-nil slice is a real,
// empty source. Names are used in warnings and default to the
// conventional file names when left empty.
type ResolveInput struct {
	Archive    []byte
	GlobalText []byte
	GlobalName string
	UserText   []byte
	UserName   string
}

// Resolve is the full pipeline over already-resident bytes: open the
// archive, load the three tiers, and fold them. No ambient state is
// consulted; everything the resolution needs is in the input.
func Resolve(in ResolveInput, cfg Config) (*MergedPreferences, error) {
	var (
		builtins []Tier
		global   *Tier
		user     *Tier
		warnings []string
	)

	if cfg.IncludeBuiltins {
		switch {
		case in.Archive == nil:
			if !cfg.ContinueOnError {
				return nil, fmt.Errorf("%w: application archive", ErrSourceUnavailable)
			}
			warnings = append(warnings, "application archive unavailable, skipping built-in defaults")
		default:
			a, err := omni.Open(in.Archive)
			if err != nil {
				if !cfg.ContinueOnError {
					return nil, fmt.Errorf("opening application archive: %w", err)
				}
				warnings = append(warnings, fmt.Sprintf("skipping built-in defaults: %v", err))
			} else {
				tiers, tierWarnings, err := LoadBuiltins(a, cfg.ContinueOnError)
				if err != nil {
					return nil, err
				}
				builtins = tiers
				if builtins == nil {
					builtins = []Tier{}
				}
				warnings = append(warnings, tierWarnings...)
			}
		}
	}

	if cfg.IncludeGlobals {
		name := in.GlobalName
		if name == "" {
			name = "greprefs.js"
		}
		if in.GlobalText == nil {
			if !cfg.ContinueOnError {
				return nil, fmt.Errorf("%w: global defaults (%s)", ErrSourceUnavailable, name)
			}
			warnings = append(warnings, fmt.Sprintf("global defaults %s unavailable, skipping", name))
		} else {
			t, tierWarnings := LoadTier(SourceGlobalDefault, name, string(in.GlobalText))
			global = &t
			warnings = append(warnings, tierWarnings...)
		}
	}

	if cfg.IncludeUser {
		name := in.UserName
		if name == "" {
			name = "prefs.js"
		}
		if in.UserText == nil {
			if !cfg.ContinueOnError {
				return nil, fmt.Errorf("%w: user preferences (%s)", ErrSourceUnavailable, name)
			}
			warnings = append(warnings, fmt.Sprintf("user preferences %s unavailable, skipping", name))
		} else {
			t, tierWarnings := LoadTier(SourceUser, name, string(in.UserText))
			user = &t
			warnings = append(warnings, tierWarnings...)
		}
	}

	m := Merge(builtins, global, user, cfg)
	m.Warnings = append(warnings, m.Warnings...)
	return m, nil
}
