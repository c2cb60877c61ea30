package merge

import (
	"fmt"

	"github.com/darkcodi/ffcv/pkg/omni"
	"github.com/darkcodi/ffcv/pkg/prefs"
)

// BuiltinPrefix is the archive path under which built-in preference
// files live.
const BuiltinPrefix = "defaults/pref/"

// LoadBuiltins reads every preference file under BuiltinPrefix from the
// archive and parses each leniently into its own tier. When
// continueOnError is set, an entry that cannot be decompressed is
// skipped with a warning; otherwise the first failure aborts the load.
func LoadBuiltins(a *omni.Archive, continueOnError bool) ([]Tier, []string, error) {
	names := a.List(BuiltinPrefix)

	tiers := make([]Tier, 0, len(names))
	var warnings []string
	for _, name := range names {
		data, err := a.Read(name)
		if err != nil {
			if !continueOnError {
				return nil, nil, fmt.Errorf("reading built-in %s: %w", name, err)
			}
			warnings = append(warnings, fmt.Sprintf("skipping built-in %s: %v", name, err))
			continue
		}
		t, tierWarnings := LoadTier(SourceBuiltIn, name, string(data))
		tiers = append(tiers, t)
		warnings = append(warnings, tierWarnings...)
	}
	return tiers, warnings, nil
}

// LoadTier parses one text blob leniently into a tier. Parse warnings
// come back prefixed with the tier name so they stay attributable after
// folding.
func LoadTier(src Source, name, text string) (Tier, []string) {
	res := prefs.Parse(text)
	var warnings []string
	for _, w := range res.Warnings {
		warnings = append(warnings, fmt.Sprintf("%s: %s", name, w))
	}
	return Tier{Source: src, Name: name, Entries: res.Entries}, warnings
}
