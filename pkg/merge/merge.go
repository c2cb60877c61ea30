// Package merge folds preference declarations from up to three tiers
// into a single mapping with per-key provenance and type-conflict
// reporting. Tiers are processed in ascending precedence order; within
// a tier the last declaration of a key wins.
package merge

import (
	"fmt"
	"sort"

	"github.com/darkcodi/ffcv/pkg/prefs"
)

// Tier is an ordered sequence of entries read from one logical origin.
// Name identifies the backing file or archive entry for warnings.
type Tier struct {
	Source  Source
	Name    string
	Entries []prefs.Entry
}

// Config controls which tiers participate in a merge and whether a
// tier that fails to load aborts the whole resolution.
type Config struct {
	IncludeBuiltins bool
	IncludeGlobals  bool
	IncludeUser     bool
	ContinueOnError bool
}

// DefaultConfig includes every tier and tolerates load failures.
func DefaultConfig() Config {
	return Config{
		IncludeBuiltins: true,
		IncludeGlobals:  true,
		IncludeUser:     true,
		ContinueOnError: true,
	}
}

// Resolved is the per-key outcome of a merge. Conflicting is set when
// another tier declared the same key with a different value variant;
// the winning value is still the highest-precedence one.
type Resolved struct {
	Key         string
	Value       prefs.Value
	Kind        prefs.DeclKind
	Origin      Source
	Conflicting bool
}

// MergedPreferences is the resolution result. LoadedSources lists the
// tiers that were actually read, in precedence order; Warnings carries
// human-readable degradation notes in the order they were produced.
type MergedPreferences struct {
	Entries       map[string]Resolved
	LoadedSources []Source
	Warnings      []string
}

// Keys returns the resolved preference keys in sorted order.
func (m *MergedPreferences) Keys() []string {
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up one resolved preference by exact key.
func (m *MergedPreferences) Get(key string) (Resolved, bool) {
	r, ok := m.Entries[key]
	return r, ok
}

// Merge folds the given tiers in ascending precedence order. Built-in
// tiers are re-sorted by name so archive listing order cannot leak into
// the result. Nil global/user tiers simply contribute nothing; loader
// failures are the caller's concern and arrive here as absent tiers.
func Merge(builtins []Tier, global, user *Tier, cfg Config) *MergedPreferences {
	m := &MergedPreferences{Entries: make(map[string]Resolved)}

	if cfg.IncludeBuiltins {
		sorted := make([]Tier, len(builtins))
		copy(sorted, builtins)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		for _, t := range sorted {
			m.fold(t)
		}
		// A non-nil empty slice means the archive was read but held no
		// preference files; that still counts as a loaded source.
		if builtins != nil {
			m.LoadedSources = append(m.LoadedSources, SourceBuiltIn)
		}
	}
	if cfg.IncludeGlobals && global != nil {
		m.fold(*global)
		m.LoadedSources = append(m.LoadedSources, SourceGlobalDefault)
	}
	if cfg.IncludeUser && user != nil {
		m.fold(*user)
		m.LoadedSources = append(m.LoadedSources, SourceUser)
	}
	return m
}

func (m *MergedPreferences) fold(t Tier) {
	for _, e := range t.Entries {
		m.apply(e, t.Source)
	}
}

// apply inserts one declaration into the accumulator. Higher or equal
// precedence overwrites the stored value; lower precedence only flags a
// conflict when the value variants disagree.
func (m *MergedPreferences) apply(e prefs.Entry, src Source) {
	prev, exists := m.Entries[e.Key]
	if !exists {
		m.Entries[e.Key] = Resolved{
			Key:    e.Key,
			Value:  e.Value,
			Kind:   e.Kind,
			Origin: src,
		}
		return
	}

	mismatch := prev.Value.Kind != e.Value.Kind
	if mismatch {
		m.Warnings = append(m.Warnings, fmt.Sprintf(
			"type conflict for %q: %s declares %s, %s declares %s",
			e.Key, prev.Origin, prev.Value.Kind, src, e.Value.Kind))
	}

	switch {
	case src.Precedence() >= prev.Origin.Precedence():
		m.Entries[e.Key] = Resolved{
			Key:         e.Key,
			Value:       e.Value,
			Kind:        e.Kind,
			Origin:      src,
			Conflicting: mismatch,
		}
	case mismatch:
		prev.Conflicting = true
		m.Entries[e.Key] = prev
	}
}
