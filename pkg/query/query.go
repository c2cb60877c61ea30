// Package query matches preference keys against glob-style patterns.
// The only wildcard is `*`, which matches one or more characters and
// may span dot-separated segments; everything else is literal text.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/darkcodi/ffcv/pkg/merge"
)

// PatternError reports a malformed pattern and where it went wrong.
type PatternError struct {
	Pattern string
	Pos     int
	Message string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q at offset %d: %s", e.Pattern, e.Pos, e.Message)
}

// Matcher is a compiled set of patterns. A key matches when at least
// one pattern matches it in full; an empty set matches nothing.
type Matcher struct {
	patterns []string
	re       *regexp.Regexp
}

// Compile validates the patterns and builds a matcher. Unsupported
// wildcard syntax fails with a *PatternError naming the offending
// pattern and offset.
func Compile(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return &Matcher{}, nil
	}

	alts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		expr, err := translate(p)
		if err != nil {
			return nil, err
		}
		alts = append(alts, expr)
	}
	re, err := regexp.Compile("^(?:" + strings.Join(alts, "|") + ")$")
	if err != nil {
		// The translation only emits literals and `.+`, so this is
		// unreachable for any input that passed validation.
		return nil, fmt.Errorf("compiling pattern set: %w", err)
	}
	return &Matcher{patterns: patterns, re: re}, nil
}

// translate converts one glob pattern to a regular expression body.
func translate(pattern string) (string, error) {
	if pattern == "" {
		return "", &PatternError{Pattern: pattern, Pos: 0, Message: "empty pattern"}
	}
	var b strings.Builder
	for i, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".+")
		case '?', '[', ']', '{', '}', '\\':
			return "", &PatternError{
				Pattern: pattern,
				Pos:     i,
				Message: fmt.Sprintf("unsupported wildcard syntax %q, only * is recognized", r),
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String(), nil
}

// Matches reports whether the key matches any compiled pattern.
func (m *Matcher) Matches(key string) bool {
	if m == nil || m.re == nil {
		return false
	}
	return m.re.MatchString(key)
}

// Empty reports whether the matcher was compiled from no patterns.
func (m *Matcher) Empty() bool { return m == nil || m.re == nil }

// Filter returns a copy of the merged result restricted to keys the
// matcher accepts. Loaded sources and warnings carry over unchanged.
func Filter(m *merge.MergedPreferences, matcher *Matcher) *merge.MergedPreferences {
	out := &merge.MergedPreferences{
		Entries:       make(map[string]merge.Resolved),
		LoadedSources: m.LoadedSources,
		Warnings:      m.Warnings,
	}
	for k, r := range m.Entries {
		if matcher.Matches(k) {
			out.Entries[k] = r
		}
	}
	return out
}
