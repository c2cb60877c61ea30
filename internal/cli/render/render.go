// Package render serializes resolution results for display.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/darkcodi/ffcv/internal/explain"
	"github.com/darkcodi/ffcv/pkg/merge"
)

// Format selects the output serialization.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, expected json, yaml or table", s)
	}
}

// Entry is the per-preference view of a resolved result.
type Entry struct {
	Key          string `json:"key" yaml:"key"`
	Value        any    `json:"value" yaml:"value"`
	Type         string `json:"type" yaml:"type"`
	Kind         string `json:"kind" yaml:"kind"`
	Origin       string `json:"origin" yaml:"origin"`
	Conflicting  bool   `json:"conflicting,omitempty" yaml:"conflicting,omitempty"`
	EmbeddedJSON bool   `json:"embedded_json,omitempty" yaml:"embedded_json,omitempty"`
	Explanation  string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Document is the full serializable view of a resolution.
type Document struct {
	Entries       []Entry  `json:"entries" yaml:"entries"`
	LoadedSources []string `json:"loaded_sources" yaml:"loaded_sources"`
	Warnings      []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Options controls document construction and table styling.
type Options struct {
	Format Format
	// Color enables ANSI styling in table output. Callers should pass
	// the result of a terminal check on the destination.
	Color bool
	// UnexplainedOnly drops entries that have a known explanation.
	UnexplainedOnly bool
}

// BuildDocument converts a merged result into its display form, with
// entries in sorted key order.
func BuildDocument(m *merge.MergedPreferences, opts Options) Document {
	doc := Document{
		Entries:       make([]Entry, 0, len(m.Entries)),
		LoadedSources: make([]string, 0, len(m.LoadedSources)),
		Warnings:      m.Warnings,
	}
	for _, s := range m.LoadedSources {
		doc.LoadedSources = append(doc.LoadedSources, s.String())
	}
	for _, key := range m.Keys() {
		r := m.Entries[key]
		explanation, explained := explain.Lookup(key)
		if opts.UnexplainedOnly && explained {
			continue
		}
		doc.Entries = append(doc.Entries, Entry{
			Key:          key,
			Value:        r.Value.Interface(),
			Type:         r.Value.Kind.String(),
			Kind:         r.Kind.String(),
			Origin:       r.Origin.String(),
			Conflicting:  r.Conflicting,
			EmbeddedJSON: hasEmbeddedJSON(r.Value.Interface()),
			Explanation:  explanation,
		})
	}
	return doc
}

// hasEmbeddedJSON reports whether a string value carries a JSON object
// or array, as several Firefox preferences do.
func hasEmbeddedJSON(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return false
	}
	return gjson.Valid(trimmed)
}

// Write serializes the document to w in the configured format.
func Write(w io.Writer, doc Document, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w, doc, opts.Color)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

func writeTable(w io.Writer, doc Document, colored bool) error {
	header := func(s string) string { return s }
	conflict := func(s string) string { return s }
	muted := func(s string) string { return s }
	if colored {
		header = func(s string) string { return color.New(color.Bold).Sprint(s) }
		conflict = func(s string) string { return color.New(color.FgRed).Sprint(s) }
		muted = func(s string) string { return color.New(color.FgYellow).Sprint(s) }
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		header("KEY"), header("VALUE"), header("TYPE"), header("ORIGIN"), header("FLAGS"))
	for _, e := range doc.Entries {
		var flags []string
		if e.Conflicting {
			flags = append(flags, conflict("conflict"))
		}
		if e.EmbeddedJSON {
			flags = append(flags, "json")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Key, formatCell(e.Value), e.Type, e.Origin, strings.Join(flags, ","))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, warning := range doc.Warnings {
		if _, err := fmt.Fprintf(w, "%s %s\n", muted("warning:"), warning); err != nil {
			return err
		}
	}
	return nil
}

func formatCell(v any) string {
	if v == nil {
		return "null"
	}
	s := fmt.Sprintf("%v", v)
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
