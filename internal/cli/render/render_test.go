package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/darkcodi/ffcv/internal/cli/render"
	"github.com/darkcodi/ffcv/pkg/merge"
	"github.com/darkcodi/ffcv/pkg/prefs"
)

func sampleMerged() *merge.MergedPreferences {
	return &merge.MergedPreferences{
		Entries: map[string]merge.Resolved{
			"browser.uiCustomization.state": {
				Key:    "browser.uiCustomization.state",
				Value:  prefs.StringValue(`{"placements":{"nav-bar":["back-button"]}}`),
				Kind:   prefs.DeclUser,
				Origin: merge.SourceUser,
			},
			"app.update.auto": {
				Key:    "app.update.auto",
				Value:  prefs.BoolValue(true),
				Kind:   prefs.DeclDefault,
				Origin: merge.SourceBuiltIn,
			},
			"network.proxy.type": {
				Key:         "network.proxy.type",
				Value:       prefs.IntValue(1),
				Kind:        prefs.DeclUser,
				Origin:      merge.SourceUser,
				Conflicting: true,
			},
			"custom.unexplained": {
				Key:    "custom.unexplained",
				Value:  prefs.NullValue(),
				Kind:   prefs.DeclDefault,
				Origin: merge.SourceGlobalDefault,
			},
		},
		LoadedSources: []merge.Source{merge.SourceBuiltIn, merge.SourceUser},
		Warnings:      []string{"type conflict for \"network.proxy.type\""},
	}
}

func TestBuildDocumentSortsAndAnnotates(t *testing.T) {
	doc := render.BuildDocument(sampleMerged(), render.Options{Format: render.FormatJSON})

	if len(doc.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(doc.Entries))
	}
	for i := 1; i < len(doc.Entries); i++ {
		if doc.Entries[i-1].Key >= doc.Entries[i].Key {
			t.Fatalf("entries not sorted: %q before %q", doc.Entries[i-1].Key, doc.Entries[i].Key)
		}
	}

	byKey := map[string]render.Entry{}
	for _, e := range doc.Entries {
		byKey[e.Key] = e
	}

	if !byKey["browser.uiCustomization.state"].EmbeddedJSON {
		t.Fatalf("embedded JSON string not detected")
	}
	if byKey["app.update.auto"].EmbeddedJSON {
		t.Fatalf("boolean flagged as embedded JSON")
	}
	if !byKey["network.proxy.type"].Conflicting {
		t.Fatalf("conflict flag lost in view")
	}
	if byKey["app.update.auto"].Explanation == "" {
		t.Fatalf("expected explanation for app.update.auto")
	}
	if byKey["custom.unexplained"].Type != "null" {
		t.Fatalf("unexpected type for null value: %q", byKey["custom.unexplained"].Type)
	}
	if len(doc.LoadedSources) != 2 || doc.LoadedSources[0] != "built-in" {
		t.Fatalf("unexpected loaded sources: %v", doc.LoadedSources)
	}
}

func TestBuildDocumentUnexplainedOnly(t *testing.T) {
	doc := render.BuildDocument(sampleMerged(), render.Options{
		Format:          render.FormatJSON,
		UnexplainedOnly: true,
	})

	for _, e := range doc.Entries {
		if e.Explanation != "" {
			t.Fatalf("explained entry %q survived the filter", e.Key)
		}
	}
	found := false
	for _, e := range doc.Entries {
		if e.Key == "custom.unexplained" {
			found = true
		}
	}
	if !found {
		t.Fatalf("unexplained entry dropped by the filter")
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	doc := render.BuildDocument(sampleMerged(), render.Options{Format: render.FormatJSON})

	var buf bytes.Buffer
	if err := render.Write(&buf, doc, render.Options{Format: render.FormatJSON}); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var decoded render.Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json output: %v", err)
	}
	if len(decoded.Entries) != len(doc.Entries) {
		t.Fatalf("entry count changed through serialization")
	}
}

func TestWriteYAML(t *testing.T) {
	doc := render.BuildDocument(sampleMerged(), render.Options{Format: render.FormatYAML})

	var buf bytes.Buffer
	if err := render.Write(&buf, doc, render.Options{Format: render.FormatYAML}); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	var decoded render.Document
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode yaml output: %v", err)
	}
	if len(decoded.Entries) != 4 {
		t.Fatalf("expected 4 entries in yaml output, got %d", len(decoded.Entries))
	}
}

func TestWriteTablePlain(t *testing.T) {
	doc := render.BuildDocument(sampleMerged(), render.Options{Format: render.FormatTable})

	var buf bytes.Buffer
	if err := render.Write(&buf, doc, render.Options{Format: render.FormatTable}); err != nil {
		t.Fatalf("write table: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "KEY") || !strings.Contains(out, "ORIGIN") {
		t.Fatalf("missing table header:\n%s", out)
	}
	if !strings.Contains(out, "network.proxy.type") || !strings.Contains(out, "conflict") {
		t.Fatalf("conflicting entry not marked:\n%s", out)
	}
	if !strings.Contains(out, "warning:") {
		t.Fatalf("warnings not rendered:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]render.Format{
		"":      render.FormatJSON,
		"json":  render.FormatJSON,
		"YAML":  render.FormatYAML,
		" table ": render.FormatTable,
	}
	for in, want := range cases {
		got, err := render.ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := render.ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
