package config_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	configcmd "github.com/darkcodi/ffcv/cmd/ffcv/config"
	"github.com/darkcodi/ffcv/internal/cli/render"
)

func writeFixtureFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeInstallDir lays out a minimal Firefox installation: an omni.ja
// with built-in preference files, a greprefs.js and an application.ini.
func writeInstallDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, text := range map[string]string{
		"defaults/pref/browser.js": `pref("app.update.auto", true);
pref("network.proxy.type", 0);`,
		"defaults/pref/firefox.js": `pref("browser.tabs.max", 50);`,
	} {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create archive entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(text)); err != nil {
			t.Fatalf("write archive entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}

	writeFixtureFile(t, filepath.Join(dir, "omni.ja"), buf.String())
	writeFixtureFile(t, filepath.Join(dir, "greprefs.js"), `pref("security.tls.version.min", 3);`)
	writeFixtureFile(t, filepath.Join(dir, "application.ini"), "[App]\nName=Firefox\nVersion=128.0\n")
	return dir
}

// writeProfilesDir lays out a profiles.ini with one default profile
// whose prefs.js overrides a built-in value with a different type.
func writeProfilesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixtureFile(t, filepath.Join(dir, "profiles.ini"), `[General]
StartWithLastProfile=1
Version=2

[Profile0]
Name=default
IsRelative=1
Path=Profiles/test.default
Default=1
`)
	writeFixtureFile(t, filepath.Join(dir, "Profiles", "test.default", "prefs.js"),
		`user_pref("network.proxy.type", "manual");
user_pref("browser.custom.flag", 42);`)
	return dir
}

func runConfig(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := configcmd.NewConfigCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestViewResolvesAcrossAllTiers(t *testing.T) {
	installDir := writeInstallDir(t)
	profilesDir := writeProfilesDir(t)

	out, _, err := runConfig(t, "",
		"view", "--install-dir", installDir, "--profiles-dir", profilesDir, "--output", "json")
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	var doc render.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	byKey := map[string]render.Entry{}
	for _, e := range doc.Entries {
		byKey[e.Key] = e
	}

	proxy, ok := byKey["network.proxy.type"]
	if !ok {
		t.Fatalf("network.proxy.type missing from output: %s", out)
	}
	if proxy.Value != "manual" || proxy.Origin != "user" {
		t.Fatalf("user override lost: %+v", proxy)
	}
	if !proxy.Conflicting {
		t.Fatalf("integer/string mismatch must be flagged: %+v", proxy)
	}

	if e := byKey["browser.tabs.max"]; e.Origin != "built-in" {
		t.Fatalf("built-in only key has origin %q", e.Origin)
	}
	if e := byKey["security.tls.version.min"]; e.Origin != "global-default" {
		t.Fatalf("greprefs key has origin %q", e.Origin)
	}

	if len(doc.LoadedSources) != 3 {
		t.Fatalf("expected three loaded sources, got %v", doc.LoadedSources)
	}
	warned := false
	for _, w := range doc.Warnings {
		if strings.Contains(w, "network.proxy.type") {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected type-conflict warning, got %v", doc.Warnings)
	}
}

func TestViewFromStdinOnly(t *testing.T) {
	out, _, err := runConfig(t, `user_pref("a.b", 1); user_pref("c.d", true);`,
		"view", "--stdin", "--no-builtins", "--no-globals", "--output", "json")
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	var doc render.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", doc.Entries)
	}
	if doc.Entries[0].Key != "a.b" || doc.Entries[1].Key != "c.d" {
		t.Fatalf("entries not sorted by key: %+v", doc.Entries)
	}
}

func TestViewAppliesQueryFilter(t *testing.T) {
	out, _, err := runConfig(t,
		`user_pref("network.proxy.type", 1); user_pref("app.update.auto", false);`,
		"view", "--stdin", "--no-builtins", "--no-globals", "--query", "network.*", "--output", "json")
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	var doc render.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Key != "network.proxy.type" {
		t.Fatalf("query filter failed: %+v", doc.Entries)
	}
}

func TestViewRejectsMalformedQuery(t *testing.T) {
	_, _, err := runConfig(t, "",
		"view", "--stdin", "--no-builtins", "--no-globals", "--query", "net[work]")
	if err == nil {
		t.Fatal("expected pattern error")
	}
	if !strings.Contains(err.Error(), "net[work]") {
		t.Fatalf("error does not name the pattern: %v", err)
	}
}

func TestViewTableOutput(t *testing.T) {
	out, _, err := runConfig(t, `user_pref("a.b", 1);`,
		"view", "--stdin", "--no-builtins", "--no-globals", "--output", "table")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !strings.Contains(out, "KEY") || !strings.Contains(out, "a.b") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestViewRejectsUnknownOutputFormat(t *testing.T) {
	_, _, err := runConfig(t, "", "view", "--stdin", "--output", "xml")
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestViewStrictRejectsMalformedInput(t *testing.T) {
	_, _, err := runConfig(t, "user_pref(\"good\", 1);\npref(broken;\n",
		"view", "--stdin", "--no-builtins", "--no-globals", "--strict")
	if err == nil {
		t.Fatal("expected strict parse failure")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error does not locate the malformed statement: %v", err)
	}
}

func TestViewLenientKeepsGoingOnMalformedInput(t *testing.T) {
	out, _, err := runConfig(t, "user_pref(\"good\", 1);\npref(broken;\n",
		"view", "--stdin", "--no-builtins", "--no-globals", "--output", "json")
	if err != nil {
		t.Fatalf("lenient view must succeed: %v", err)
	}

	var doc render.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Key != "good" {
		t.Fatalf("expected only the valid entry, got %+v", doc.Entries)
	}
	if len(doc.Warnings) == 0 {
		t.Fatalf("expected a parse warning in the document")
	}
}

func TestViewVerboseEmitsDiagnostics(t *testing.T) {
	_, errOut, err := runConfig(t, `user_pref("a.b", 1);`,
		"view", "--stdin", "--no-builtins", "--no-globals", "--verbose")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !strings.Contains(errOut, `"scope":"config-view"`) {
		t.Fatalf("expected structured diagnostics on stderr, got %q", errOut)
	}
}
