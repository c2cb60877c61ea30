package locate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestValidateRequiresPreferenceSources(t *testing.T) {
	dir := t.TempDir()
	if _, err := Validate(dir); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty directory must not validate, got %v", err)
	}

	writeFile(t, filepath.Join(dir, "omni.ja"), "stub")
	install, err := Validate(dir)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !install.HasOmniJA || install.HasGreprefs {
		t.Fatalf("unexpected flags: %+v", install)
	}
	if install.Version != "unknown" {
		t.Fatalf("version should default to unknown, got %q", install.Version)
	}
}

func TestValidateNonexistentPath(t *testing.T) {
	if _, err := Validate(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateReadsVersionFromApplicationINI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "greprefs.js"), `pref("a", 1);`)
	writeFile(t, filepath.Join(dir, "application.ini"), "[App]\nVendor=Mozilla\nName=Firefox\nVersion=128.0\n")

	install, err := Validate(dir)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if install.Version != "128.0" {
		t.Fatalf("expected version 128.0, got %q", install.Version)
	}
	if !install.HasGreprefs {
		t.Fatalf("greprefs.js not detected")
	}
}

func TestVersionFallsBackToPlatformINI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "omni.ja"), "stub")
	writeFile(t, filepath.Join(dir, "platform.ini"), "[Build]\nMilestone=128.0.1\nVersion=128.0.1\n")

	install, err := Validate(dir)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if install.Version != "128.0.1" {
		t.Fatalf("expected version from platform.ini, got %q", install.Version)
	}
}

func TestOmniPathPrefersBrowserSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "omni.ja"), "root")
	writeFile(t, filepath.Join(dir, "browser", "omni.ja"), "browser")

	if got := OmniPath(dir); got != filepath.Join(dir, "browser", "omni.ja") {
		t.Fatalf("expected browser/omni.ja preferred, got %q", got)
	}
}

func TestGreprefsPathAbsent(t *testing.T) {
	if got := GreprefsPath(t.TempDir()); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}

func TestSearchPathsNotEmptyOnSupportedPlatforms(t *testing.T) {
	paths := searchPaths()
	if len(paths) == 0 {
		t.Skip("no search paths for this platform")
	}
}
