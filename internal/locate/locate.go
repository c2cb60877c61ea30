// Package locate finds Firefox installations on the local system and
// the preference sources inside them.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/ini.v1"
)

// ErrNotFound reports that no Firefox installation could be found.
var ErrNotFound = errors.New("locate: no Firefox installation found")

// Installation describes one validated Firefox installation directory.
type Installation struct {
	Path        string `json:"path"`
	Version     string `json:"version"`
	HasOmniJA   bool   `json:"has_omni_ja"`
	HasGreprefs bool   `json:"has_greprefs"`
}

// searchPaths lists the conventional installation directories for the
// current platform.
func searchPaths() []string {
	switch runtime.GOOS {
	case "linux":
		paths := []string{
			"/usr/lib/firefox",
			"/usr/lib64/firefox",
			"/opt/firefox",
			"/usr/local/firefox",
			"/opt/firefox-beta",
			"/opt/firefox-esr",
		}
		return append(paths, nixStorePaths()...)
	case "darwin":
		return []string{
			"/Applications/Firefox.app/Contents/Resources",
			"/Applications/Firefox Beta.app/Contents/Resources",
			"/Applications/Firefox Developer Edition.app/Contents/Resources",
			"/Applications/Firefox ESR.app/Contents/Resources",
		}
	case "windows":
		return []string{
			`C:\Program Files\Mozilla Firefox`,
			`C:\Program Files\Firefox Beta`,
			`C:\Program Files\Firefox ESR`,
			`C:\Program Files\Mozilla Firefox ESR`,
			`C:\Program Files (x86)\Mozilla Firefox`,
			`C:\Program Files (x86)\Firefox Beta`,
			`C:\Program Files (x86)\Firefox ESR`,
			`C:\Program Files (x86)\Mozilla Firefox ESR`,
			`C:\Program Files\Mozilla Firefox Developer Edition`,
		}
	default:
		return nil
	}
}

// nixStorePaths resolves NixOS firefox symlinks to their store
// directories.
func nixStorePaths() []string {
	links := []string{
		"/nix/var/nix/profiles/default/bin/firefox",
		"/run/current-system/sw/bin/firefox",
	}
	var paths []string
	for _, link := range links {
		target, err := os.Readlink(link)
		if err != nil {
			continue
		}
		paths = append(paths, filepath.Dir(target))
	}
	return paths
}

// Find returns the first valid installation from the platform search
// paths.
func Find() (*Installation, error) {
	for _, p := range searchPaths() {
		if install, err := Validate(p); err == nil {
			return install, nil
		}
	}
	return nil, ErrNotFound
}

// FindAll returns every valid installation from the platform search
// paths, in search order.
func FindAll() []*Installation {
	var installs []*Installation
	for _, p := range searchPaths() {
		if install, err := Validate(p); err == nil {
			installs = append(installs, install)
		}
	}
	return installs
}

// Validate checks that dir holds a Firefox installation, which means at
// least one of omni.ja or greprefs.js is present. Version is read from
// application.ini on a best-effort basis.
func Validate(dir string) (*Installation, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	install := &Installation{Path: dir}
	install.HasOmniJA = OmniPath(dir) != ""
	install.HasGreprefs = GreprefsPath(dir) != ""
	if !install.HasOmniJA && !install.HasGreprefs {
		return nil, fmt.Errorf("%w: %s has neither omni.ja nor greprefs.js", ErrNotFound, dir)
	}

	install.Version = readVersion(dir)
	return install, nil
}

// OmniPath returns the installation's omni.ja path, preferring the
// browser subdirectory, or the empty string when absent.
func OmniPath(dir string) string {
	for _, p := range []string{
		filepath.Join(dir, "browser", "omni.ja"),
		filepath.Join(dir, "omni.ja"),
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// GreprefsPath returns the installation's greprefs.js path, or the
// empty string when absent.
func GreprefsPath(dir string) string {
	for _, p := range []string{
		filepath.Join(dir, "greprefs.js"),
		filepath.Join(dir, "browser", "greprefs.js"),
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// readVersion extracts the Version key from application.ini, falling
// back to platform.ini, then to "unknown".
func readVersion(dir string) string {
	for _, name := range []string{"application.ini", "platform.ini"} {
		f, err := ini.Load(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		for _, sec := range f.Sections() {
			if v := sec.Key("Version").String(); v != "" {
				return v
			}
		}
	}
	return "unknown"
}
