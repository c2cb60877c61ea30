// Package profile discovers Firefox profiles from a profiles.ini file,
// with a directory-scan fallback for setups whose profile names do not
// match their directory names.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

var (
	ErrNoProfilesFile   = errors.New("profile: profiles.ini not found")
	ErrProfileNotFound  = errors.New("profile: profile not found")
	ErrAmbiguousProfile = errors.New("profile: multiple profiles match")
	ErrUnsupportedOS    = errors.New("profile: unsupported operating system")
)

// Info describes one profile declared in profiles.ini. LockedToInstall
// carries the install-section name (Firefox 67 and later) whose default
// profile this is, or the empty string.
type Info struct {
	Name            string `json:"name"`
	Path            string `json:"path"`
	IsDefault       bool   `json:"is_default"`
	IsRelative      bool   `json:"is_relative"`
	LockedToInstall string `json:"locked_to_install,omitempty"`
}

// List parses profiles.ini under profilesDir and returns every declared
// profile in declaration order.
func List(profilesDir string) ([]Info, error) {
	iniPath := filepath.Join(profilesDir, "profiles.ini")
	f, err := loadINI(iniPath)
	if err != nil {
		return nil, err
	}

	installs := installDefaults(f)
	var infos []Info
	for _, sec := range f.Sections() {
		if !isProfileSection(sec.Name()) {
			continue
		}
		name := sec.Key("Name").String()
		path := sec.Key("Path").String()
		if name == "" || path == "" {
			continue
		}
		infos = append(infos, Info{
			Name:            name,
			Path:            path,
			IsDefault:       sec.Key("Default").MustInt(0) == 1,
			IsRelative:      sec.Key("IsRelative").MustInt(1) == 1,
			LockedToInstall: installs[path],
		})
	}
	return infos, nil
}

// FindPath resolves a profile name to its directory. profiles.ini is
// authoritative; when it is missing or does not know the name, the
// profiles directory is scanned for an exact or `*.name` match.
func FindPath(profilesDir, name string) (string, error) {
	infos, err := List(profilesDir)
	if err == nil {
		for _, p := range infos {
			dir := p.Path
			if p.IsRelative {
				dir = filepath.Join(profilesDir, p.Path)
			}
			if p.Name == name {
				if _, statErr := os.Stat(dir); statErr == nil {
					return dir, nil
				}
			}
		}
	}
	return scanForProfile(profilesDir, name)
}

// PrefsPath returns the user-preference file inside a profile directory.
func PrefsPath(profileDir string) string {
	return filepath.Join(profileDir, "prefs.js")
}

// DefaultDirectory returns the platform's conventional profiles root.
func DefaultDirectory() (string, error) {
	switch runtime.GOOS {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, ".mozilla", "firefox"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "Firefox"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("profile: APPDATA environment variable not set")
		}
		return filepath.Join(appData, "Mozilla", "Firefox"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
	}
}

func loadINI(path string) (*ini.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoProfilesFile, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

func isProfileSection(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "profile")
}

// installDefaults maps a profile path to the install section that pins
// it as its default. Install sections are the hash-named ones that are
// neither profiles nor [General].
func installDefaults(f *ini.File) map[string]string {
	installs := make(map[string]string)
	for _, sec := range f.Sections() {
		name := sec.Name()
		lower := strings.ToLower(name)
		if name == ini.DefaultSection || lower == "general" || isProfileSection(name) {
			continue
		}
		if def := sec.Key("Default").String(); def != "" {
			installs[def] = name
		}
	}
	return installs
}

func scanForProfile(profilesDir, name string) (string, error) {
	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return "", fmt.Errorf("reading profiles directory %s: %w", profilesDir, err)
	}

	var matches []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		switch {
		case e.Name() == name:
			return filepath.Join(profilesDir, e.Name()), nil
		case strings.HasSuffix(e.Name(), "."+name):
			matches = append(matches, e.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q in %s", ErrProfileNotFound, name, profilesDir)
	case 1:
		return filepath.Join(profilesDir, matches[0]), nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w %q: %s (specify the exact directory name)",
			ErrAmbiguousProfile, name, strings.Join(matches, ", "))
	}
}
