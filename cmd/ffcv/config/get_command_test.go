package config_test

import (
	"strings"
	"testing"
)

func TestGetPrintsRawStringValue(t *testing.T) {
	out, _, err := runConfig(t, `user_pref("network.proxy.http", "proxy.example.com");`,
		"get", "network.proxy.http", "--stdin", "--no-builtins", "--no-globals")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "proxy.example.com\n" {
		t.Fatalf("expected bare string value, got %q", out)
	}
}

func TestGetPrintsScalarValues(t *testing.T) {
	cases := []struct {
		text string
		key  string
		want string
	}{
		{`user_pref("flag", true);`, "flag", "true\n"},
		{`user_pref("count", -42);`, "count", "-42\n"},
		{`user_pref("ratio", 1.5);`, "ratio", "1.5\n"},
		{`user_pref("empty", null);`, "empty", "null\n"},
	}
	for _, tc := range cases {
		out, _, err := runConfig(t, tc.text,
			"get", tc.key, "--stdin", "--no-builtins", "--no-globals")
		if err != nil {
			t.Fatalf("get %s: %v", tc.key, err)
		}
		if out != tc.want {
			t.Errorf("get %s = %q, want %q", tc.key, out, tc.want)
		}
	}
}

func TestGetResolvesPrecedenceBeforePrinting(t *testing.T) {
	installDir := writeInstallDir(t)
	profilesDir := writeProfilesDir(t)

	out, _, err := runConfig(t, "",
		"get", "network.proxy.type", "--install-dir", installDir, "--profiles-dir", profilesDir)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "manual\n" {
		t.Fatalf("expected the user tier value, got %q", out)
	}
}

func TestGetUnknownKey(t *testing.T) {
	_, _, err := runConfig(t, `user_pref("a.b", 1);`,
		"get", "no.such.key", "--stdin", "--no-builtins", "--no-globals")
	if err == nil || !strings.Contains(err.Error(), "no.such.key") {
		t.Fatalf("expected not-found error naming the key, got %v", err)
	}
}

func TestGetUnexplainedOnlyRejectsExplainedKey(t *testing.T) {
	_, _, err := runConfig(t, `user_pref("javascript.enabled", false);`,
		"get", "javascript.enabled", "--stdin", "--no-builtins", "--no-globals", "--unexplained-only")
	if err == nil || !strings.Contains(err.Error(), "explanation") {
		t.Fatalf("expected unexplained-only rejection, got %v", err)
	}
}
