// ABOUTME: Tests for typefully configuration resolution and persistence.
// ABOUTME: Covers priority order, malformed files, merge writes, and env settings.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Local:  filepath.Join(dir, "project", ".typefully", "config.json"),
		Global: filepath.Join(dir, "home", ".config", "typefully", "config.json"),
	}
}

func TestGetConfigPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error: %v", err)
	}
	want := filepath.Join(dir, "typefully", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestGetConfigPathFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error: %v", err)
	}
	want := filepath.Join(home, ".config", "typefully", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestResolverAPIKeyPriority(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		local      string
		global     string
		wantValue  string
		wantSource string
	}{
		{"env wins", "env-key", `{"apiKey":"local-key"}`, `{"apiKey":"global-key"}`, "env-key", SourceEnv},
		{"local beats global", "", `{"apiKey":"local-key"}`, `{"apiKey":"global-key"}`, "local-key", "local"},
		{"global only", "", "", `{"apiKey":"global-key"}`, "global-key", "global"},
		{"malformed local skipped", "", `{not json`, `{"apiKey":"global-key"}`, "global-key", "global"},
		{"empty local value skipped", "", `{"apiKey":""}`, `{"apiKey":"global-key"}`, "global-key", "global"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := testPaths(t)
			if tt.local != "" {
				writeConfig(t, paths.Local, tt.local)
			}
			if tt.global != "" {
				writeConfig(t, paths.Global, tt.global)
			}

			got, ok := Resolver{Paths: paths, EnvAPIKey: tt.env}.APIKey()
			if !ok {
				t.Fatal("expected a key")
			}
			if got.Value != tt.wantValue {
				t.Errorf("value = %q, want %q", got.Value, tt.wantValue)
			}
			wantSource := tt.wantSource
			switch wantSource {
			case "local":
				wantSource = paths.Local
			case "global":
				wantSource = paths.Global
			}
			if got.Source != wantSource {
				t.Errorf("source = %q, want %q", got.Source, wantSource)
			}
		})
	}
}

func TestResolverNoKey(t *testing.T) {
	paths := testPaths(t)
	if _, ok := (Resolver{Paths: paths}).APIKey(); ok {
		t.Error("expected no key when nothing is configured")
	}
}

func TestResolverDefaultSocialSetIgnoresEnv(t *testing.T) {
	paths := testPaths(t)
	writeConfig(t, paths.Global, `{"defaultSocialSetId":"42"}`)

	got, ok := Resolver{Paths: paths, EnvAPIKey: "env-key"}.DefaultSocialSet()
	if !ok || got.Value != "42" || got.Source != paths.Global {
		t.Errorf("DefaultSocialSet() = %+v, %v", got, ok)
	}
}

func TestResolverNumericDefault(t *testing.T) {
	paths := testPaths(t)
	writeConfig(t, paths.Local, `{"defaultSocialSetId":12345}`)

	got, ok := Resolver{Paths: paths}.DefaultSocialSet()
	if !ok || got.Value != "12345" {
		t.Errorf("DefaultSocialSet() = %+v, %v", got, ok)
	}
}

func TestMergePreservesKeysAndPermissions(t *testing.T) {
	paths := testPaths(t)
	writeConfig(t, paths.Global, `{"apiKey":"old","custom":"keep"}`)
	if err := os.Chmod(paths.Global, 0644); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if err := Merge(paths.Global, map[string]any{KeyDefaultSocialSetID: "7"}); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}

	data, err := os.ReadFile(paths.Global)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("expected trailing newline")
	}
	if !strings.Contains(string(data), "\n  \"apiKey\"") {
		t.Errorf("expected two-space indentation, got %s", data)
	}

	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]string{"apiKey": "old", "custom": "keep", "defaultSocialSetId": "7"}
	for k, v := range want {
		if obj[k] != v {
			t.Errorf("%s = %q, want %q", k, obj[k], v)
		}
	}

	info, err := os.Stat(paths.Global)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestMergeCreatesParentDirs(t *testing.T) {
	paths := testPaths(t)
	if err := Merge(paths.Local, map[string]any{KeyAPIKey: "k"}); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if obj, ok := ReadFile(paths.Local); !ok || obj[KeyAPIKey] != "k" {
		t.Errorf("ReadFile() = %v, %v", obj, ok)
	}
}

func TestMergeReplacesMalformedFile(t *testing.T) {
	paths := testPaths(t)
	writeConfig(t, paths.Local, `[1,2`)
	if err := Merge(paths.Local, map[string]any{KeyAPIKey: "k"}); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if _, ok := ReadFile(paths.Local); !ok {
		t.Error("expected a readable file after merge")
	}
}

func TestStatus(t *testing.T) {
	paths := testPaths(t)
	if Status(paths.Local) != nil {
		t.Error("expected nil status for missing file")
	}
	writeConfig(t, paths.Local, `{"apiKey":"k"}`)
	st := Status(paths.Local)
	if st == nil || !st.HasKey || st.HasDefaultSocialSet || st.Path != paths.Local {
		t.Errorf("Status() = %+v", st)
	}
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]Scope{"global": ScopeGlobal, "1": ScopeGlobal, "LOCAL": ScopeLocal, "2": ScopeLocal} {
		got, err := ParseScope(in)
		if err != nil || got != want {
			t.Errorf("ParseScope(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseScope("project"); err == nil {
		t.Error("expected error for unknown scope")
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey("abcdefghijkl"); got != "abcdefgh..." {
		t.Errorf("MaskKey() = %q", got)
	}
	if got := MaskKey("abc"); got != "abc..." {
		t.Errorf("MaskKey(short) = %q", got)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("TYPEFULLY_API_KEY", "")
	t.Setenv("TYPEFULLY_API_BASE", "")
	t.Setenv("TYPEFULLY_MEDIA_POLL_INTERVAL_MS", "")
	t.Setenv("TYPEFULLY_LOG_LEVEL", "")

	s := LoadSettings()
	if s.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", s.APIKey)
	}
	if s.APIBase != DefaultAPIBase {
		t.Errorf("APIBase = %q", s.APIBase)
	}
	if s.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v", s.PollInterval)
	}
	if s.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", s.LogLevel)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	t.Setenv("TYPEFULLY_API_KEY", "env-key")
	t.Setenv("TYPEFULLY_API_BASE", "http://127.0.0.1:9999/v2/")
	t.Setenv("TYPEFULLY_MEDIA_POLL_INTERVAL_MS", "25")

	s := LoadSettings()
	if s.APIKey != "env-key" {
		t.Errorf("APIKey = %q", s.APIKey)
	}
	if s.APIBase != "http://127.0.0.1:9999/v2" {
		t.Errorf("APIBase = %q", s.APIBase)
	}
	if s.PollInterval != 25*time.Millisecond {
		t.Errorf("PollInterval = %v", s.PollInterval)
	}
}

func TestLoadSettingsInvalidIntervalFallsBack(t *testing.T) {
	t.Setenv("TYPEFULLY_MEDIA_POLL_INTERVAL_MS", "soon")
	if s := LoadSettings(); s.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v", s.PollInterval)
	}
}
