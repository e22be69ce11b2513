// ABOUTME: Tests for setup, config:show, and config:set-default in non-interactive mode.
// ABOUTME: Config files live in per-test temp dirs; stdin is never a terminal here.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const oneSocialSet = `{"results":[{"id":321,"name":"Personal","username":"me"}]}`

func TestSetupNonInteractiveGlobal(t *testing.T) {
	h := newHarness(t)
	t.Setenv("TYPEFULLY_API_KEY", "")
	h.api.expect("GET", "/v2/social-sets", 200, oneSocialSet)

	out := h.run("setup", "--key", "typ_new_key_abcdef").expectOK(t)
	if out["scope"] != "global" || out["config_path"] != h.globalConfigPath() {
		t.Errorf("output = %v", out)
	}
	if out["default_social_set_id"] != "321" {
		t.Errorf("default_social_set_id = %v", out["default_social_set_id"])
	}

	cfg := h.readConfig(h.globalConfigPath())
	if cfg["apiKey"] != "typ_new_key_abcdef" || cfg["defaultSocialSetId"] != "321" {
		t.Errorf("config = %v", cfg)
	}
	if auth := h.api.request(0).Header.Get("Authorization"); auth != "Bearer typ_new_key_abcdef" {
		t.Errorf("social sets fetched with %q", auth)
	}

	info, err := os.Stat(h.globalConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config mode = %o, want 600", perm)
	}
}

func TestSetupPositionalKeyNoDefault(t *testing.T) {
	h := newHarness(t)

	out := h.run("setup", "typ_pos_key_000000", "--no-default").expectOK(t)
	if v, ok := out["default_social_set_id"]; !ok || v != nil {
		t.Errorf("default_social_set_id = %v, want null", v)
	}
	if h.api.count() != 0 {
		t.Error("--no-default must not fetch social sets")
	}
	if _, ok := h.readConfig(h.globalConfigPath())["defaultSocialSetId"]; ok {
		t.Error("default must not be stored")
	}
}

func TestSetupManySocialSetsNonInteractive(t *testing.T) {
	h := newHarness(t)
	h.api.expect("GET", "/v2/social-sets", 200,
		`{"results":[{"id":1,"name":"A"},{"id":2,"name":"B"}]}`)

	out := h.run("setup", "--key", "typ_k_1234567890").expectOK(t)
	if out["default_social_set_id"] != nil {
		t.Errorf("default_social_set_id = %v, want null", out["default_social_set_id"])
	}
}

func TestSetupSocialSetFetchFailureStillSucceeds(t *testing.T) {
	h := newHarness(t)
	h.api.expect("GET", "/v2/social-sets", 500, `{"detail":"boom"}`)

	res := h.run("setup", "--key", "typ_k_1234567890")
	res.expectOK(t)
	if !strings.Contains(res.stderr, "Could not fetch social sets") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestSetupExplicitDefault(t *testing.T) {
	h := newHarness(t)
	h.api.expect("GET", "/v2/social-sets/55", 200, `{"id":55}`)

	out := h.run("setup", "--key", "typ_k_1234567890", "--default-social-set", "55").expectOK(t)
	if out["default_social_set_id"] != "55" {
		t.Errorf("output = %v", out)
	}
}

func TestSetupInvalidDefault(t *testing.T) {
	h := newHarness(t)
	h.api.expect("GET", "/v2/social-sets/999", 404, `{"detail":"Not found"}`)

	h.run("setup", "--key", "typ_k_1234567890", "--default-social-set", "999").
		expectError(t, "Social set 999 not found or not accessible")
}

func TestSetupLocalCreatesGitignore(t *testing.T) {
	h := newHarness(t)

	out := h.run("setup", "--key", "typ_k_1234567890", "--location", "local", "--no-default").expectOK(t)
	if out["scope"] != "local" || out["config_path"] != h.localConfigPath() {
		t.Errorf("output = %v", out)
	}

	data, err := os.ReadFile(filepath.Join(h.cwd, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != gitignoreBlock {
		t.Errorf(".gitignore = %q", data)
	}
}

func TestSetupLocalAppendsToGitignore(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.cwd, ".gitignore")
	if err := os.WriteFile(path, []byte("node_modules/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	h.run("setup", "--key", "typ_k_1234567890", "--scope", "local", "--no-default").expectOK(t)
	h.run("setup", "--key", "typ_k_1234567890", "--scope", "local", "--no-default").expectOK(t)

	data, _ := os.ReadFile(path)
	if want := "node_modules/\n\n" + gitignoreBlock; string(data) != want {
		t.Errorf(".gitignore = %q, want %q", data, want)
	}
}

func TestSetupWithoutKeyNonInteractive(t *testing.T) {
	h := newHarness(t)
	out := h.run("setup").expectError(t, "API key is required")
	if out["hint"] != "Run: typefully setup --key <api_key>" {
		t.Errorf("hint = %v", out["hint"])
	}
}

func TestSetupInvalidLocation(t *testing.T) {
	h := newHarness(t)
	res := h.run("setup", "--key", "typ_k_1234567890", "--location", "moon")
	if res.code != 1 {
		t.Errorf("exit code = %d", res.code)
	}
	if _, err := os.Stat(h.globalConfigPath()); err == nil {
		t.Error("nothing should be written for an invalid location")
	}
}

func TestConfigShowUnconfigured(t *testing.T) {
	h := newHarness(t)
	t.Setenv("TYPEFULLY_API_KEY", "")

	out := h.run("config:show").expectOK(t)
	if out["configured"] != false || out["hint"] != "Run: typefully setup" {
		t.Errorf("output = %v", out)
	}
}

func TestSetupThenConfigShow(t *testing.T) {
	h := newHarness(t)
	t.Setenv("TYPEFULLY_API_KEY", "")

	h.run("setup", "--key", testAPIKey, "--no-default").expectOK(t)
	h.writeConfig(h.localConfigPath(), map[string]any{"defaultSocialSetId": 42})

	out := h.run("config:show").expectOK(t)
	if out["configured"] != true || out["api_key_preview"] != "typ_test..." {
		t.Errorf("output = %v", out)
	}
	if out["active_source"] != h.globalConfigPath() {
		t.Errorf("active_source = %v", out["active_source"])
	}

	def, _ := out["default_social_set"].(map[string]any)
	if def["id"] != "42" || def["source"] != h.localConfigPath() {
		t.Errorf("default_social_set = %v", out["default_social_set"])
	}

	files, _ := out["config_files"].(map[string]any)
	global, _ := files["global"].(map[string]any)
	local, _ := files["local"].(map[string]any)
	if global["has_key"] != true || local["has_key"] != false || local["has_default_social_set"] != true {
		t.Errorf("config_files = %v", files)
	}
}

func TestAPIKeyPriority(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(h.globalConfigPath(), map[string]any{"apiKey": "global_key_xxxx"})
	h.writeConfig(h.localConfigPath(), map[string]any{"apiKey": "local_key_yyyy"})

	tests := []struct {
		env  string
		want string
	}{
		{"env_key_zzzz", "env_key_zzzz"},
		{"", "local_key_yyyy"},
	}
	for _, tt := range tests {
		t.Setenv("TYPEFULLY_API_KEY", tt.env)
		h.api.expect("GET", "/v2/me", 200, `{}`)
		h.run("me:get").expectOK(t)
		if auth := h.api.request(h.api.count() - 1).Header.Get("Authorization"); auth != "Bearer "+tt.want {
			t.Errorf("env %q: Authorization = %q, want key %q", tt.env, auth, tt.want)
		}
	}

	if err := os.Remove(h.localConfigPath()); err != nil {
		t.Fatal(err)
	}
	h.api.expect("GET", "/v2/me", 200, `{}`)
	h.run("me:get").expectOK(t)
	if auth := h.api.request(h.api.count() - 1).Header.Get("Authorization"); auth != "Bearer global_key_xxxx" {
		t.Errorf("Authorization = %q, want global key", auth)
	}
}

func TestConfigSetDefaultLocal(t *testing.T) {
	h := newHarness(t)
	h.api.expect("GET", "/v2/social-sets/88", 200, `{"id":88}`)

	out := h.run("config:set-default", "88", "--location", "local").expectOK(t)
	if out["default_social_set_id"] != "88" || out["scope"] != "local" {
		t.Errorf("output = %v", out)
	}
	if got := h.readConfig(h.localConfigPath())["defaultSocialSetId"]; got != "88" {
		t.Errorf("stored default = %v", got)
	}
}

func TestConfigSetDefaultDefaultsToGlobal(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(h.globalConfigPath(), map[string]any{"apiKey": "keep_me", "defaultSocialSetId": "1"})
	h.api.expect("GET", "/v2/social-sets/2", 200, `{}`)

	h.run("config:set-default", "--social-set-id", "2").expectOK(t)

	cfg := h.readConfig(h.globalConfigPath())
	if cfg["defaultSocialSetId"] != "2" || cfg["apiKey"] != "keep_me" {
		t.Errorf("config = %v", cfg)
	}
}

func TestConfigSetDefaultUnknownSet(t *testing.T) {
	h := newHarness(t)
	h.api.expect("GET", "/v2/social-sets/404", 404, `{}`)

	h.run("config:set-default", "404").expectError(t, "Social set 404 not found or not accessible")
	if _, err := os.Stat(h.globalConfigPath()); err == nil {
		t.Error("config must not be written for an unknown social set")
	}
}

func TestConfigSetDefaultWithoutIDNonInteractive(t *testing.T) {
	h := newHarness(t)
	h.run("config:set-default").expectError(t, "social_set_id is required")
	if h.api.count() != 0 {
		t.Error("expected no requests")
	}
}
