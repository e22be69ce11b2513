// ABOUTME: Configuration management for typefully with JSON config files.
// ABOUTME: Resolves API key and default social set across env, local, and global scopes.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config file keys.
const (
	KeyAPIKey             = "apiKey"
	KeyDefaultSocialSetID = "defaultSocialSetId"
)

// SourceEnv labels values read from the environment.
const SourceEnv = "environment variable"

// APIKeyURL is where users obtain an API key.
const APIKeyURL = "https://typefully.com/?settings=api"

// Scope selects which config file a write targets.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

// ParseScope accepts the names and the numeric menu choices used by setup.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "1":
		return ScopeGlobal, nil
	case "local", "2":
		return ScopeLocal, nil
	default:
		return "", fmt.Errorf("invalid location %q: use global or local", s)
	}
}

// Paths holds the two config file locations.
type Paths struct {
	Local  string
	Global string
}

// For returns the file path for a scope.
func (p Paths) For(scope Scope) string {
	if scope == ScopeLocal {
		return p.Local
	}
	return p.Global
}

// DefaultPaths returns ./.typefully/config.json and the user-wide config file.
func DefaultPaths() (Paths, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	global, err := GetConfigPath()
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		Local:  filepath.Join(cwd, ".typefully", "config.json"),
		Global: global,
	}, nil
}

// GetConfigPath returns the global config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "typefully", "config.json"), nil
}

// ReadFile loads a config object. Missing, unreadable, or malformed files
// report ok=false.
func ReadFile(path string) (map[string]any, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// Merge overlays updates onto the existing file contents and writes the
// result with owner-only permissions. Unrelated keys are preserved.
func Merge(path string, updates map[string]any) error {
	obj, ok := ReadFile(path)
	if !ok {
		obj = map[string]any{}
	}
	for k, v := range updates {
		obj[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	// WriteFile keeps the mode of a pre-existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	return nil
}

// Resolved is a config value plus where it came from.
type Resolved struct {
	Value  string
	Source string
}

// Resolver applies the lookup priority: environment (API key only), then the
// local file, then the global file.
type Resolver struct {
	Paths     Paths
	EnvAPIKey string
}

// APIKey returns the active API key.
func (r Resolver) APIKey() (Resolved, bool) {
	if r.EnvAPIKey != "" {
		return Resolved{Value: r.EnvAPIKey, Source: SourceEnv}, true
	}
	return r.fromFiles(KeyAPIKey)
}

// DefaultSocialSet returns the configured default social set id.
func (r Resolver) DefaultSocialSet() (Resolved, bool) {
	return r.fromFiles(KeyDefaultSocialSetID)
}

func (r Resolver) fromFiles(key string) (Resolved, bool) {
	for _, path := range []string{r.Paths.Local, r.Paths.Global} {
		if path == "" {
			continue
		}
		obj, ok := ReadFile(path)
		if !ok {
			continue
		}
		if v := stringValue(obj[key]); v != "" {
			return Resolved{Value: v, Source: path}, true
		}
	}
	return Resolved{}, false
}

// FileStatus summarizes one config file for config:show.
type FileStatus struct {
	Path                string `json:"path"`
	HasKey              bool   `json:"has_key"`
	HasDefaultSocialSet bool   `json:"has_default_social_set"`
}

// Status reports what a config file contains, or nil when it is absent.
func Status(path string) *FileStatus {
	obj, ok := ReadFile(path)
	if !ok {
		return nil
	}
	return &FileStatus{
		Path:                path,
		HasKey:              stringValue(obj[KeyAPIKey]) != "",
		HasDefaultSocialSet: stringValue(obj[KeyDefaultSocialSetID]) != "",
	}
}

// MaskKey shows the first eight characters of a key.
func MaskKey(key string) string {
	if len(key) > 8 {
		key = key[:8]
	}
	return key + "..."
}

// stringValue accepts strings and numbers; ids written by hand are often bare numbers.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
