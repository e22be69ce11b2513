// ABOUTME: Test harness for end-to-end command runs against a mock Typefully API.
// ABOUTME: Provides an expectation queue, isolated config dirs, and JSON output helpers.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const testAPIKey = "typ_test_key_123456"

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// bodyJSON decodes the request body for assertions.
func (r recordedRequest) bodyJSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		t.Fatalf("request body is not a JSON object: %v (%s)", err, r.Body)
	}
	return out
}

type expectation struct {
	method string
	path   string
	status int
	body   string
}

type mockAPI struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	expected []expectation
	requests []recordedRequest
}

func newMockAPI(t *testing.T) *mockAPI {
	t.Helper()
	m := &mockAPI{t: t}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	if len(m.expected) == 0 {
		m.mu.Unlock()
		m.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	next := m.expected[0]
	m.expected = m.expected[1:]
	m.mu.Unlock()

	if next.method != r.Method || next.path != r.URL.Path {
		m.t.Errorf("request = %s %s, want %s %s", r.Method, r.URL.Path, next.method, next.path)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(next.status)
	_, _ = io.WriteString(w, next.body)
}

// expect queues a response. Requests must arrive in queue order.
func (m *mockAPI) expect(method, path string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expected = append(m.expected, expectation{method: method, path: path, status: status, body: body})
}

func (m *mockAPI) url(path string) string {
	return m.server.URL + path
}

func (m *mockAPI) assertDone() {
	m.t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.expected) > 0 {
		m.t.Errorf("%d expected requests were not made (next: %s %s)",
			len(m.expected), m.expected[0].method, m.expected[0].path)
	}
}

func (m *mockAPI) request(i int) recordedRequest {
	m.t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= len(m.requests) {
		m.t.Fatalf("only %d requests recorded, wanted index %d", len(m.requests), i)
	}
	return m.requests[i]
}

func (m *mockAPI) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type harness struct {
	t   *testing.T
	api *mockAPI
	cwd string
	xdg string
}

// newHarness isolates config paths and points the CLI at a mock API. The
// environment API key is set; tests that need file-based keys clear it.
func newHarness(t *testing.T) *harness {
	t.Helper()
	api := newMockAPI(t)

	root := t.TempDir()
	cwd := filepath.Join(root, "cwd")
	home := filepath.Join(root, "home")
	for _, dir := range []string{cwd, home} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(cwd)
	// Getwd may resolve symlinks in the temp dir, and the CLI uses Getwd too.
	resolved, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	xdg := filepath.Join(home, ".config")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("TYPEFULLY_API_BASE", api.url("/v2"))
	t.Setenv("TYPEFULLY_API_KEY", testAPIKey)
	t.Setenv("TYPEFULLY_MEDIA_POLL_INTERVAL_MS", "5")
	t.Setenv("TYPEFULLY_LOG_LEVEL", "")
	t.Setenv("TYPEFULLY_LOG_FORMAT", "")

	return &harness{t: t, api: api, cwd: resolved, xdg: xdg}
}

func (h *harness) localConfigPath() string {
	return filepath.Join(h.cwd, ".typefully", "config.json")
}

func (h *harness) globalConfigPath() string {
	return filepath.Join(h.xdg, "typefully", "config.json")
}

func (h *harness) writeConfig(path string, obj map[string]any) {
	h.t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		h.t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		h.t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		h.t.Fatal(err)
	}
}

func (h *harness) readConfig(path string) map[string]any {
	h.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		h.t.Fatalf("failed to read %s: %v", path, err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		h.t.Fatalf("invalid JSON in %s: %v", path, err)
	}
	return obj
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func (h *harness) run(argv ...string) cliResult {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), argv, strings.NewReader(""), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (r cliResult) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(r.stdout), &out); err != nil {
		t.Fatalf("stdout is not a JSON object: %v\nstdout: %s\nstderr: %s", err, r.stdout, r.stderr)
	}
	return out
}

// expectError asserts exit 1 and the error message.
func (r cliResult) expectError(t *testing.T, msg string) map[string]any {
	t.Helper()
	if r.code != 1 {
		t.Errorf("exit code = %d, want 1 (stdout: %s)", r.code, r.stdout)
	}
	out := r.json(t)
	if out["error"] != msg {
		t.Errorf("error = %q, want %q", out["error"], msg)
	}
	return out
}

// expectOK asserts exit 0 and returns the decoded output.
func (r cliResult) expectOK(t *testing.T) map[string]any {
	t.Helper()
	if r.code != 0 {
		t.Fatalf("exit code = %d, want 0\nstdout: %s\nstderr: %s", r.code, r.stdout, r.stderr)
	}
	return r.json(t)
}
