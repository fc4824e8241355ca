package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"diagterm/internal/api"
	"diagterm/internal/config"
	"diagterm/internal/logging"
	"diagterm/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t)
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *Daemon) {
	t.Helper()
	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	server := httptest.NewServer(d.api.server.Handler)
	t.Cleanup(server.Close)
	return server, d
}

func TestStatusEndpoint(t *testing.T) {
	cfg := testConfig(t)
	server, _ := newTestServer(t, cfg)

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	var payload api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.FeedSelection != "none" {
		t.Fatalf("feed selection = %q, want none before first poll", payload.FeedSelection)
	}
	if payload.DatabasePath == "" || payload.LockFilePath == "" {
		t.Fatalf("missing paths: %+v", payload)
	}
	if len(payload.Dependencies) == 0 {
		t.Fatal("expected dependency statuses")
	}
}

func TestCapabilitiesEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRunnerEnabled())
	server, _ := newTestServer(t, cfg)

	resp, err := http.Get(server.URL + "/api/capabilities")
	if err != nil {
		t.Fatalf("GET capabilities: %v", err)
	}
	defer resp.Body.Close()

	var payload api.Capabilities
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.RunnerEnabled {
		t.Fatal("expected runner enabled")
	}
	if payload.Version == "" {
		t.Fatal("expected version string")
	}
}

func TestRunEndpointForbiddenWhenDisabled(t *testing.T) {
	cfg := testConfig(t)
	server, _ := newTestServer(t, cfg)

	body, _ := json.Marshal(api.RunRequest{Command: "echo hi"})
	resp, err := http.Post(server.URL+"/api/run", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST run: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status code = %d, want 403", resp.StatusCode)
	}
}

func TestRunEndpointRejectsEmptyCommand(t *testing.T) {
	cfg := testConfig(t)
	cfg.Runner.Enabled = true
	server, _ := newTestServer(t, cfg)

	body, _ := json.Marshal(api.RunRequest{Command: "   "})
	resp, err := http.Post(server.URL+"/api/run", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST run: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want 400", resp.StatusCode)
	}
}

func TestRunEndpointExecutesAndRecords(t *testing.T) {
	cfg := testConfig(t)
	cfg.Runner.Enabled = true
	server, d := newTestServer(t, cfg)

	body, _ := json.Marshal(api.RunRequest{Command: "echo from-api"})
	resp, err := http.Post(server.URL+"/api/run", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST run: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	var record api.RunRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record.ID == "" || record.ExitCode != 0 {
		t.Fatalf("unexpected record: %+v", record)
	}

	runs, err := d.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Command != "echo from-api" {
		t.Fatalf("history mismatch: %+v", runs)
	}
}

func TestDiagnosticsEndpointEmptyFeed(t *testing.T) {
	cfg := testConfig(t)
	server, _ := newTestServer(t, cfg)

	resp, err := http.Get(server.URL + "/api/diagnostics?limit=10")
	if err != nil {
		t.Fatalf("GET diagnostics: %v", err)
	}
	defer resp.Body.Close()

	var payload api.DiagnosticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Selection != "none" {
		t.Fatalf("selection = %q", payload.Selection)
	}
	if len(payload.Lines) != 0 {
		t.Fatalf("unexpected lines: %v", payload.Lines)
	}
}

func TestBearerTokenRequired(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("hunter2"))
	server, _ := newTestServer(t, cfg)

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status code = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/status", nil)
	req.Header.Set("Authorization", "Bearer hunter2")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with token: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code with token = %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	cfg := testConfig(t)
	server, _ := newTestServer(t, cfg)

	resp, err := http.Post(server.URL+"/api/status", "application/json", nil)
	if err != nil {
		t.Fatalf("POST status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status code = %d, want 405", resp.StatusCode)
	}
}

func TestClampLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/processes?limit=999", nil)
	if got := clampLimit(req, 10, 200); got != 200 {
		t.Fatalf("clamp high = %d", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/processes?limit=0", nil)
	if got := clampLimit(req, 10, 200); got != 1 {
		t.Fatalf("clamp low = %d", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/processes", nil)
	if got := clampLimit(req, 10, 200); got != 10 {
		t.Fatalf("default = %d", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/processes?limit=abc", nil)
	if got := clampLimit(req, 10, 200); got != 10 {
		t.Fatalf("garbage = %d", got)
	}
}
