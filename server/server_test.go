package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sparkymcp "github.com/aschepis/backscratcher/sparky/mcp"
	"github.com/aschepis/backscratcher/sparky/tools"
	"github.com/aschepis/backscratcher/sparky/tools/schemas"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := New(Config{Name: "test-tools", Logger: zerolog.Nop()}, tools.NewDefaultRegistry(t.TempDir(), zerolog.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, baseURL string) *sparkymcp.HttpMCPClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := sparkymcp.NewHttpMCPClient(zerolog.Nop(), baseURL+EndpointPath)
	if err != nil {
		t.Fatalf("NewHttpMCPClient() error = %v", err)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + HealthPath)
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["server"] != "test-tools" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestListTools(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.URL)

	descriptors, err := c.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}

	got := map[string]bool{}
	for _, d := range descriptors {
		got[d.Name] = true
		if d.InputSchema["type"] != "object" {
			t.Errorf("tool %s schema type = %v", d.Name, d.InputSchema["type"])
		}
	}
	for _, name := range schemas.Names() {
		if !got[name] {
			t.Errorf("tool %s missing from tools/list", name)
		}
	}
}

func TestCallTool(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.URL)
	ctx := context.Background()

	result, err := c.CallTool(ctx, "calculator", map[string]any{"operation": "multiply", "a": 6, "b": 7})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if !result.Success() {
		t.Fatalf("expected success, got %v", result)
	}
	if result["result"] != float64(42) {
		t.Errorf("result = %v, want 42", result["result"])
	}

	result, err = c.CallTool(ctx, "calculator", map[string]any{"operation": "divide", "a": 1, "b": 0})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if result.Success() || result.ErrorMessage() != "Division by zero is not allowed" {
		t.Errorf("expected tool-level failure, got %v", result)
	}
}

func TestCallUnknownTool(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.URL)

	if _, err := c.CallTool(context.Background(), "does_not_exist", map[string]any{}); err == nil {
		t.Error("expected an error for an unknown tool")
	}
}
