package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestHealthURL(t *testing.T) {
	got, err := HealthURL("http://localhost:8000/mcp")
	if err != nil {
		t.Fatal(err)
	}
	if got != "http://localhost:8000/health" {
		t.Errorf("Expected health URL, got %q", got)
	}
}

func TestWaitForHealthyRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := WaitForHealthy(context.Background(), srv.URL+"/health", 5*time.Second, zerolog.Nop()); err != nil {
		t.Fatalf("Expected server to become healthy, got %v", err)
	}
	if atomic.LoadInt32(&calls) < 3 {
		t.Errorf("Expected at least 3 probes, got %d", calls)
	}
}

func TestWaitForHealthyGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := WaitForHealthy(context.Background(), srv.URL+"/health", 300*time.Millisecond, zerolog.Nop())
	if err == nil {
		t.Fatal("Expected error for a server that never becomes healthy")
	}
}
