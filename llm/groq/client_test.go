package groq

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/rs/zerolog"
)

func TestNewGroqClientDefaults(t *testing.T) {
	client := NewGroqClient("gsk-test", "", "", zerolog.Nop())
	if client.Kind() != llm.ProviderGroq {
		t.Errorf("Expected kind %v, got %v", llm.ProviderGroq, client.Kind())
	}
	if client.Model() != DefaultModel {
		t.Errorf("Expected default model %q, got %q", DefaultModel, client.Model())
	}
}

func TestInitializeRequiresAPIKey(t *testing.T) {
	err := NewGroqClient("", "", "", zerolog.Nop()).Initialize(context.Background())
	if !llm.IsProviderUnavailable(err) {
		t.Fatalf("Expected provider unavailable error, got %v", err)
	}
}

func TestErrorsNameGroq(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client := NewGroqClient("gsk-bad", srv.URL, "", zerolog.Nop())
	_, err := client.ChatCompletion(context.Background(), &llm.Request{Messages: []llm.Message{llm.NewUserMessage("hi")}})
	classified := llm.Classify(client.Kind(), err)
	if !llm.IsAuthFailed(classified) {
		t.Fatalf("Expected auth failure, got %v", classified)
	}
	if got := classified.Error(); len(got) < 4 || got[:4] != "GROQ" {
		t.Errorf("Expected message to name GROQ, got %q", got)
	}
}
