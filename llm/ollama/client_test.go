package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/rs/zerolog"
)

func newOllamaServer(t *testing.T, chatStatus int, chatBody string, captured *map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"models":[{"name":"llama3.2:latest","model":"llama3.2:latest"}]}`)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(chatStatus)
		_, _ = io.WriteString(w, chatBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestInitialize(t *testing.T) {
	srv := newOllamaServer(t, http.StatusOK, `{}`, nil)
	client, err := NewOllamaClient(srv.URL, "", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Initialize(context.Background()); err != nil {
		t.Errorf("Expected Initialize to succeed, got %v", err)
	}
}

func TestInitializeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewOllamaClient(url, "", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	err = client.Initialize(context.Background())
	if !llm.IsProviderUnavailable(err) {
		t.Fatalf("Expected provider unavailable error, got %v", err)
	}
	if llm.HintFor(err) != "start it with: ollama serve" {
		t.Errorf("Unexpected hint %q", llm.HintFor(err))
	}
}

func TestChatCompletionToolCalls(t *testing.T) {
	body := `{"model":"llama3.2","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"weather","arguments":{"location":"Paris"}}}]},"done":true}`
	var sent map[string]any
	srv := newOllamaServer(t, http.StatusOK, body, &sent)

	client, err := NewOllamaClient(srv.URL, "", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := client.ChatCompletion(context.Background(), &llm.Request{
		Messages: []llm.Message{llm.NewUserMessage("weather in Paris?")},
		Tools: []llm.ToolDescriptor{{
			Name:        "weather",
			Description: "Get weather",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"location": map[string]any{"type": "string"}},
				"required":   []any{"location"},
			},
		}},
		ToolChoice: llm.ToolChoiceAuto,
	})
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	call := resp.ToolCalls[0]
	if call.ID != "" {
		t.Errorf("Expected empty id for Ollama tool call, got %q", call.ID)
	}
	if call.Arguments["location"] != "Paris" {
		t.Errorf("Expected structured arguments, got %v", call.Arguments)
	}

	if sent["stream"] != false {
		t.Errorf("Expected stream=false, got %v", sent["stream"])
	}
	if sent["model"] != DefaultModel {
		t.Errorf("Expected model %q, got %v", DefaultModel, sent["model"])
	}
	if tools, ok := sent["tools"].([]any); !ok || len(tools) != 1 {
		t.Errorf("Expected one tool in request, got %v", sent["tools"])
	}
}

func TestChatCompletionStatusError(t *testing.T) {
	srv := newOllamaServer(t, http.StatusNotFound, `{"error":"model \"nope\" not found, try pulling it first"}`, nil)
	client, err := NewOllamaClient(srv.URL, "nope", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.ChatCompletion(context.Background(), &llm.Request{Messages: []llm.Message{llm.NewUserMessage("hi")}})
	if llm.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d (%v)", llm.StatusCode(err), err)
	}
	if llm.Kind(llm.Classify(llm.ProviderOllama, err)) != llm.ErrorTypeClientError {
		t.Error("Expected 404 to classify as client error")
	}
}

func TestToOllamaMessageNormalizesArguments(t *testing.T) {
	msg := ToOllamaMessage(llm.NewAssistantMessage("", []llm.ToolCall{{ID: "c1", Name: "calculator", RawArguments: `{"a":1}`}}))
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(msg.ToolCalls))
	}
	if msg.ToolCalls[0].Function.Arguments["a"] != float64(1) {
		t.Errorf("Expected decoded argument, got %v", msg.ToolCalls[0].Function.Arguments)
	}
}

func TestToOllamaToolsEmpty(t *testing.T) {
	if ToOllamaTools(nil) != nil {
		t.Error("Expected nil for no tools")
	}
}
