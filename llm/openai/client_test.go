package openai

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

const toolCallResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": "",
      "tool_calls": [{
        "id": "call_abc",
        "type": "function",
        "function": {"name": "calculator", "arguments": "{\"operation\":\"add\",\"a\":2,\"b\":3}"}
      }]
    }
  }]
}`

const textResponse = `{
  "id": "chatcmpl-2",
  "object": "chat.completion",
  "model": "gpt-4o",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "5"}}]
}`

func newTestServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if captured != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatCompletionToolCalls(t *testing.T) {
	var sent map[string]any
	srv := newTestServer(t, http.StatusOK, toolCallResponse, &sent)
	client := NewOpenAIClient("sk-test", srv.URL+"/v1", "", "", zerolog.Nop())

	tools := []llm.ToolDescriptor{{
		Name:        "calculator",
		Description: "Performs arithmetic",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{"a": map[string]any{"type": "number"}}},
	}}

	resp, err := client.ChatCompletion(context.Background(), &llm.Request{
		Messages:   []llm.Message{llm.NewSystemMessage("be helpful"), llm.NewUserMessage("2+3?")},
		Tools:      tools,
		ToolChoice: llm.ToolChoiceAuto,
	})
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	call := resp.ToolCalls[0]
	if call.ID != "call_abc" || call.Name != "calculator" {
		t.Errorf("Unexpected tool call %+v", call)
	}
	if call.Input()["operation"] != "add" {
		t.Errorf("Expected decoded arguments, got %v", call.Input())
	}

	if sent["model"] != DefaultModel {
		t.Errorf("Expected default model %q, got %v", DefaultModel, sent["model"])
	}
	if sent["tool_choice"] != "auto" {
		t.Errorf("Expected tool_choice auto, got %v", sent["tool_choice"])
	}
	if sentTools, ok := sent["tools"].([]any); !ok || len(sentTools) != 1 {
		t.Errorf("Expected one tool in request, got %v", sent["tools"])
	}
}

func TestChatCompletionOmitsEmptyTools(t *testing.T) {
	var sent map[string]any
	srv := newTestServer(t, http.StatusOK, textResponse, &sent)
	client := NewOpenAIClient("sk-test", srv.URL+"/v1", "gpt-4o-mini", "", zerolog.Nop())

	resp, err := client.ChatCompletion(context.Background(), &llm.Request{
		Messages: []llm.Message{llm.NewUserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("ChatCompletion returned error: %v", err)
	}
	if resp.Content != "5" {
		t.Errorf("Expected content %q, got %q", "5", resp.Content)
	}
	if resp.ToolCalls == nil || len(resp.ToolCalls) != 0 {
		t.Errorf("Expected empty non-nil tool calls, got %#v", resp.ToolCalls)
	}
	if _, ok := sent["tools"]; ok {
		t.Error("Expected no tools field when there are no tools")
	}
	if _, ok := sent["tool_choice"]; ok {
		t.Error("Expected no tool_choice field when there are no tools")
	}
}

func TestChatCompletionStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		wantKind llm.ErrorType
	}{
		{http.StatusTooManyRequests, llm.ErrorTypeQuotaExceeded},
		{http.StatusUnauthorized, llm.ErrorTypeAuthFailed},
		{http.StatusNotFound, llm.ErrorTypeClientError},
	}

	for _, tt := range tests {
		srv := newTestServer(t, tt.status, `{"error":{"message":"nope","type":"invalid_request_error"}}`, nil)
		client := NewOpenAIClient("sk-test", srv.URL+"/v1", "", "", zerolog.Nop())

		_, err := client.ChatCompletion(context.Background(), &llm.Request{Messages: []llm.Message{llm.NewUserMessage("hi")}})
		if err == nil {
			t.Fatalf("Expected error for status %d", tt.status)
		}
		if llm.StatusCode(err) != tt.status {
			t.Errorf("Expected status %d, got %d", tt.status, llm.StatusCode(err))
		}
		if got := llm.Kind(llm.Classify(client.Kind(), err)); got != tt.wantKind {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.wantKind, got)
		}
	}
}

func TestInitializeRequiresAPIKey(t *testing.T) {
	client := NewOpenAIClient("", "", "", "", zerolog.Nop())
	err := client.Initialize(context.Background())
	if !llm.IsProviderUnavailable(err) {
		t.Fatalf("Expected provider unavailable error, got %v", err)
	}
	if llm.HintFor(err) == "" {
		t.Error("Expected a remediation hint")
	}

	if err := NewOpenAIClient("sk-test", "", "", "", zerolog.Nop()).Initialize(context.Background()); err != nil {
		t.Errorf("Expected Initialize to succeed with a key, got %v", err)
	}
}

func TestToOpenAIMessages(t *testing.T) {
	msgs := ToOpenAIMessages([]llm.Message{
		llm.NewAssistantMessage("", []llm.ToolCall{{ID: "c1", Name: "weather", Arguments: map[string]any{"location": "Paris"}}}),
		llm.NewToolMessage("c1", "weather", llm.ToolResult{"success": true}),
	})

	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ToolCalls[0].Function.Arguments != `{"location":"Paris"}` {
		t.Errorf("Unexpected encoded arguments %q", msgs[0].ToolCalls[0].Function.Arguments)
	}
	if msgs[1].Role != "tool" || msgs[1].ToolCallID != "c1" {
		t.Errorf("Unexpected tool message %+v", msgs[1])
	}
}

func TestFormatToolsEmpty(t *testing.T) {
	client := NewOpenAIClient("sk-test", "", "", "", zerolog.Nop())
	if client.FormatTools(nil) != nil {
		t.Error("Expected nil for no tools")
	}
}
