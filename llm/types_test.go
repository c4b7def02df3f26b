package llm

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeArguments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{name: "empty", raw: "", want: map[string]any{}},
		{name: "whitespace", raw: "  ", want: map[string]any{}},
		{name: "object", raw: `{"a":2,"b":3}`, want: map[string]any{"a": float64(2), "b": float64(3)}},
		{name: "invalid json", raw: "weather in Paris", want: map[string]any{"query": "weather in Paris"}},
		{name: "non-object json", raw: `[1,2]`, want: map[string]any{"query": `[1,2]`}},
		{name: "null", raw: `null`, want: map[string]any{"query": `null`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeArguments(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeArguments(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestToolCallInputRoundTrip(t *testing.T) {
	args := map[string]any{"operation": "add", "a": float64(2), "b": float64(3)}
	encoded, err := json.Marshal(args)
	if err != nil {
		t.Fatal(err)
	}

	fromString := ToolCall{Name: "calculator", RawArguments: string(encoded)}
	if !reflect.DeepEqual(fromString.Input(), args) {
		t.Errorf("Expected %v, got %v", args, fromString.Input())
	}

	structured := ToolCall{Name: "calculator", Arguments: args}
	if !reflect.DeepEqual(structured.Input(), args) {
		t.Errorf("Expected structured arguments to pass through unchanged, got %v", structured.Input())
	}
}

func TestToolCallArgumentsJSON(t *testing.T) {
	raw := ToolCall{RawArguments: `{"x":1}`}
	if raw.ArgumentsJSON() != `{"x":1}` {
		t.Errorf("Expected raw arguments unchanged, got %q", raw.ArgumentsJSON())
	}

	structured := ToolCall{Arguments: map[string]any{"x": 1}}
	if structured.ArgumentsJSON() != `{"x":1}` {
		t.Errorf("Expected encoded arguments, got %q", structured.ArgumentsJSON())
	}

	empty := ToolCall{}
	if empty.ArgumentsJSON() != `{}` {
		t.Errorf("Expected empty object, got %q", empty.ArgumentsJSON())
	}
}

func TestNewToolMessage(t *testing.T) {
	msg := NewToolMessage("call_1", "calculator", ToolResult{"success": true, "result": float64(5)})
	if msg.Role != RoleTool {
		t.Errorf("Expected role %v, got %v", RoleTool, msg.Role)
	}
	if msg.ToolCallID != "call_1" || msg.Name != "calculator" {
		t.Errorf("Unexpected correlation fields: %+v", msg)
	}

	var decoded ToolResult
	if err := json.Unmarshal([]byte(msg.Content), &decoded); err != nil {
		t.Fatalf("Expected JSON content, got %q: %v", msg.Content, err)
	}
	if !decoded.Success() || decoded["result"] != float64(5) {
		t.Errorf("Unexpected decoded result %v", decoded)
	}
}

func TestToolFailure(t *testing.T) {
	r := NewToolFailure("Tool not found")
	if r.Success() {
		t.Error("Expected failure")
	}
	if r.ErrorMessage() != "Tool not found" {
		t.Errorf("Unexpected error message %q", r.ErrorMessage())
	}
}
