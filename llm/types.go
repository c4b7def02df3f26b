package llm

import (
	"encoding/json"
)

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message represents a single message in a conversation.
// This is provider-neutral; adapters translate it to and from their wire format.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`

	// ToolCalls is only set on assistant messages.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`

	// ToolCallID and Name are only set on tool messages.
	ToolCallID string `json:"toolCallId,omitempty"`
	Name       string `json:"name,omitempty"`
}

// ToolCall represents a tool invocation requested by the model.
//
// Adapters set exactly one of RawArguments (JSON text exactly as the back-end
// delivered it) or Arguments (already structured). Use Input to read them.
type ToolCall struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	RawArguments string         `json:"rawArguments,omitempty"`
	Arguments    map[string]any `json:"arguments,omitempty"`
}

// Input returns the call's arguments as a mapping. It never fails.
func (tc ToolCall) Input() map[string]any {
	if tc.Arguments != nil {
		return tc.Arguments
	}
	return NormalizeArguments(tc.RawArguments)
}

// ArgumentsJSON returns the call's arguments as JSON text, as expected by
// back-ends that take string-encoded arguments.
func (tc ToolCall) ArgumentsJSON() string {
	if tc.Arguments == nil && tc.RawArguments != "" {
		return tc.RawArguments
	}
	data, err := json.Marshal(tc.Input())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ToolResult is the structured outcome of one tool execution. It always has a
// boolean "success" key and either "result"/tool-specific fields or "error".
type ToolResult map[string]any

// Success reports whether the tool reported success.
func (r ToolResult) Success() bool {
	ok, _ := r["success"].(bool)
	return ok
}

// ErrorMessage returns the failure message, if any.
func (r ToolResult) ErrorMessage() string {
	msg, _ := r["error"].(string)
	return msg
}

// NewToolFailure builds the result recorded for a tool that could not run.
func NewToolFailure(msg string) ToolResult {
	return ToolResult{"success": false, "error": msg}
}

// ToolDescriptor describes a tool that can be offered to the model.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolChoice is the hint passed to back-ends about whether tools may be called.
type ToolChoice string

const (
	ToolChoiceNone ToolChoice = ""
	ToolChoiceAuto ToolChoice = "auto"
)

// Request represents a single chat completion request.
type Request struct {
	Messages   []Message
	Tools      []ToolDescriptor
	ToolChoice ToolChoice
}

// Response represents the canonical result of a chat completion.
// ToolCalls is empty (not nil) when the model asked for no tools.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// NewSystemMessage creates a system message.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates an assistant message carrying the model's text and tool calls.
func NewAssistantMessage(text string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// NewToolMessage creates a tool message answering the call with the given id.
func NewToolMessage(callID, name string, result ToolResult) Message {
	content, err := json.Marshal(result)
	if err != nil {
		content, _ = json.Marshal(NewToolFailure("failed to encode tool result: " + err.Error()))
	}
	return Message{
		Role:       RoleTool,
		Content:    string(content),
		ToolCallID: callID,
		Name:       name,
	}
}
