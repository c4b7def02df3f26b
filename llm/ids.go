package llm

import "github.com/google/uuid"

// NewToolCallID returns a process-unique id for a tool call the back-end did not label.
func NewToolCallID() string {
	return "call_" + uuid.NewString()
}
