package huggingface

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aschepis/backscratcher/sparky/llm"
)

const toolInstructions = `When you need to use a tool, respond with JSON in this format: {"tool": "tool_name", "arguments": {...}}`

// SystemPrompt returns the first system message's text with the tool
// catalogue appended when tools are offered.
func SystemPrompt(msgs []llm.Message, tools []llm.ToolDescriptor) string {
	var prompt string
	for _, msg := range msgs {
		if msg.Role == llm.RoleSystem {
			prompt = msg.Content
			break
		}
	}
	if len(tools) == 0 {
		return prompt
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nAvailable tools:\n")
	for i, tool := range tools {
		if i > 0 {
			b.WriteString("\n")
		}
		schema, err := json.Marshal(tool.InputSchema)
		if err != nil {
			schema = []byte("{}")
		}
		fmt.Fprintf(&b, "- %s: %s\n  Parameters: %s", tool.Name, tool.Description, schema)
	}
	b.WriteString("\n\n")
	b.WriteString(toolInstructions)
	return b.String()
}

// ConversationText joins the contents of every non-system message, one per line.
func ConversationText(msgs []llm.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role == llm.RoleSystem {
			continue
		}
		parts = append(parts, msg.Content)
	}
	return strings.Join(parts, "\n")
}
