package huggingface

import (
	"regexp"

	"github.com/aschepis/backscratcher/sparky/llm"
)

// toolRequestPattern matches one {"tool": "...", "arguments": {...}} fragment.
// Arguments may not contain nested objects.
var toolRequestPattern = regexp.MustCompile(`\{\s*"tool"\s*:\s*"([^"]+)"\s*,\s*"arguments"\s*:\s*(\{[^{}]*\})\s*\}`)

// ExtractToolCalls recovers at most one tool request from generated text.
// Arguments are kept as the matched JSON text.
func ExtractToolCalls(content string) []llm.ToolCall {
	match := toolRequestPattern.FindStringSubmatch(content)
	if match == nil {
		return []llm.ToolCall{}
	}
	return []llm.ToolCall{{
		ID:           llm.NewToolCallID(),
		Name:         match[1],
		RawArguments: match[2],
	}}
}
