package ollama

import (
	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/ollama/ollama/api"
	"github.com/samber/lo"
)

// ToOllamaMessages converts llm.Messages to Ollama chat message format.
func ToOllamaMessages(msgs []llm.Message) []api.Message {
	return lo.Map(msgs, func(msg llm.Message, _ int) api.Message {
		return ToOllamaMessage(msg)
	})
}

// ToOllamaMessage converts a single llm.Message to Ollama format.
// Tool call arguments are sent as structured maps.
func ToOllamaMessage(msg llm.Message) api.Message {
	ollamaMsg := api.Message{
		Role:    string(msg.Role),
		Content: msg.Content,
	}
	for _, tc := range msg.ToolCalls {
		args := make(api.ToolCallFunctionArguments)
		for k, v := range tc.Input() {
			args[k] = v
		}
		ollamaMsg.ToolCalls = append(ollamaMsg.ToolCalls, api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      tc.Name,
				Arguments: args,
			},
		})
	}
	return ollamaMsg
}

// ToOllamaTools converts tool descriptors to Ollama function format.
// It returns nil when there are no tools.
func ToOllamaTools(tools []llm.ToolDescriptor) []api.Tool {
	if len(tools) == 0 {
		return nil
	}
	return lo.Map(tools, func(tool llm.ToolDescriptor, _ int) api.Tool {
		return ToOllamaTool(tool)
	})
}

// ToOllamaTool converts a single descriptor to Ollama Tool format.
// Only type, description and enum survive per property; Ollama's schema model is narrower than JSON Schema.
func ToOllamaTool(tool llm.ToolDescriptor) api.Tool {
	schemaType, _ := tool.InputSchema["type"].(string)
	if schemaType == "" {
		schemaType = "object"
	}

	properties := make(map[string]api.ToolProperty)
	if props, ok := tool.InputSchema["properties"].(map[string]any); ok {
		for name, raw := range props {
			prop := api.ToolProperty{Type: []string{"string"}}
			if propMap, ok := raw.(map[string]any); ok {
				if propType, ok := propMap["type"].(string); ok {
					prop.Type = []string{propType}
				}
				if desc, ok := propMap["description"].(string); ok {
					prop.Description = desc
				}
				switch enum := propMap["enum"].(type) {
				case []any:
					prop.Enum = enum
				case []string:
					prop.Enum = lo.ToAnySlice(enum)
				}
			}
			properties[name] = prop
		}
	}

	return api.Tool{
		Type: "function",
		Function: api.ToolFunction{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters: api.ToolFunctionParameters{
				Type:       schemaType,
				Properties: properties,
				Required:   requiredFields(tool.InputSchema["required"]),
			},
		},
	}
}

func requiredFields(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	default:
		return nil
	}
}

// ExtractContent returns the assistant text of a chat response.
func ExtractContent(resp api.ChatResponse) string {
	return resp.Message.Content
}

// ExtractToolCalls converts the response's tool calls. Ollama does not assign
// ids, so ID is left empty for the caller to fill in.
func ExtractToolCalls(resp api.ChatResponse) []llm.ToolCall {
	calls := make([]llm.ToolCall, 0, len(resp.Message.ToolCalls))
	for _, tc := range resp.Message.ToolCalls {
		calls = append(calls, FromOllamaToolCall(tc))
	}
	return calls
}

// FromOllamaToolCall converts an Ollama tool call response to llm.ToolCall.
func FromOllamaToolCall(toolCall api.ToolCall) llm.ToolCall {
	input := make(map[string]any, len(toolCall.Function.Arguments))
	for k, v := range toolCall.Function.Arguments {
		input[k] = v
	}
	return llm.ToolCall{
		Name:      toolCall.Function.Name,
		Arguments: input,
	}
}
