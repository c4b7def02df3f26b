package openai

import (
	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"
)

// ToOpenAIMessages converts llm.Messages to OpenAI chat message format.
func ToOpenAIMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	return lo.Map(msgs, func(msg llm.Message, _ int) openai.ChatCompletionMessage {
		return ToOpenAIMessage(msg)
	})
}

// ToOpenAIMessage converts a single llm.Message to OpenAI format.
func ToOpenAIMessage(msg llm.Message) openai.ChatCompletionMessage {
	switch msg.Role {
	case llm.RoleSystem:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: msg.Content}
	case llm.RoleAssistant:
		return openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   msg.Content,
			ToolCalls: lo.Map(msg.ToolCalls, func(tc llm.ToolCall, _ int) openai.ToolCall { return ToOpenAIToolCall(tc) }),
		}
	case llm.RoleTool:
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
	default:
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: msg.Content}
	}
}

// ToOpenAIToolCall converts a canonical tool call back into the function-call
// form OpenAI expects to see echoed in the assistant message.
func ToOpenAIToolCall(tc llm.ToolCall) openai.ToolCall {
	return openai.ToolCall{
		ID:   tc.ID,
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      tc.Name,
			Arguments: tc.ArgumentsJSON(),
		},
	}
}

// ToOpenAITools converts tool descriptors to OpenAI function format.
// It returns nil when there are no tools.
func ToOpenAITools(tools []llm.ToolDescriptor) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	return lo.Map(tools, func(tool llm.ToolDescriptor, _ int) openai.Tool {
		return ToOpenAITool(tool)
	})
}

// ToOpenAITool converts a single descriptor to OpenAI Tool format.
func ToOpenAITool(tool llm.ToolDescriptor) openai.Tool {
	parameters := tool.InputSchema
	if parameters == nil {
		parameters = map[string]any{"type": "object", "properties": map[string]any{}}
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  parameters,
		},
	}
}

// ExtractContent returns the text of the first choice, or "".
func ExtractContent(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

// ExtractToolCalls returns the tool calls of the first choice. Arguments are
// left as the JSON text the API returned.
func ExtractToolCalls(resp openai.ChatCompletionResponse) []llm.ToolCall {
	if len(resp.Choices) == 0 {
		return []llm.ToolCall{}
	}
	calls := make([]llm.ToolCall, 0, len(resp.Choices[0].Message.ToolCalls))
	for _, tc := range resp.Choices[0].Message.ToolCalls {
		calls = append(calls, FromOpenAIToolCall(tc))
	}
	return calls
}

// FromOpenAIToolCall converts an OpenAI tool call response to llm.ToolCall.
func FromOpenAIToolCall(toolCall openai.ToolCall) llm.ToolCall {
	return llm.ToolCall{
		ID:           toolCall.ID,
		Name:         toolCall.Function.Name,
		RawArguments: toolCall.Function.Arguments,
	}
}
