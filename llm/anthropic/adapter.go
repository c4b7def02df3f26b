package anthropic

import (
	"encoding/json"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/samber/lo"
)

// ToMessageParams converts a conversation to Anthropic's shape.
//
// System messages are lifted out into system blocks. Consecutive tool messages
// are merged into a single user message of tool_result blocks, since the API
// expects every result for a turn in one message.
func ToMessageParams(msgs []llm.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	result := make([]anthropic.MessageParam, 0, len(msgs))

	var pendingResults []anthropic.ContentBlockParamUnion
	flush := func() {
		if len(pendingResults) > 0 {
			result = append(result, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, msg := range msgs {
		if msg.Role == llm.RoleTool {
			pendingResults = append(pendingResults, ToToolResultBlock(msg))
			continue
		}
		flush()

		switch msg.Role {
		case llm.RoleSystem:
			if msg.Content != "" {
				system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			}
		case llm.RoleAssistant:
			result = append(result, ToAssistantMessage(msg))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	flush()

	return system, result
}

// ToAssistantMessage converts an assistant message with optional tool calls.
func ToAssistantMessage(msg llm.Message) anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.ToolCalls)+1)
	if msg.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.Input(), tc.Name))
	}
	return anthropic.NewAssistantMessage(blocks...)
}

// ToToolResultBlock converts a tool message into a tool_result block.
func ToToolResultBlock(msg llm.Message) anthropic.ContentBlockParamUnion {
	var result llm.ToolResult
	isError := false
	if err := json.Unmarshal([]byte(msg.Content), &result); err == nil && result != nil {
		isError = !result.Success()
	}
	return anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, isError)
}

// ToToolUnionParam converts a descriptor to an Anthropic ToolUnionParam.
func ToToolUnionParam(tool llm.ToolDescriptor) anthropic.ToolUnionParam {
	toolParam := anthropic.ToolParam{
		Name:        tool.Name,
		Description: anthropic.String(tool.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: tool.InputSchema["properties"],
			Required:   requiredFields(tool.InputSchema["required"]),
		},
	}

	return anthropic.ToolUnionParam{OfTool: &toolParam}
}

// ToToolUnionParams converts descriptors to Anthropic ToolUnionParams.
// It returns nil when there are no tools.
func ToToolUnionParams(tools []llm.ToolDescriptor) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	return lo.Map(tools, func(tool llm.ToolDescriptor, _ int) anthropic.ToolUnionParam {
		return ToToolUnionParam(tool)
	})
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
