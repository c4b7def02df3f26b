package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/rs/zerolog"
)

const (
	DefaultModel     = "claude-haiku-4-5"
	DefaultMaxTokens = 1024
)

// AnthropicClient implements llm.Provider for Anthropic's Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	apiKey    string
	model     string
	maxTokens int64
	logger    zerolog.Logger
}

// NewAnthropicClient creates a new AnthropicClient. Extra request options
// (such as option.WithBaseURL) are passed to the SDK. SDK retries are off so
// every ChatCompletion sends exactly one request.
func NewAnthropicClient(apiKey, model string, maxTokens int64, logger zerolog.Logger, opts ...option.RequestOption) *AnthropicClient {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	defaults := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := anthropic.NewClient(append(defaults, opts...)...)
	return &AnthropicClient{
		client:    &client,
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger.With().Str("component", "llm").Str("provider", string(llm.ProviderAnthropic)).Logger(),
	}
}

// Kind implements llm.Provider.
func (c *AnthropicClient) Kind() llm.ProviderKind {
	return llm.ProviderAnthropic
}

// Initialize implements llm.Provider.
func (c *AnthropicClient) Initialize(ctx context.Context) error {
	if c.apiKey == "" {
		return llm.NewUnavailableError(llm.ProviderAnthropic,
			"Anthropic API key is not configured",
			"set ANTHROPIC_API_KEY or anthropic.api_key in the config file",
			nil)
	}
	c.logger.Info().Str("model", c.model).Msg("Anthropic provider initialized")
	return nil
}

// FormatTools implements llm.Provider.
func (c *AnthropicClient) FormatTools(tools []llm.ToolDescriptor) any {
	formatted := ToToolUnionParams(tools)
	if formatted == nil {
		return nil
	}
	return formatted
}

// ChatCompletion implements llm.Provider.
func (c *AnthropicClient) ChatCompletion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	system, msgs := ToMessageParams(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  msgs,
		System:    system,
	}
	if tools := ToToolUnionParams(req.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	c.logger.Debug().
		Int("messages", len(msgs)).
		Int("tools", len(params.Tools)).
		Msg("Sending messages request")

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, convertAnthropicError(err)
	}

	return &llm.Response{
		Content:   ExtractContent(message),
		ToolCalls: ExtractToolCalls(message),
	}, nil
}

// ExtractContent concatenates the text blocks of a message.
func ExtractContent(message *anthropic.Message) string {
	if message == nil {
		return ""
	}
	var text string
	for _, blockUnion := range message.Content {
		if block, ok := blockUnion.AsAny().(anthropic.TextBlock); ok {
			text += block.Text
		}
	}
	return text
}

// ExtractToolCalls returns the tool_use blocks of a message. Input is kept as JSON text.
func ExtractToolCalls(message *anthropic.Message) []llm.ToolCall {
	calls := []llm.ToolCall{}
	if message == nil {
		return calls
	}
	for _, blockUnion := range message.Content {
		block, ok := blockUnion.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}
		raw, err := json.Marshal(block.Input)
		if err != nil {
			raw = nil
		}
		calls = append(calls, llm.ToolCall{
			ID:           block.ID,
			Name:         block.Name,
			RawArguments: string(raw),
		})
	}
	return calls
}

// convertAnthropicError attaches the HTTP status to API errors.
func convertAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return llm.NewStatusError(llm.ProviderAnthropic, apiErr.StatusCode, "", err)
	}
	return llm.NewProviderError(llm.ProviderAnthropic, "anthropic request failed", err)
}

// Ensure AnthropicClient implements llm.Provider
var _ llm.Provider = (*AnthropicClient)(nil)
