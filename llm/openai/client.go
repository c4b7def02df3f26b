package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// OpenAIClient implements llm.Provider for OpenAI's API and for hosts that
// speak the same chat completions protocol.
type OpenAIClient struct {
	kind   llm.ProviderKind
	client *openai.Client
	apiKey string
	model  string
	logger zerolog.Logger
}

// NewOpenAIClient creates a new OpenAIClient.
// If baseURL is empty, it will use the default OpenAI API endpoint.
// The API key is not validated here; Initialize reports a missing key.
func NewOpenAIClient(apiKey, baseURL, model, organization string, logger zerolog.Logger) *OpenAIClient {
	return newClient(llm.ProviderOpenAI, apiKey, baseURL, model, organization, logger)
}

// NewCompatibleClient creates a client for an OpenAI-compatible host that is
// reported under the given provider kind.
func NewCompatibleClient(kind llm.ProviderKind, apiKey, baseURL, model string, logger zerolog.Logger) *OpenAIClient {
	return newClient(kind, apiKey, baseURL, model, "", logger)
}

func newClient(kind llm.ProviderKind, apiKey, baseURL, model, organization string, logger zerolog.Logger) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)

	// Set custom base URL if provided
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	// Set organization if provided
	if organization != "" {
		config.OrgID = organization
	}

	if model == "" {
		model = DefaultModel
	}

	return &OpenAIClient{
		kind:   kind,
		client: openai.NewClientWithConfig(config),
		apiKey: apiKey,
		model:  model,
		logger: logger.With().Str("component", "llm").Str("provider", string(kind)).Logger(),
	}
}

// Kind implements llm.Provider.
func (c *OpenAIClient) Kind() llm.ProviderKind {
	return c.kind
}

// Model returns the model requests are sent to.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Initialize implements llm.Provider. The hosted API has no cheap liveness
// endpoint, so readiness means a key is configured.
func (c *OpenAIClient) Initialize(ctx context.Context) error {
	if c.apiKey == "" {
		return llm.NewUnavailableError(c.kind,
			"OpenAI API key is not configured",
			"set OPENAI_API_KEY or openai.api_key in the config file",
			nil)
	}
	c.logger.Info().Str("model", c.model).Msg("OpenAI provider initialized")
	return nil
}

// FormatTools implements llm.Provider.
func (c *OpenAIClient) FormatTools(tools []llm.ToolDescriptor) any {
	formatted := ToOpenAITools(tools)
	if formatted == nil {
		return nil
	}
	return formatted
}

// ChatCompletion implements llm.Provider.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: ToOpenAIMessages(req.Messages),
	}

	// Attach tools only when there are some; an empty tools array is rejected.
	if tools := ToOpenAITools(req.Tools); len(tools) > 0 {
		chatReq.Tools = tools
		if req.ToolChoice != llm.ToolChoiceNone {
			chatReq.ToolChoice = string(req.ToolChoice)
		}
	}

	c.logger.Debug().
		Int("messages", len(chatReq.Messages)).
		Int("tools", len(chatReq.Tools)).
		Msg("Sending chat completion request")

	chatResp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, convertOpenAIError(c.kind, err)
	}

	return &llm.Response{
		Content:   ExtractContent(chatResp),
		ToolCalls: ExtractToolCalls(chatResp),
	}, nil
}

// convertOpenAIError converts OpenAI API errors to llm.Error types carrying the HTTP status.
func convertOpenAIError(kind llm.ProviderKind, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return llm.NewStatusError(kind, apiErr.HTTPStatusCode, "", err)
	}

	// Error bodies that are not JSON come back as a RequestError.
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return llm.NewStatusError(kind, reqErr.HTTPStatusCode, "", err)
	}

	return llm.NewProviderError(kind, fmt.Sprintf("%s request failed", kind), err)
}

// Ensure OpenAIClient implements llm.Provider
var _ llm.Provider = (*OpenAIClient)(nil)
