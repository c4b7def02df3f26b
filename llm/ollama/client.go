package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3.2"
)

// OllamaClient implements llm.Provider for a local Ollama server.
type OllamaClient struct {
	client *api.Client
	host   string
	model  string
	logger zerolog.Logger
}

// NewOllamaClient creates a new OllamaClient.
// If host is empty, DefaultHost is used. If model is empty, DefaultModel is used.
func NewOllamaClient(host, model string, logger zerolog.Logger) (*OllamaClient, error) {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}

	baseURL, err := parseHost(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}

	return &OllamaClient{
		client: api.NewClient(baseURL, &http.Client{}),
		host:   baseURL.String(),
		model:  model,
		logger: logger.With().Str("component", "llm").Str("provider", string(llm.ProviderOllama)).Logger(),
	}, nil
}

// parseHost parses a host string into a URL.
func parseHost(host string) (*url.URL, error) {
	// If host doesn't have a scheme, add http://
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(host)
}

// Kind implements llm.Provider.
func (c *OllamaClient) Kind() llm.ProviderKind {
	return llm.ProviderOllama
}

// Initialize implements llm.Provider by listing the installed models. A missing
// model is only a warning since Ollama may pull it on first use.
func (c *OllamaClient) Initialize(ctx context.Context) error {
	list, err := c.client.List(ctx)
	if err != nil {
		return llm.NewUnavailableError(llm.ProviderOllama,
			fmt.Sprintf("Ollama is not reachable at %s", c.host),
			"start it with: ollama serve",
			err)
	}

	if !hasModel(list, c.model) {
		c.logger.Warn().
			Str("model", c.model).
			Msgf("Model not found locally, pull it with: ollama pull %s", c.model)
	}

	c.logger.Info().Str("host", c.host).Str("model", c.model).Msg("Ollama provider initialized")
	return nil
}

func hasModel(list *api.ListResponse, model string) bool {
	if list == nil {
		return false
	}
	for _, m := range list.Models {
		if m.Name == model || strings.HasPrefix(m.Name, model+":") {
			return true
		}
	}
	return false
}

// FormatTools implements llm.Provider.
func (c *OllamaClient) FormatTools(tools []llm.ToolDescriptor) any {
	formatted := ToOllamaTools(tools)
	if formatted == nil {
		return nil
	}
	return formatted
}

// ChatCompletion implements llm.Provider.
func (c *OllamaClient) ChatCompletion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	chatReq := &api.ChatRequest{
		Model:    c.model,
		Messages: ToOllamaMessages(req.Messages),
		Stream:   new(bool), // false for non-streaming
	}
	if tools := ToOllamaTools(req.Tools); len(tools) > 0 {
		chatReq.Tools = tools
	}

	c.logger.Debug().
		Int("messages", len(chatReq.Messages)).
		Int("tools", len(chatReq.Tools)).
		Msg("Sending chat request")

	var chatResp api.ChatResponse
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		chatResp = resp
		return nil
	})
	if err != nil {
		return nil, convertOllamaError(err)
	}

	return &llm.Response{
		Content:   ExtractContent(chatResp),
		ToolCalls: ExtractToolCalls(chatResp),
	}, nil
}

// convertOllamaError attaches the HTTP status to errors reported by the server.
func convertOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return llm.NewStatusError(llm.ProviderOllama, statusErr.StatusCode, "", err)
	}
	return llm.NewProviderError(llm.ProviderOllama, "ollama chat request failed", err)
}

// Ensure OllamaClient implements llm.Provider
var _ llm.Provider = (*OllamaClient)(nil)
