// Package groq talks to Groq's OpenAI-compatible chat completions endpoint.
package groq

import (
	"context"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/aschepis/backscratcher/sparky/llm/openai"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
)

// GroqClient implements llm.Provider on top of the OpenAI-compatible client.
type GroqClient struct {
	*openai.OpenAIClient
	apiKey string
	logger zerolog.Logger
}

// NewGroqClient creates a new GroqClient. Empty baseURL and model select the defaults.
func NewGroqClient(apiKey, baseURL, model string, logger zerolog.Logger) *GroqClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &GroqClient{
		OpenAIClient: openai.NewCompatibleClient(llm.ProviderGroq, apiKey, baseURL, model, logger),
		apiKey:       apiKey,
		logger:       logger.With().Str("component", "llm").Str("provider", string(llm.ProviderGroq)).Logger(),
	}
}

// Initialize implements llm.Provider.
func (c *GroqClient) Initialize(ctx context.Context) error {
	if c.apiKey == "" {
		return llm.NewUnavailableError(llm.ProviderGroq,
			"Groq API key is not configured",
			"get a key at https://console.groq.com/keys and set GROQ_API_KEY",
			nil)
	}
	c.logger.Info().Str("model", c.Model()).Msg("Groq provider initialized")
	return nil
}

// Ensure GroqClient implements llm.Provider
var _ llm.Provider = (*GroqClient)(nil)
