package config

import (
	"fmt"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/aschepis/backscratcher/sparky/llm/anthropic"
	"github.com/aschepis/backscratcher/sparky/llm/groq"
	"github.com/aschepis/backscratcher/sparky/llm/huggingface"
	"github.com/aschepis/backscratcher/sparky/llm/ollama"
	"github.com/aschepis/backscratcher/sparky/llm/openai"
	"github.com/rs/zerolog"
)

// NewProvider constructs the configured provider. An unrecognized provider
// name fails with a configuration error.
func NewProvider(cfg *Config, logger zerolog.Logger) (llm.Provider, error) {
	kind, err := cfg.ProviderKind()
	if err != nil {
		return nil, err
	}
	return NewProviderOfKind(cfg, kind, logger)
}

// NewProviderOfKind constructs a provider of the given kind from cfg.
func NewProviderOfKind(cfg *Config, kind llm.ProviderKind, logger zerolog.Logger) (llm.Provider, error) {
	switch kind {
	case llm.ProviderOpenAI:
		return openai.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, cfg.OpenAI.Organization, logger), nil
	case llm.ProviderGroq:
		return groq.NewGroqClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model, logger), nil
	case llm.ProviderOllama:
		client, err := ollama.NewOllamaClient(cfg.Ollama.Host, cfg.Ollama.Model, logger)
		if err != nil {
			return nil, llm.NewConfigurationError(fmt.Sprintf("invalid ollama host %q: %v", cfg.Ollama.Host, err))
		}
		return client, nil
	case llm.ProviderHuggingFace:
		return huggingface.NewHuggingFaceClient(cfg.HuggingFace.APIKey, cfg.HuggingFace.BaseURL, cfg.HuggingFace.Model, logger), nil
	case llm.ProviderAnthropic:
		return anthropic.NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, logger), nil
	default:
		return nil, llm.NewConfigurationError(fmt.Sprintf("unsupported LLM provider: %q", kind))
	}
}
