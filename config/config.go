// Package config loads sparky's configuration.
//
// Values are layered, later layers winning: built-in defaults, the YAML
// config file, a .env file in the working directory, then the process
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no path is given and SPARKY_CONFIG is unset.
const DefaultConfigPath = "sparky.yaml"

// Config is the complete runtime configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm,omitempty"`
	OpenAI      OpenAIConfig      `yaml:"openai,omitempty"`
	Ollama      OllamaConfig      `yaml:"ollama,omitempty"`
	Groq        GroqConfig        `yaml:"groq,omitempty"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface,omitempty"`
	Anthropic   AnthropicConfig   `yaml:"anthropic,omitempty"`
	MCP         MCPConfig         `yaml:"mcp,omitempty"`
	Agent       AgentConfig       `yaml:"agent,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`

	// Workspace is the root directory the filesystem tool is confined to.
	Workspace string `yaml:"workspace,omitempty"`
}

// LLMConfig selects the provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // openai, ollama, groq, huggingface (hf), anthropic
}

// OpenAIConfig represents configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey       string `yaml:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"` // Custom base URL (default: official API)
	Model        string `yaml:"model,omitempty"`
	Organization string `yaml:"organization,omitempty"`
}

// OllamaConfig represents configuration for the Ollama provider.
type OllamaConfig struct {
	Host  string `yaml:"host,omitempty"`
	Model string `yaml:"model,omitempty"`
}

// GroqConfig represents configuration for the Groq provider.
type GroqConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// HuggingFaceConfig represents configuration for the Hugging Face inference provider.
type HuggingFaceConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// AnthropicConfig represents configuration for the Anthropic provider.
type AnthropicConfig struct {
	APIKey    string `yaml:"api_key,omitempty"`
	Model     string `yaml:"model,omitempty"`
	MaxTokens int64  `yaml:"max_tokens,omitempty"`
}

// MCPConfig describes the tool dispatcher.
type MCPConfig struct {
	ServerPort int    `yaml:"server_port,omitempty"`
	ServerURL  string `yaml:"server_url,omitempty"`
	Name       string `yaml:"name,omitempty"`

	// External connects to an already running dispatcher at ServerURL
	// instead of starting one in-process.
	External bool `yaml:"external,omitempty"`

	// Command, when set, launches the dispatcher as a child process and
	// talks MCP over its stdin/stdout.
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	Env     []string `yaml:"env,omitempty"`

	HealthWait int `yaml:"health_wait,omitempty"` // Seconds to wait for /health
}

// AgentConfig controls the conversation loop.
type AgentConfig struct {
	Name            string `yaml:"name,omitempty"`
	Instructions    string `yaml:"instructions,omitempty"`
	MaxRounds       int    `yaml:"max_rounds,omitempty"`
	ProviderTimeout int    `yaml:"provider_timeout,omitempty"` // Seconds, 0 = none
	ToolTimeout     int    `yaml:"tool_timeout,omitempty"`     // Seconds, 0 = none
}

// LoggingConfig controls logger construction.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	File   string `yaml:"file,omitempty"`
	Pretty bool   `yaml:"pretty,omitempty"`
}

// ProviderTimeoutDuration returns ProviderTimeout as a time.Duration.
func (a AgentConfig) ProviderTimeoutDuration() time.Duration {
	return time.Duration(a.ProviderTimeout) * time.Second
}

// ToolTimeoutDuration returns ToolTimeout as a time.Duration.
func (a AgentConfig) ToolTimeoutDuration() time.Duration {
	return time.Duration(a.ToolTimeout) * time.Second
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LLM: LLMConfig{Provider: string(llm.ProviderOllama)},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o",
		},
		Ollama: OllamaConfig{
			Host:  "http://localhost:11434",
			Model: "llama3.2",
		},
		Groq: GroqConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.1-8b-instant",
		},
		HuggingFace: HuggingFaceConfig{
			BaseURL: "https://api-inference.huggingface.co/models",
			Model:   "meta-llama/Meta-Llama-3-8B-Instruct",
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-haiku-4-5",
			MaxTokens: 1024,
		},
		MCP: MCPConfig{
			ServerPort: 8000,
			ServerURL:  "http://localhost:8000/mcp",
			Name:       "Sparky MCP Server",
			HealthWait: 10,
		},
		Agent: AgentConfig{
			Name:         "Sparky",
			Instructions: "You are a helpful AI assistant that uses MCP tools to provide accurate and useful information.",
			MaxRounds:    20,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "logs/agent.log",
		},
		Workspace: ".",
	}
}

// ConfigPath returns the config file to read. An explicit path wins over
// SPARKY_CONFIG, which wins over DefaultConfigPath.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return expandPath(explicit)
	}
	if envPath := os.Getenv("SPARKY_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}
	return DefaultConfigPath
}

// Load builds the configuration from every layer. A missing config file is
// not an error unless path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	configPath := ConfigPath(path)
	data, err := os.ReadFile(configPath) //#nosec 304 -- intentional file read for config
	switch {
	case err == nil:
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", configPath, err)
		}
		if err := mergo.Merge(&cfg, fileConfig, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
	default:
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) error {
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")

	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.Organization, "OPENAI_ORG_ID")

	setString(&cfg.Ollama.Host, "OLLAMA_HOST")
	setString(&cfg.Ollama.Host, "OLLAMA_BASE_URL")
	setString(&cfg.Ollama.Model, "OLLAMA_MODEL")

	setString(&cfg.Groq.APIKey, "GROQ_API_KEY")
	setString(&cfg.Groq.Model, "GROQ_MODEL")

	setString(&cfg.HuggingFace.APIKey, "HUGGINGFACE_API_KEY")
	setString(&cfg.HuggingFace.Model, "HUGGINGFACE_MODEL")

	setString(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")

	setString(&cfg.MCP.ServerURL, "MCP_SERVER_URL")
	setString(&cfg.MCP.Name, "MCP_SERVER_NAME")

	setString(&cfg.Agent.Name, "AGENT_NAME")
	setString(&cfg.Agent.Instructions, "AGENT_INSTRUCTIONS")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.File, "LOG_FILE")

	setString(&cfg.Workspace, "WORKSPACE_DIR")

	if err := setInt(&cfg.MCP.ServerPort, "MCP_SERVER_PORT"); err != nil {
		return err
	}
	return setInt(&cfg.Agent.MaxRounds, "AGENT_MAX_ROUNDS")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return llm.NewConfigurationError(fmt.Sprintf("%s must be an integer, got %q", key, v))
	}
	*dst = n
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
