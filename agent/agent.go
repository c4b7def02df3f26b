// Package agent drives the tool-calling conversation between an LLM provider
// and a tool dispatcher.
//
// A query proceeds in rounds. Each round asks the model for a reply given the
// full conversation so far; if the reply requests tools, every requested call
// runs concurrently and the results are appended in the order the model asked
// for them before the next round. The query ends when the model replies
// without requesting any tools.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/aschepis/backscratcher/sparky/mcp"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRounds bounds the number of model round-trips per query.
	DefaultMaxRounds = 20

	// DefaultInstructions is the system prompt used when none is configured.
	DefaultInstructions = "You are a helpful AI assistant that uses MCP tools to provide accurate and useful information."

	// FallbackResponse is returned when the model's final reply has no text.
	FallbackResponse = "I processed your request but have no text response."
)

// ErrMaxRoundsExceeded is returned when the model keeps requesting tools past MaxRounds.
var ErrMaxRoundsExceeded = errors.New("maximum tool rounds exceeded")

// Config controls a single Agent.
type Config struct {
	Name         string
	Instructions string

	// MaxRounds bounds model round-trips per query. Zero means DefaultMaxRounds.
	MaxRounds int

	// ProviderTimeout and ToolTimeout bound each provider call and each tool
	// call respectively. Zero means no timeout beyond the caller's context.
	ProviderTimeout time.Duration
	ToolTimeout     time.Duration
}

// Agent answers queries using a provider and a tool dispatcher.
// It holds no per-query state, so ProcessQuery may be called concurrently.
type Agent struct {
	cfg        Config
	provider   llm.Provider
	dispatcher mcp.MCPClient
	logger     zerolog.Logger
}

// New creates an Agent. The provider is wrapped with request logging.
func New(cfg Config, provider llm.Provider, dispatcher mcp.MCPClient, logger zerolog.Logger) *Agent {
	if cfg.Instructions == "" {
		cfg.Instructions = DefaultInstructions
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	logger = logger.With().Str("component", "agent").Str("agent", cfg.Name).Logger()

	return &Agent{
		cfg:        cfg,
		provider:   llm.WrapWithMiddleware(provider, NewLoggingMiddleware(logger, provider.Kind())),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Name returns the configured agent name.
func (a *Agent) Name() string {
	return a.cfg.Name
}

// Provider returns the kind of the provider the agent talks to.
func (a *Agent) Provider() llm.ProviderKind {
	return a.provider.Kind()
}

// Initialize checks provider readiness, then connects to the tool dispatcher.
func (a *Agent) Initialize(ctx context.Context) error {
	a.logger.Info().Str("provider", a.provider.Kind().String()).Msg("Initializing agent")

	if err := a.provider.Initialize(ctx); err != nil {
		return err
	}
	if err := a.dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to connect to tool dispatcher: %w", err)
	}

	a.logger.Info().Msg("Agent initialized")
	return nil
}

// Shutdown closes the dispatcher connection.
func (a *Agent) Shutdown() error {
	a.logger.Debug().Msg("Shutting down agent")
	return a.dispatcher.Close()
}

// ListTools returns the dispatcher's current tool catalogue.
func (a *Agent) ListTools(ctx context.Context) ([]llm.ToolDescriptor, error) {
	return a.dispatcher.ListTools(ctx)
}
