package agent

import (
	"context"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/rs/zerolog"
)

// LoggingMiddleware logs each provider round-trip.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware.
func NewLoggingMiddleware(logger zerolog.Logger, kind llm.ProviderKind) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger.With().Str("component", "llmLogging").Str("provider", kind.String()).Logger(),
	}
}

// BeforeRequest implements llm.Middleware.BeforeRequest.
func (m *LoggingMiddleware) BeforeRequest(ctx context.Context, req *llm.Request) (*llm.Request, error) {
	m.logger.Debug().
		Int("messages", len(req.Messages)).
		Int("tools", len(req.Tools)).
		Msg("Calling provider")
	return req, nil
}

// AfterResponse implements llm.Middleware.AfterResponse.
func (m *LoggingMiddleware) AfterResponse(ctx context.Context, req *llm.Request, resp *llm.Response) (*llm.Response, error) {
	if resp == nil {
		return resp, nil
	}
	m.logger.Debug().
		Int("content_length", len(resp.Content)).
		Int("tool_calls", len(resp.ToolCalls)).
		Msg("Provider responded")
	return resp, nil
}

// OnError implements llm.Middleware.OnError.
func (m *LoggingMiddleware) OnError(ctx context.Context, req *llm.Request, err error) error {
	m.logger.Warn().Err(err).Int("status", llm.StatusCode(err)).Msg("Provider request failed")
	return nil
}

var _ llm.Middleware = (*LoggingMiddleware)(nil)
