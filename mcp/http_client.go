package mcp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/client"
	"github.com/rs/zerolog"
)

// HttpMCPClient implements MCPClient over MCP streamable HTTP.
type HttpMCPClient struct {
	*session
	baseURL string
}

// NewHttpMCPClient creates a new HTTP MCP client for the endpoint at baseURL.
func NewHttpMCPClient(logger zerolog.Logger, baseURL string) (*HttpMCPClient, error) {
	logger = logger.With().Str("component", "httpMCPClient").Logger()
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required for HTTP MCP client")
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	mcpClient, err := client.NewStreamableHttpClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP MCP client: %w", err)
	}

	logger.Debug().Str("base_url", baseURL).Msg("Created HTTP MCP client")
	return &HttpMCPClient{
		session: newSession(mcpClient, logger),
		baseURL: baseURL,
	}, nil
}

// Start starts the transport and performs the MCP handshake.
func (c *HttpMCPClient) Start(ctx context.Context) error {
	if err := c.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP MCP client: %w", err)
	}
	if err := c.initialize(ctx); err != nil {
		return err
	}
	c.logger.Info().Str("base_url", c.baseURL).Msg("HTTP MCP client started")
	return nil
}

// Ensure HttpMCPClient implements MCPClient
var _ MCPClient = (*HttpMCPClient)(nil)
