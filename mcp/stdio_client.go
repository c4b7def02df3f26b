package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/rs/zerolog"
)

// StdioMCPClient implements MCPClient for a tool server run as a child process.
type StdioMCPClient struct {
	*session
	command string
	args    []string
}

// NewStdioMCPClient launches command and speaks MCP over its stdin/stdout.
// A command containing spaces is split into program and leading arguments.
func NewStdioMCPClient(logger zerolog.Logger, command string, args, env []string) (*StdioMCPClient, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required for STDIO MCP client")
	}
	logger = logger.With().Str("component", "stdioMCPClient").Logger()

	parts := strings.Fields(command)
	cmd := parts[0]
	cmdArgs := append(append([]string{}, parts[1:]...), args...)

	mcpClient, err := client.NewStdioMCPClient(cmd, env, cmdArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdio MCP client: %w", err)
	}

	logger.Debug().Str("command", cmd).Strs("args", cmdArgs).Msg("Launched stdio tool server")
	return &StdioMCPClient{
		session: newSession(mcpClient, logger),
		command: cmd,
		args:    cmdArgs,
	}, nil
}

// Start performs the MCP handshake; the transport is already running.
func (c *StdioMCPClient) Start(ctx context.Context) error {
	if err := c.initialize(ctx); err != nil {
		return err
	}
	c.logger.Info().Str("command", c.command).Msg("STDIO MCP client started")
	return nil
}

// Ensure StdioMCPClient implements MCPClient
var _ MCPClient = (*StdioMCPClient)(nil)
