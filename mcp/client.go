package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ClientName and ClientVersion identify this client in the MCP handshake.
const (
	ClientName    = "sparky"
	ClientVersion = "1.0.0"
)

// MCPClient is the interface for interacting with a tool dispatcher.
type MCPClient interface {
	// Start connects and performs the MCP handshake.
	Start(ctx context.Context) error

	// ListTools returns all tools available from the server.
	ListTools(ctx context.Context) ([]llm.ToolDescriptor, error)

	// CallTool invokes a tool and decodes its structured result.
	// An error means the call could not be completed at all.
	CallTool(ctx context.Context, name string, args map[string]any) (llm.ToolResult, error)

	// Close closes the connection to the server.
	Close() error
}

// session holds the behaviour shared by every transport once the underlying
// mcp-go client exists.
type session struct {
	client *client.Client
	names  *NameAdapter
	logger zerolog.Logger
}

func newSession(c *client.Client, logger zerolog.Logger) *session {
	return &session{
		client: c,
		names:  NewNameAdapter(),
		logger: logger,
	}
}

// protocolVersions are tried in order during the handshake.
var protocolVersions = []string{
	mcp.LATEST_PROTOCOL_VERSION,
	"2024-11-05",
}

// initialize performs the MCP handshake, falling back to older protocol versions.
func (s *session) initialize(ctx context.Context) error {
	var lastErr error
	for _, protocolVersion := range protocolVersions {
		initReq := mcp.InitializeRequest{
			Params: mcp.InitializeParams{
				ProtocolVersion: protocolVersion,
				Capabilities:    mcp.ClientCapabilities{},
				ClientInfo: mcp.Implementation{
					Name:    ClientName,
					Version: ClientVersion,
				},
			},
		}

		result, err := s.client.Initialize(ctx, initReq)
		if err != nil {
			lastErr = err
			s.logger.Warn().
				Str("protocol_version", protocolVersion).
				Err(err).
				Msg("Initialize failed, trying next protocol version")
			continue
		}

		s.logger.Info().
			Str("protocol_version", protocolVersion).
			Str("server", result.ServerInfo.Name).
			Msg("Connected to tool server")
		return nil
	}
	return fmt.Errorf("failed to initialize MCP session: %w", lastErr)
}

// ListTools returns all tools available from the MCP server. Names are
// rewritten to provider-safe names; CallTool maps them back.
func (s *session) ListTools(ctx context.Context) ([]llm.ToolDescriptor, error) {
	result, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list tools")
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	s.logger.Debug().Int("tool_count", len(result.Tools)).Msg("Received tools")

	return lo.Map(result.Tools, func(tool mcp.Tool, _ int) llm.ToolDescriptor {
		inputSchema := make(map[string]any)
		inputSchema["type"] = tool.InputSchema.Type
		if tool.InputSchema.Properties != nil {
			inputSchema["properties"] = tool.InputSchema.Properties
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema["required"] = tool.InputSchema.Required
		}
		if len(tool.InputSchema.Defs) > 0 {
			inputSchema["$defs"] = tool.InputSchema.Defs
		}

		return llm.ToolDescriptor{
			Name:        s.names.GetSafeName(tool.Name),
			Description: tool.Description,
			InputSchema: inputSchema,
		}
	}), nil
}

// CallTool invokes a tool on the MCP server.
func (s *session) CallTool(ctx context.Context, name string, args map[string]any) (llm.ToolResult, error) {
	original, ok := s.names.ToOriginalName(name)
	if !ok {
		original = name
	}

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      original,
			Arguments: args,
		},
	}

	result, err := s.client.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke tool %s: %w", original, err)
	}
	return DecodeToolResult(result), nil
}

// Close closes the connection to the MCP server.
func (s *session) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// DecodeToolResult converts MCP content into a ToolResult. Text that is a JSON
// object is used as-is; other text is wrapped as the result or error message.
func DecodeToolResult(result *mcp.CallToolResult) llm.ToolResult {
	if result == nil {
		return llm.NewToolFailure("empty tool response")
	}

	var texts []string
	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			texts = append(texts, textContent.Text)
		} else if contentStr := mcp.GetTextFromContent(content); contentStr != "" {
			texts = append(texts, contentStr)
		}
	}
	text := strings.Join(texts, "\n")

	var decoded llm.ToolResult
	if err := json.Unmarshal([]byte(text), &decoded); err == nil && decoded != nil {
		if _, ok := decoded["success"]; !ok {
			decoded["success"] = !result.IsError
		}
		return decoded
	}

	if result.IsError {
		return llm.NewToolFailure(text)
	}
	return llm.ToolResult{"success": true, "result": text}
}
