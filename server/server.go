// Package server exposes the tool registry as an MCP tool dispatcher over
// streamable HTTP (POST /mcp) with a GET /health readiness endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aschepis/backscratcher/sparky/tools"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

const (
	// DefaultName is advertised in the initialize handshake and /health.
	DefaultName = "Sparky MCP Server"
	Version     = "1.0.0"

	// EndpointPath is where the MCP endpoint is mounted.
	EndpointPath = "/mcp"
	HealthPath   = "/health"
)

// Config holds server configuration options.
type Config struct {
	Name   string
	Port   int
	Logger zerolog.Logger
}

// Server serves the tools in a registry over MCP.
type Server struct {
	name       string
	port       int
	registry   *tools.Registry
	mcpServer  *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	httpServer *http.Server
	logger     zerolog.Logger

	startedAt time.Time
}

// New creates a server exposing every tool in registry.
func New(cfg Config, registry *tools.Registry) (*Server, error) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	s := &Server{
		name:     cfg.Name,
		port:     cfg.Port,
		registry: registry,
		logger:   cfg.Logger.With().Str("component", "mcp-server").Logger(),
	}

	s.mcpServer = mcpserver.NewMCPServer(
		cfg.Name,
		Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
		mcpserver.WithToolHandlerMiddleware(s.loggingMiddleware),
	)

	for _, d := range registry.Descriptors() {
		schema, err := json.Marshal(d.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema for tool %s: %w", d.Name, err)
		}
		s.mcpServer.AddTool(mcp.NewToolWithRawSchema(d.Name, d.Description, schema), s.toolHandler(d.Name))
		s.logger.Debug().Str("tool", d.Name).Msg("Registered tool")
	}

	s.streamable = mcpserver.NewStreamableHTTPServer(s.mcpServer)
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler serving /mcp and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, s.streamable)
	mux.HandleFunc(HealthPath, s.handleHealth)
	return mux
}

// Serve serves HTTP on the given listener until Shutdown is called.
func (s *Server) Serve(listener net.Listener) error {
	s.startedAt = time.Now()
	s.logger.Info().
		Str("address", listener.Addr().String()).
		Str("endpoint", EndpointPath).
		Int("tools", len(s.registry.Descriptors())).
		Msg("Starting MCP tool server")
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeTCP listens on the configured port on all interfaces.
func (s *Server) ServeTCP() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.Serve(listener)
}

// ServeStdio serves MCP over stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	s.startedAt = time.Now()
	s.logger.Info().Msg("Starting MCP tool server on stdio")
	return mcpserver.ServeStdio(s.mcpServer)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Gracefully stopping MCP tool server")
	if err := s.streamable.Shutdown(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to stop streamable transport")
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"server": s.name,
	})
}

// toolHandler bridges an MCP tools/call to the registry. Registry errors
// become JSON-RPC errors; tool-level failures travel in the result text.
func (s *Server) toolHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal arguments: %w", err)
		}

		result, err := s.registry.Handle(ctx, name, args)
		if err != nil {
			return nil, err
		}

		text, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(text)), nil
	}
}

func (s *Server) loggingMiddleware(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := next(ctx, request)
		duration := time.Since(start)

		if err != nil {
			s.logger.Error().
				Str("tool", request.Params.Name).
				Dur("duration", duration).
				Err(err).
				Msg("Tool call failed")
		} else {
			s.logger.Debug().
				Str("tool", request.Params.Name).
				Dur("duration", duration).
				Msg("Tool call completed")
		}
		return result, err
	}
}
