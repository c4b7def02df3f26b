package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/aschepis/backscratcher/sparky/agent"
	"github.com/aschepis/backscratcher/sparky/config"
	sparkylogger "github.com/aschepis/backscratcher/sparky/logger"
	"github.com/aschepis/backscratcher/sparky/mcp"
	"github.com/aschepis/backscratcher/sparky/server"
	"github.com/aschepis/backscratcher/sparky/tools"
	"github.com/rs/zerolog"
)

// app holds what every command needs: configuration, the logger and,
// when started, the in-process tool server.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
	server    *server.Server
}

func loadApp(opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := sparkylogger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Debug().
		Str("provider", cfg.LLM.Provider).
		Str("mcp_url", cfg.MCP.ServerURL).
		Bool("external_tools", cfg.MCP.External).
		Msg("Loaded configuration")

	return &app{cfg: cfg, logger: logger, logCloser: closer}, nil
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cfg *config.Config, opts *options) {
	if opts.provider != "" {
		cfg.LLM.Provider = opts.provider
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.externalTools {
		cfg.MCP.External = true
	}
}

// newAgent builds the provider and dispatcher and initializes the agent.
func (a *app) newAgent(ctx context.Context) (*agent.Agent, error) {
	provider, err := config.NewProvider(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}

	dispatcher, err := a.startDispatcher(ctx)
	if err != nil {
		return nil, err
	}

	ag := agent.New(agent.Config{
		Name:            a.cfg.Agent.Name,
		Instructions:    a.cfg.Agent.Instructions,
		MaxRounds:       a.cfg.Agent.MaxRounds,
		ProviderTimeout: a.cfg.Agent.ProviderTimeoutDuration(),
		ToolTimeout:     a.cfg.Agent.ToolTimeoutDuration(),
	}, provider, dispatcher, a.logger)

	if err := ag.Initialize(ctx); err != nil {
		_ = dispatcher.Close()
		return nil, err
	}
	return ag, nil
}

// startDispatcher returns an unstarted client for the configured tool
// server, first launching the in-process server unless tools are external.
func (a *app) startDispatcher(ctx context.Context) (mcp.MCPClient, error) {
	if a.cfg.MCP.Command != "" {
		return mcp.NewStdioMCPClient(a.logger, a.cfg.MCP.Command, a.cfg.MCP.Args, a.cfg.MCP.Env)
	}

	if !a.cfg.MCP.External {
		if err := a.startServer(ctx); err != nil {
			return nil, err
		}
	}
	return mcp.NewHttpMCPClient(a.logger, a.cfg.MCP.ServerURL)
}

// startServer serves the built-in tools on the configured port and waits
// until the server answers its health check.
func (a *app) startServer(ctx context.Context) error {
	srv, err := newToolServer(a.cfg, a.logger)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.MCP.ServerPort))
	if err != nil {
		return fmt.Errorf("failed to start tool server on port %d: %w", a.cfg.MCP.ServerPort, err)
	}
	a.server = srv

	go func() {
		if err := srv.Serve(listener); err != nil {
			a.logger.Error().Err(err).Msg("Tool server stopped")
		}
	}()

	healthURL, err := mcp.HealthURL(a.cfg.MCP.ServerURL)
	if err != nil {
		return err
	}
	return mcp.WaitForHealthy(ctx, healthURL, time.Duration(a.cfg.MCP.HealthWait)*time.Second, a.logger)
}

func newToolServer(cfg *config.Config, logger zerolog.Logger) (*server.Server, error) {
	registry := tools.NewDefaultRegistry(cfg.Workspace, logger)
	return server.New(server.Config{
		Name:   cfg.MCP.Name,
		Port:   cfg.MCP.ServerPort,
		Logger: logger,
	}, registry)
}

func (a *app) close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to stop tool server")
		}
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
