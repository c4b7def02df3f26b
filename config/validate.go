package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aschepis/backscratcher/sparky/llm"
)

var logLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ProviderKind returns the configured provider.
func (c *Config) ProviderKind() (llm.ProviderKind, error) {
	return llm.ParseProviderKind(c.LLM.Provider)
}

// Validate checks the configuration for values no component could accept.
// All problems are reported together in a single configuration error.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.ProviderKind(); err != nil {
		errs = append(errs, err)
	}
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level must be one of trace, debug, info, warn, error; got %q", c.Logging.Level))
	}
	if c.MCP.ServerPort <= 0 || c.MCP.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("mcp.server_port must be between 1 and 65535; got %d", c.MCP.ServerPort))
	}
	if c.MCP.ServerURL == "" && c.MCP.Command == "" {
		errs = append(errs, errors.New("mcp.server_url or mcp.command is required"))
	}
	if c.Agent.MaxRounds < 0 {
		errs = append(errs, fmt.Errorf("agent.max_rounds must not be negative; got %d", c.Agent.MaxRounds))
	}
	if c.Agent.ProviderTimeout < 0 || c.Agent.ToolTimeout < 0 {
		errs = append(errs, errors.New("agent timeouts must not be negative"))
	}

	if len(errs) == 0 {
		return nil
	}
	return &llm.Error{
		Type:        llm.ErrorTypeConfiguration,
		Message:     "invalid configuration",
		Hint:        "fix the values above in your config file or environment",
		ProviderErr: errors.Join(errs...),
	}
}
