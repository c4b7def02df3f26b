package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/aschepis/backscratcher/sparky/tools/schemas"
	"github.com/rs/zerolog"
)

// ErrUnknownTool is returned by Handle for a name with no registered handler.
var ErrUnknownTool = errors.New("tool not found")

// ToolHandler handles a tool call.
//
// Problems with the request itself (bad operation, missing argument, failed
// file access) are reported in the returned ToolResult with success=false.
// A non-nil error means the handler could not run at all.
type ToolHandler func(ctx context.Context, args json.RawMessage) (llm.ToolResult, error)

type registeredTool struct {
	schema  schemas.ToolSchema
	handler ToolHandler
}

// Registry maps tool names to handlers and their schemas.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]registeredTool
	logger zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	logger = logger.With().Str("component", "tool_registry").Logger()
	return &Registry{
		tools:  make(map[string]registeredTool),
		logger: logger,
	}
}

// NewDefaultRegistry creates a registry holding every built-in tool.
func NewDefaultRegistry(workspacePath string, logger zerolog.Logger) *Registry {
	r := NewRegistry(logger)
	r.RegisterMathTools()
	r.RegisterInfoTools()
	r.RegisterFilesystemTools(workspacePath)
	return r
}

// Register registers a handler and schema for a tool name, replacing any previous one.
func (r *Registry) Register(name string, schema schemas.ToolSchema, h ToolHandler) {
	r.logger.Debug().Str("name", name).Msg("Registering tool handler")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = registeredTool{schema: schema, handler: h}
}

// registerBuiltin registers h under name using the schema from the schemas package.
func (r *Registry) registerBuiltin(name string, h ToolHandler) {
	schema, ok := schemas.All()[name]
	if !ok {
		panic(fmt.Sprintf("no schema defined for built-in tool %q", name))
	}
	r.Register(name, schema, h)
}

// Descriptors returns a descriptor for every registered tool, sorted by name.
func (r *Registry) Descriptors() []llm.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]llm.ToolDescriptor, 0, len(r.tools))
	for name, tool := range r.tools {
		descriptors = append(descriptors, llm.ToolDescriptor{
			Name:        name,
			Description: tool.schema.Description,
			InputSchema: tool.schema.Schema,
		})
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors
}

// Handle dispatches a tool call.
func (r *Registry) Handle(ctx context.Context, toolName string, args []byte) (llm.ToolResult, error) {
	r.mu.RLock()
	tool, ok := r.tools[toolName]
	r.mu.RUnlock()
	if !ok {
		r.logger.Error().Str("tool", toolName).Msg("Unknown tool requested")
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, toolName)
	}

	if len(args) == 0 {
		args = []byte("{}")
	}
	r.logger.Debug().Str("tool", toolName).RawJSON("args", args).Msg("Executing tool")

	result, err := tool.handler(ctx, json.RawMessage(args))
	if err != nil {
		r.logger.Warn().Str("tool", toolName).Err(err).Msg("Tool returned error")
		return nil, err
	}

	r.logger.Info().Str("tool", toolName).Bool("success", result.Success()).Msg("Tool returned result")
	return result, nil
}

// decodeArgs unmarshals args into payload, wrapping failures uniformly.
func decodeArgs(args json.RawMessage, payload any) error {
	if err := json.Unmarshal(args, payload); err != nil {
		return fmt.Errorf("failed to unmarshal arguments: %w", err)
	}
	return nil
}
