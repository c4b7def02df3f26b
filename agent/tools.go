package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aschepis/backscratcher/sparky/llm"
)

// runTools executes every call concurrently and returns their results in
// the same order as calls. Each goroutine writes only its own slot.
func (a *Agent) runTools(ctx context.Context, calls []llm.ToolCall) []llm.ToolResult {
	results := make([]llm.ToolResult, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.executeTool(ctx, call)
		}()
	}
	wg.Wait()

	return results
}

// executeTool runs a single call. It never fails: dispatcher errors, panics
// and timeouts are all reported as a failed ToolResult.
func (a *Agent) executeTool(ctx context.Context, call llm.ToolCall) (result llm.ToolResult) {
	logger := a.logger.With().Str("tool", call.Name).Str("call_id", call.ID).Logger()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Tool execution panicked")
			result = llm.NewToolFailure(fmt.Sprintf("tool %s panicked: %v", call.Name, r))
		}
	}()

	if a.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ToolTimeout)
		defer cancel()
	}

	args := call.Input()
	logger.Debug().Str("arguments", call.ArgumentsJSON()).Msg("Calling tool")

	res, err := a.dispatcher.CallTool(ctx, call.Name, args)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Warn().Dur("timeout", a.cfg.ToolTimeout).Msg("Tool call timed out")
			return llm.NewToolFailure(fmt.Sprintf("tool %s timed out after %s", call.Name, a.cfg.ToolTimeout))
		}
		logger.Warn().Err(err).Msg("Tool call failed")
		return llm.NewToolFailure(err.Error())
	}
	if res == nil {
		return llm.NewToolFailure("empty tool response")
	}

	logger.Debug().
		Bool("success", res.Success()).
		Dur("duration", time.Since(start)).
		Msg("Tool call completed")
	return res
}
