package agent

import (
	"context"
	"fmt"
	"slices"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/samber/lo"
)

// QueryResult is the outcome of one ProcessQuery call.
type QueryResult struct {
	Query    string `json:"query"`
	Response string `json:"response"`

	// Messages is the total length of the conversation, including the
	// system and user messages.
	Messages int `json:"messageCount"`

	// ToolCalls counts the tool result messages in the conversation.
	ToolCalls int `json:"toolCallCount"`

	Transcript []llm.Message `json:"-"`
}

// ProcessQuery runs the conversation for query to completion.
//
// Provider failures are classified with llm.Classify and abort the query.
// Tool failures never abort it; they are reported to the model as
// {success:false, error:...} results.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (*QueryResult, error) {
	logger := a.logger.With().Str("query", query).Logger()
	logger.Info().Msg("Processing query")

	tools, err := a.dispatcher.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	logger.Debug().Int("tools", len(tools)).Msg("Fetched tool catalogue")

	conversation := []llm.Message{
		llm.NewSystemMessage(a.cfg.Instructions),
		llm.NewUserMessage(query),
	}

	for round := 1; ; round++ {
		if round > a.cfg.MaxRounds {
			logger.Warn().Int("max_rounds", a.cfg.MaxRounds).Msg("Model kept requesting tools")
			return nil, fmt.Errorf("%w: stopped after %d rounds", ErrMaxRoundsExceeded, a.cfg.MaxRounds)
		}

		resp, err := a.complete(ctx, conversation, tools)
		if err != nil {
			return nil, err
		}

		calls := ensureToolCallIDs(resp.ToolCalls)
		conversation = append(conversation, llm.NewAssistantMessage(resp.Content, calls))
		if len(calls) == 0 {
			break
		}

		logger.Info().Int("round", round).Int("tool_calls", len(calls)).Msg("Executing tool calls")
		results := a.runTools(ctx, calls)
		for i, call := range calls {
			conversation = append(conversation, llm.NewToolMessage(call.ID, call.Name, results[i]))
		}
	}

	result := &QueryResult{
		Query:      query,
		Response:   finalResponse(conversation),
		Messages:   len(conversation),
		ToolCalls:  lo.CountBy(conversation, func(m llm.Message) bool { return m.Role == llm.RoleTool }),
		Transcript: conversation,
	}
	logger.Info().
		Int("messages", result.Messages).
		Int("tool_calls", result.ToolCalls).
		Msg("Query complete")
	return result, nil
}

// complete performs one model round-trip over the conversation so far.
func (a *Agent) complete(ctx context.Context, conversation []llm.Message, tools []llm.ToolDescriptor) (*llm.Response, error) {
	if a.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ProviderTimeout)
		defer cancel()
	}

	req := &llm.Request{Messages: conversation}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = llm.ToolChoiceAuto
	}

	resp, err := a.provider.ChatCompletion(ctx, req)
	if err != nil {
		if status := llm.StatusCode(err); status < 400 || status >= 500 {
			a.logger.Error().Err(err).Interface("detail", err).Int("status", status).Msg("Provider request failed")
		}
		return nil, llm.Classify(a.provider.Kind(), err)
	}
	if resp == nil {
		return &llm.Response{ToolCalls: []llm.ToolCall{}}, nil
	}
	return resp, nil
}

// ensureToolCallIDs gives every call a unique id within the round, keeping
// the ids the provider supplied.
func ensureToolCallIDs(calls []llm.ToolCall) []llm.ToolCall {
	calls = slices.Clone(calls)
	seen := make(map[string]bool, len(calls))
	for i := range calls {
		if calls[i].ID == "" || seen[calls[i].ID] {
			calls[i].ID = llm.NewToolCallID()
		}
		seen[calls[i].ID] = true
	}
	return calls
}

// finalResponse is the text of the last assistant message.
func finalResponse(conversation []llm.Message) string {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role != llm.RoleAssistant {
			continue
		}
		if conversation[i].Content != "" {
			return conversation[i].Content
		}
		break
	}
	return FallbackResponse
}
