// Package llm provides a provider-neutral abstraction layer for Large Language Model (LLM) APIs.
//
// This package defines the canonical conversation model, the Provider interface every
// back-end adapter implements, and the error taxonomy used to classify provider failures.
//
// # Core Concepts
//
//  1. Messages: The Message type represents a conversation message with a role
//     (system, user, assistant, tool). Assistant messages may carry ToolCalls; tool
//     messages carry the ToolCallID of the call they answer.
//
//  2. Tools: ToolDescriptor describes a tool advertised to the model, ToolCall is a
//     model's request to run one, and ToolResult is the structured outcome.
//
//  3. Providers: The Provider interface is implemented once per back-end (see the
//     openai, groq, ollama, huggingface and anthropic subpackages). ProviderKind is the
//     closed set of supported back-ends.
//
//  4. Arguments: adapters hand tool arguments over exactly as the back-end produced
//     them; ToolCall.Input normalizes them into a mapping.
//
//  5. Errors: The Error type carries a category (quota exceeded, authentication,
//     client error, provider unavailable, configuration) and the original cause.
//     Classify maps a raw ChatCompletion failure onto those categories.
//
// Usage Example
//
//	provider := llm.WrapWithMiddleware(openai.NewClient(cfg, logger), loggingMiddleware)
//
//	if err := provider.Initialize(ctx); err != nil {
//	    return err
//	}
//
//	resp, err := provider.ChatCompletion(ctx, &llm.Request{
//	    Messages:   []llm.Message{llm.NewUserMessage("Hello!")},
//	    Tools:      tools,
//	    ToolChoice: llm.ToolChoiceAuto,
//	})
//	if err != nil {
//	    return llm.Classify(provider.Kind(), err)
//	}
//
// # Extension Points
//
// To add a new LLM provider:
//  1. Add a ProviderKind constant and teach ParseProviderKind about it
//  2. Implement the Provider interface in a new subpackage
//  3. Translate between provider-specific types and llm package types
//  4. Surface non-success HTTP statuses with NewStatusError so Classify can see them
package llm
