package llm

import (
	"context"
)

// Provider is implemented once per LLM back-end.
// Implementations translate between the canonical types in this package and their
// back-end's wire format, and report non-success HTTP statuses with NewStatusError.
type Provider interface {
	// Kind identifies the back-end.
	Kind() ProviderKind

	// Initialize verifies the back-end is usable before any chat traffic.
	// Failures are *Error values of type ErrorTypeProviderUnavailable with a Hint.
	Initialize(ctx context.Context) error

	// ChatCompletion sends one request and returns the canonical response.
	// Tools and the tool-choice hint are only sent when req.Tools is non-empty.
	ChatCompletion(ctx context.Context, req *Request) (*Response, error)

	// FormatTools converts descriptors into the back-end's native tool declarations.
	// It returns nil for an empty list.
	FormatTools(tools []ToolDescriptor) any
}

// Middleware provides hooks for decorating Provider calls.
// This allows adding cross-cutting concerns like logging or metrics.
type Middleware interface {
	// BeforeRequest is called before making an API request.
	// It can modify the request or return an error to abort the request.
	BeforeRequest(ctx context.Context, req *Request) (*Request, error)

	// AfterResponse is called after receiving a response.
	// It can modify the response or return an error.
	AfterResponse(ctx context.Context, req *Request, resp *Response) (*Response, error)

	// OnError is called when an error occurs.
	// It can return a modified error or nil to keep the original error.
	OnError(ctx context.Context, req *Request, err error) error
}

// MiddlewareFunc is a function type that implements Middleware.
type MiddlewareFunc struct {
	BeforeRequestFunc func(ctx context.Context, req *Request) (*Request, error)
	AfterResponseFunc func(ctx context.Context, req *Request, resp *Response) (*Response, error)
	OnErrorFunc       func(ctx context.Context, req *Request, err error) error
}

// BeforeRequest calls the BeforeRequestFunc if set.
func (f MiddlewareFunc) BeforeRequest(ctx context.Context, req *Request) (*Request, error) {
	if f.BeforeRequestFunc != nil {
		return f.BeforeRequestFunc(ctx, req)
	}
	return req, nil
}

// AfterResponse calls the AfterResponseFunc if set.
func (f MiddlewareFunc) AfterResponse(ctx context.Context, req *Request, resp *Response) (*Response, error) {
	if f.AfterResponseFunc != nil {
		return f.AfterResponseFunc(ctx, req, resp)
	}
	return resp, nil
}

// OnError calls the OnErrorFunc if set.
func (f MiddlewareFunc) OnError(ctx context.Context, req *Request, err error) error {
	if f.OnErrorFunc != nil {
		return f.OnErrorFunc(ctx, req, err)
	}
	return err
}

// WrapWithMiddleware wraps a Provider with middleware and returns a new Provider.
// Only ChatCompletion is decorated; the other methods pass straight through.
func WrapWithMiddleware(provider Provider, middleware ...Middleware) Provider {
	if len(middleware) == 0 {
		return provider
	}
	return &providerWithMiddleware{
		Provider:   provider,
		middleware: middleware,
	}
}

// providerWithMiddleware wraps a Provider with middleware.
type providerWithMiddleware struct {
	Provider
	middleware []Middleware
}

// ChatCompletion implements Provider.ChatCompletion with middleware support.
func (p *providerWithMiddleware) ChatCompletion(ctx context.Context, req *Request) (*Response, error) {
	for _, mw := range p.middleware {
		var err error
		req, err = mw.BeforeRequest(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	resp, err := p.Provider.ChatCompletion(ctx, req)
	if err != nil {
		for _, mw := range p.middleware {
			if handled := mw.OnError(ctx, req, err); handled != nil {
				err = handled
			}
		}
		return nil, err
	}

	for i := len(p.middleware) - 1; i >= 0; i-- {
		var err error
		resp, err = p.middleware[i].AfterResponse(ctx, req, resp)
		if err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// Ensure providerWithMiddleware implements Provider
var _ Provider = (*providerWithMiddleware)(nil)
