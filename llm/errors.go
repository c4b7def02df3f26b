package llm

import (
	"errors"
	"fmt"
)

// Error represents a provider-neutral LLM error.
type Error struct {
	Type        ErrorType
	Provider    ProviderKind
	Message     string
	Hint        string // Remediation shown to the operator, if any
	StatusCode  int
	ProviderErr error // Original provider-specific error
}

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeQuotaExceeded       ErrorType = "quota_exceeded"
	ErrorTypeAuthFailed          ErrorType = "auth_failed"
	ErrorTypeClientError         ErrorType = "client_error"
	ErrorTypeProvider            ErrorType = "provider"
	ErrorTypeProviderUnavailable ErrorType = "provider_unavailable"
	ErrorTypeConfiguration       ErrorType = "configuration"
	ErrorTypeUnknown             ErrorType = "unknown"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ProviderErr != nil {
		return e.Message + ": " + e.ProviderErr.Error()
	}
	return e.Message
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.ProviderErr
}

// Kind returns the category of err, or ErrorTypeUnknown if err is not an *Error.
func Kind(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.StatusCode
	}
	return 0
}

// HintFor returns the remediation hint attached to err, if any.
func HintFor(err error) string {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Hint
	}
	return ""
}

// IsQuotaExceeded checks if an error is a quota-exceeded error.
func IsQuotaExceeded(err error) bool {
	return Kind(err) == ErrorTypeQuotaExceeded
}

// IsAuthFailed checks if an error is an authentication error.
func IsAuthFailed(err error) bool {
	return Kind(err) == ErrorTypeAuthFailed
}

// IsProviderUnavailable checks if an error came from a failed readiness check.
func IsProviderUnavailable(err error) bool {
	return Kind(err) == ErrorTypeProviderUnavailable
}

// NewStatusError creates the error adapters return for a non-success HTTP status.
func NewStatusError(provider ProviderKind, statusCode int, message string, providerErr error) *Error {
	if message == "" {
		message = fmt.Sprintf("%s request failed with status %d", provider, statusCode)
	}
	return &Error{
		Type:        ErrorTypeProvider,
		Provider:    provider,
		Message:     message,
		StatusCode:  statusCode,
		ProviderErr: providerErr,
	}
}

// NewProviderError creates a new provider error without an HTTP status.
func NewProviderError(provider ProviderKind, message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeProvider,
		Provider:    provider,
		Message:     message,
		ProviderErr: providerErr,
	}
}

// NewUnavailableError creates the error returned by a failed Initialize.
func NewUnavailableError(provider ProviderKind, message, hint string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeProviderUnavailable,
		Provider:    provider,
		Message:     message,
		Hint:        hint,
		ProviderErr: providerErr,
	}
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(message string) *Error {
	return &Error{
		Type:    ErrorTypeConfiguration,
		Message: message,
	}
}
