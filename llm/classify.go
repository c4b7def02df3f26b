package llm

import (
	"fmt"
	"net/http"
)

// Classify maps a ChatCompletion failure onto an actionable category.
//
// 429 becomes quota-exceeded, 401 becomes authentication-failed, and any other
// 4xx becomes a client error. All three name the provider and keep err as the
// cause. Anything else, including errors without a status, is returned unchanged.
func Classify(provider ProviderKind, err error) error {
	if err == nil {
		return nil
	}

	status := StatusCode(err)
	name := provider.DisplayName()

	switch {
	case status == http.StatusTooManyRequests:
		return &Error{
			Type:        ErrorTypeQuotaExceeded,
			Provider:    provider,
			Message:     fmt.Sprintf("%s API quota exceeded", name),
			Hint:        "check your plan and billing details, or switch provider",
			StatusCode:  status,
			ProviderErr: err,
		}
	case status == http.StatusUnauthorized:
		return &Error{
			Type:        ErrorTypeAuthFailed,
			Provider:    provider,
			Message:     fmt.Sprintf("%s API authentication failed", name),
			Hint:        fmt.Sprintf("check the %s API key in your configuration", name),
			StatusCode:  status,
			ProviderErr: err,
		}
	case status >= 400 && status < 500:
		return &Error{
			Type:        ErrorTypeClientError,
			Provider:    provider,
			Message:     fmt.Sprintf("%s API error (%d)", name, status),
			StatusCode:  status,
			ProviderErr: err,
		}
	default:
		return err
	}
}
