package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	// DefaultHealthWait bounds how long WaitForHealthy polls.
	DefaultHealthWait = 10 * time.Second
	// healthInitialInterval is the first delay between probes.
	healthInitialInterval = 100 * time.Millisecond
)

// HealthURL derives the readiness endpoint from an MCP endpoint URL by
// replacing its path with /health.
func HealthURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// WaitForHealthy polls healthURL with exponential backoff until it answers
// 200 OK, ctx is done, or maxWait elapses.
func WaitForHealthy(ctx context.Context, healthURL string, maxWait time.Duration, logger zerolog.Logger) error {
	if maxWait <= 0 {
		maxWait = DefaultHealthWait
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = healthInitialInterval
	eb.MaxInterval = time.Second
	eb.MaxElapsedTime = maxWait

	httpClient := &http.Client{Timeout: 2 * time.Second}
	probe := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close() //nolint:errcheck // Body close error can be ignored
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health check returned %s", resp.Status)
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		logger.Debug().Err(err).Dur("retry_in", next).Str("url", healthURL).Msg("Tool server not ready")
	}

	if err := backoff.RetryNotify(probe, backoff.WithContext(eb, ctx), notify); err != nil {
		return fmt.Errorf("tool server at %s did not become healthy: %w", healthURL, err)
	}
	return nil
}
