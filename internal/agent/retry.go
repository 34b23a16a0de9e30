package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// RetryConfig configures backoff for model calls.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig returns defaults sized for interactive chat: a few
// quick retries, never more than ten seconds between attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// retryableError reports whether err looks transient. The model SDKs do
// not expose typed errors for this, so classification is by message.
func retryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()

	if containsAny(errStr, "rate limit", "quota exceeded", "429") {
		return true
	}
	if containsAny(errStr, "500", "502", "503", "504", "unavailable") {
		return true
	}
	if containsAny(errStr, "connection reset", "timeout", "temporary") {
		return true
	}
	return false
}

func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// generateWithRetry calls the model with exponential backoff on transient
// failures. Each attempt waits on the rate limiter first so retries cannot
// amplify a quota problem.
func (a *Agent) generateWithRetry(ctx context.Context, opts []ai.GenerateOption) (*ai.ModelResponse, error) {
	var lastErr error
	delay := a.retry.InitialInterval
	start := time.Now()

	for attempt := 0; attempt <= a.retry.MaxRetries; attempt++ {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		resp, err := genkit.Generate(ctx, a.g, opts...)
		if err == nil {
			a.logger.Debug("generate succeeded",
				"attempts", attempt+1,
				"elapsed", time.Since(start),
			)
			return resp, nil
		}

		lastErr = err

		if !retryableError(err) {
			return nil, fmt.Errorf("generate: %w", err)
		}
		if attempt == a.retry.MaxRetries {
			break
		}

		a.logger.Debug("retrying after transient error",
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled during retry: %w", ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, a.retry.MaxInterval)
		}
	}

	return nil, fmt.Errorf("generate after %d retries (elapsed: %v): %w",
		a.retry.MaxRetries, time.Since(start), lastErr)
}
