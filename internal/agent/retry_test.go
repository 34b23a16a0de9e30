package agent

import (
	"errors"
	"testing"
)

func TestRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", errors.New("googleai: rate limit exceeded"), true},
		{"429 status", errors.New("unexpected status 429"), true},
		{"quota", errors.New("Quota exceeded for requests"), true},
		{"server error", errors.New("rpc error: code 503 service unavailable"), true},
		{"timeout", errors.New("context deadline exceeded (Client.Timeout)"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"invalid argument", errors.New("invalid argument: unknown model"), false},
		{"auth failure", errors.New("API key not valid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableError(tt.err); got != tt.want {
				t.Errorf("retryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.InitialInterval <= 0 || cfg.MaxInterval < cfg.InitialInterval {
		t.Errorf("intervals out of order: initial %v, max %v", cfg.InitialInterval, cfg.MaxInterval)
	}
}
