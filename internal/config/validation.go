package config

import (
	"fmt"
	"os"
	"slices"
)

// Validate validates configuration values. Returns sentinel errors that can
// be checked with errors.Is(). Any failure here is a configuration error:
// the process reports it and does not proceed.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// The primary model credential is the one hard requirement; every
	// per-domain credential is optional and merely gates its capability.
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
			"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
			ErrMissingAPIKey)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.MaxTurns < 1 || c.MaxTurns > 25 {
		return fmt.Errorf("%w: must be between 1 and 25, got %d", ErrInvalidMaxTurns, c.MaxTurns)
	}

	if c.MaxHistoryMessages < 1 || c.MaxHistoryMessages > MaxAllowedHistoryMessages {
		return fmt.Errorf("%w: must be between 1 and %d, got %d",
			ErrInvalidHistoryLimit, MaxAllowedHistoryMessages, c.MaxHistoryMessages)
	}

	validVariants := []string{VariantGeneral, VariantWeatherOnly, VariantChatOnly}
	if !slices.Contains(validVariants, c.Variant) {
		return fmt.Errorf("%w: %q (must be one of: general, weather, chat)", ErrInvalidVariant, c.Variant)
	}

	for name, ms := range map[string]int{
		"weather.timeout_ms":     c.Weather.TimeoutMs,
		"air_quality.timeout_ms": c.AirQuality.TimeoutMs,
		"search.timeout_ms":      c.Search.TimeoutMs,
	} {
		if ms < 100 || ms > 120000 {
			return fmt.Errorf("%w: %s must be between 100 and 120,000 ms, got %d", ErrInvalidTimeout, name, ms)
		}
	}

	if c.MCP.ConnectTimeout < 0 || c.MCP.ConnectTimeout > 300 {
		return fmt.Errorf("%w: mcp.connect_timeout must be between 0 and 300 s, got %d", ErrInvalidTimeout, c.MCP.ConnectTimeout)
	}

	return nil
}
