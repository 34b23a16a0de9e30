// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.aria/config.yaml)
//  3. Default values
//
// Main categories:
//   - Model: provider, model name, temperature, max tokens, turn limit
//   - Tools: weather / air-quality / web-search endpoints and credentials
//   - Providers: MCP server launch directives (see providers.go)
//   - Observability: OTLP trace export (optional)
//
// Validation runs once at load (fail-fast); sensitive values are masked in
// MarshalJSON and String so a logged Config never leaks a key.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates the primary model credential is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidMaxTurns indicates the agentic turn limit is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidHistoryLimit indicates the history bound is out of range.
	ErrInvalidHistoryLimit = errors.New("invalid history limit")

	// ErrInvalidTimeout indicates a timeout value is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidVariant indicates an unknown persona variant.
	ErrInvalidVariant = errors.New("invalid variant")
)

const (
	// DefaultModelName is the default chat model.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultMaxHistoryMessages bounds in-memory session history.
	DefaultMaxHistoryMessages = 50

	// MaxAllowedHistoryMessages is the absolute cap.
	MaxAllowedHistoryMessages = 1000
)

// Persona variants accepted in Config.Variant.
const (
	VariantGeneral     = "general"
	VariantWeatherOnly = "weather"
	VariantChatOnly    = "chat"
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON. When
// adding a new secret field, update MarshalJSON.
type Config struct {
	// Model configuration
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	MaxTurns    int     `mapstructure:"max_turns" json:"max_turns"`

	// Persona variant: general (default), weather, chat
	Variant string `mapstructure:"variant" json:"variant"`

	// Conversation history bound (in-memory, process lifetime)
	MaxHistoryMessages int `mapstructure:"max_history_messages" json:"max_history_messages"`

	// Direct-tool configuration (see tools.go)
	Weather    WeatherConfig    `mapstructure:"weather" json:"weather"`
	AirQuality AirQualityConfig `mapstructure:"air_quality" json:"air_quality"`
	Search     SearchConfig     `mapstructure:"search" json:"search"`

	// MCP provider configuration (see providers.go)
	MCP MCPConfig `mapstructure:"mcp" json:"mcp"`

	// Observability configuration (optional OTLP export)
	Otel OtelConfig `mapstructure:"otel" json:"otel"`
}

// Load loads configuration.
// Priority: environment variables > config file > defaults.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{dir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// Dir returns the configuration directory (~/.aria).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(home, ".aria"), nil
}

func setDefaults() {
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("max_turns", 5)
	viper.SetDefault("variant", VariantGeneral)
	viper.SetDefault("max_history_messages", DefaultMaxHistoryMessages)

	// Direct tools
	viper.SetDefault("weather.base_url", "https://api.weatherapi.com/v1")
	viper.SetDefault("weather.timeout_ms", 10000)
	viper.SetDefault("air_quality.base_url", "https://api.waqi.info/feed")
	viper.SetDefault("air_quality.timeout_ms", 10000)
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout_ms", 10000)

	// MCP providers
	viper.SetDefault("mcp.connect_timeout", 10)

	// Observability (disabled until an endpoint is configured)
	viper.SetDefault("otel.service_name", "aria")
	viper.SetDefault("otel.environment", "dev")
}

// bindEnvVariables binds environment variables explicitly. One credential
// per capability domain; each is optional and its absence simply disables
// that capability.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a failure here is a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("weather.api_key", "WEATHER_API_KEY")
	mustBind("air_quality.api_token", "AIR_QUALITY_API_TOKEN")
	mustBind("search.base_url", "SEARXNG_BASE_URL")

	mustBind("model_name", "ARIA_MODEL_NAME")
	mustBind("variant", "ARIA_VARIANT")
	mustBind("otel.endpoint", "ARIA_OTEL_ENDPOINT")

	// NOTE: GEMINI_API_KEY is read directly by the Genkit plugin, not via
	// Viper. Validation checks its presence in Validate().
}

// maskedValue is the placeholder for masked sensitive data. Full-width
// blocks avoid substring collisions with real secret content.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully
// masked; longer ones show two characters of context at each end.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
// Masked fields: Weather.APIKey, AirQuality.APIToken (via their own
// MarshalJSON methods).
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	data, err := json.Marshal(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer so accidental printing never leaks secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}

// FullModelName returns the provider-qualified model name for Genkit,
// e.g. "googleai/gemini-2.5-flash". Names already containing "/" pass
// through unchanged.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return "googleai/" + c.ModelName
}
