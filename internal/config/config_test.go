package config

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/capability"
)

// validConfig returns a Config that passes Validate when GEMINI_API_KEY is
// set. Tests mutate single fields from this baseline.
func validConfig() *Config {
	return &Config{
		ModelName:          DefaultModelName,
		Temperature:        0.7,
		MaxTokens:          2048,
		MaxTurns:           5,
		Variant:            VariantGeneral,
		MaxHistoryMessages: DefaultMaxHistoryMessages,
		Weather:            WeatherConfig{BaseURL: "https://api.weatherapi.com/v1", TimeoutMs: 10000},
		AirQuality:         AirQualityConfig{BaseURL: "https://api.waqi.info/feed", TimeoutMs: 10000},
		Search:             SearchConfig{MaxResults: 5, TimeoutMs: 10000},
		MCP:                MCPConfig{ConnectTimeout: 10},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"empty model name", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, ErrInvalidTemperature},
		{"temperature negative", func(c *Config) { c.Temperature = -0.1 }, ErrInvalidTemperature},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, ErrInvalidMaxTokens},
		{"zero max turns", func(c *Config) { c.MaxTurns = 0 }, ErrInvalidMaxTurns},
		{"excessive max turns", func(c *Config) { c.MaxTurns = 100 }, ErrInvalidMaxTurns},
		{"zero history limit", func(c *Config) { c.MaxHistoryMessages = 0 }, ErrInvalidHistoryLimit},
		{"history limit over cap", func(c *Config) { c.MaxHistoryMessages = MaxAllowedHistoryMessages + 1 }, ErrInvalidHistoryLimit},
		{"unknown variant", func(c *Config) { c.Variant = "verbose" }, ErrInvalidVariant},
		{"weather timeout too small", func(c *Config) { c.Weather.TimeoutMs = 10 }, ErrInvalidTimeout},
		{"search timeout too large", func(c *Config) { c.Search.TimeoutMs = 600000 }, ErrInvalidTimeout},
		{"negative mcp connect timeout", func(c *Config) { c.MCP.ConnectTimeout = -1 }, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "test-key")

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMissingGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	err := validConfig().Validate()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Validate() = %v, want ErrMissingAPIKey", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() on nil = %v, want ErrConfigNil", err)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", maskedValue},
		{"12345678", maskedValue},
		{"sk-abcdefghijklmnop", "sk<" + maskedValue + ">op"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarshalJSONMasksSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Weather.APIKey = "weather-secret-key-123"
	cfg.AirQuality.APIToken = "aqi-secret-token-456"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, secret := range []string{"weather-secret-key-123", "aqi-secret-token-456"} {
		if strings.Contains(out, secret) {
			t.Errorf("marshaled config leaks secret %q", secret)
		}
	}
	if !strings.Contains(out, maskedValue) {
		t.Error("marshaled config contains no mask placeholder")
	}

	// String() goes through the same path.
	if s := cfg.String(); strings.Contains(s, "weather-secret-key-123") {
		t.Error("String() leaks a secret")
	}
}

func TestFullModelName(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"googleai/gemini-2.5-pro", "googleai/gemini-2.5-pro"},
	}
	for _, tt := range tests {
		cfg := &Config{ModelName: tt.model}
		if got := cfg.FullModelName(); got != tt.want {
			t.Errorf("FullModelName(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestProviderConfigs(t *testing.T) {
	t.Setenv("CONTEXT7_API_KEY", "")

	cfg := validConfig()
	cfg.MCP.Servers = map[string]MCPServer{
		"zeta-docs": {Command: "npx", Args: []string{"-y", "zeta-server"}},
		"alpha-docs": {
			Command: "uvx",
			Env:     map[string]string{"TOKEN": "x"},
			Domain:  "documentation",
		},
	}

	configs := cfg.ProviderConfigs()
	if len(configs) != 3 {
		t.Fatalf("len(ProviderConfigs()) = %d, want 3", len(configs))
	}

	// Built-in documentation provider is always first and always present.
	docs := configs[0]
	if docs.Name != "docs" || docs.Command != "npx" {
		t.Errorf("built-in provider = %+v", docs)
	}
	if docs.Domain != capability.DomainDocumentation {
		t.Errorf("built-in Domain = %q, want documentation", docs.Domain)
	}

	// File entries follow in sorted name order.
	if configs[1].Name != "alpha-docs" || configs[2].Name != "zeta-docs" {
		t.Errorf("file providers = %q, %q; want sorted order", configs[1].Name, configs[2].Name)
	}
	if got := configs[1].Env; len(got) != 1 || got[0] != "TOKEN=x" {
		t.Errorf("env slice = %v, want [TOKEN=x]", got)
	}
}

func TestProviderConfigsContext7Key(t *testing.T) {
	t.Setenv("CONTEXT7_API_KEY", "ctx7-key")

	configs := validConfig().ProviderConfigs()
	args := strings.Join(configs[0].Args, " ")
	if !strings.Contains(args, "--api-key ctx7-key") {
		t.Errorf("args = %q, want the api key flag appended", args)
	}
}

func TestCredentialsProjection(t *testing.T) {
	cfg := validConfig()
	cfg.Weather.APIKey = "wk"
	cfg.Search.BaseURL = "https://searx.local"

	creds := cfg.Credentials()
	want := capability.Credentials{WeatherAPIKey: "wk", SearchBaseURL: "https://searx.local"}
	if creds != want {
		t.Errorf("Credentials() = %+v, want %+v", creds, want)
	}
}
