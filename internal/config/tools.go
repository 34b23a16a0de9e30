package config

import (
	"encoding/json"
	"fmt"
)

// WeatherConfig holds the direct weather API endpoint and credential.
// The capability is available iff APIKey is set; no liveness check is made.
type WeatherConfig struct {
	// BaseURL is the API root (default: https://api.weatherapi.com/v1)
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// APIKey is the credential. SENSITIVE: masked in MarshalJSON.
	APIKey string `mapstructure:"api_key" json:"api_key"`
	// TimeoutMs is the per-request timeout in milliseconds (default: 10000)
	TimeoutMs int `mapstructure:"timeout_ms" json:"timeout_ms"`
}

// Configured reports whether the weather capability can be offered.
func (w WeatherConfig) Configured() bool {
	return w.APIKey != ""
}

// MarshalJSON masks the API key.
func (w WeatherConfig) MarshalJSON() ([]byte, error) {
	type alias WeatherConfig
	a := alias(w)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal weather config: %w", err)
	}
	return data, nil
}

// AirQualityConfig holds the air-quality API endpoint and credential.
type AirQualityConfig struct {
	// BaseURL is the API root (default: https://api.waqi.info/feed)
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// APIToken is the credential. SENSITIVE: masked in MarshalJSON.
	APIToken string `mapstructure:"api_token" json:"api_token"`
	// TimeoutMs is the per-request timeout in milliseconds (default: 10000)
	TimeoutMs int `mapstructure:"timeout_ms" json:"timeout_ms"`
}

// Configured reports whether the air-quality capability can be offered.
func (a AirQualityConfig) Configured() bool {
	return a.APIToken != ""
}

// MarshalJSON masks the API token.
func (a AirQualityConfig) MarshalJSON() ([]byte, error) {
	type alias AirQualityConfig
	aa := alias(a)
	aa.APIToken = maskSecret(aa.APIToken)
	data, err := json.Marshal(aa)
	if err != nil {
		return nil, fmt.Errorf("marshal air quality config: %w", err)
	}
	return data, nil
}

// SearchConfig holds the SearXNG web-search endpoint. No credential: the
// capability is gated on BaseURL being configured at all.
type SearchConfig struct {
	// BaseURL is the SearXNG instance URL (e.g. http://localhost:8888)
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// MaxResults bounds how many results a search returns (default: 5)
	MaxResults int `mapstructure:"max_results" json:"max_results"`
	// TimeoutMs is the per-request timeout in milliseconds (default: 10000)
	TimeoutMs int `mapstructure:"timeout_ms" json:"timeout_ms"`
}

// Configured reports whether the web-search capability can be offered.
func (s SearchConfig) Configured() bool {
	return s.BaseURL != ""
}

// OtelConfig holds OTLP trace export configuration. Export is enabled only
// when Endpoint is set.
type OtelConfig struct {
	// Endpoint is the OTLP HTTP collector address (e.g. localhost:4318)
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// ServiceName tags exported spans (default: aria)
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	// Environment tags the deployment environment (default: dev)
	Environment string `mapstructure:"environment" json:"environment"`
}
