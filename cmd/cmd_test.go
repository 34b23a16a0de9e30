package cmd

import (
	"strings"
	"testing"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"chat":      false,
		"ask":       false,
		"providers": false,
		"mcp":       false,
		"version":   false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCredentialHints(t *testing.T) {
	cfg := &config.Config{}
	hints := credentialHints(cfg)
	if len(hints) != 3 {
		t.Fatalf("len(hints) = %d with nothing configured, want 3", len(hints))
	}

	joined := strings.Join(hints, "\n")
	for _, envVar := range []string{"WEATHER_API_KEY", "AIR_QUALITY_API_TOKEN", "SEARXNG_BASE_URL"} {
		if !strings.Contains(joined, envVar) {
			t.Errorf("hints missing %s", envVar)
		}
	}

	cfg.Weather.APIKey = "k"
	cfg.AirQuality.APIToken = "t"
	cfg.Search.BaseURL = "https://searx.local"
	if hints := credentialHints(cfg); len(hints) != 0 {
		t.Errorf("hints = %v with everything configured, want none", hints)
	}
}
