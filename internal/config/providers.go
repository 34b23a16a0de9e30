package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/capability"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/provider"
)

// MCPConfig controls MCP provider behavior.
type MCPConfig struct {
	// ConnectTimeout is the per-provider connect timeout in seconds
	// (default: 10).
	ConnectTimeout int `mapstructure:"connect_timeout" json:"connect_timeout"`

	// Servers holds extra MCP servers from the config file, keyed by
	// provider name. Built-in providers come from the environment and
	// are registered first.
	Servers map[string]MCPServer `mapstructure:"servers" json:"servers"`
}

// MCPServer defines one config-file MCP server entry.
type MCPServer struct {
	// Command is the executable to spawn (e.g. "npx"). Required unless
	// URL is set.
	Command string `mapstructure:"command" json:"command"`
	// Args are the command arguments.
	Args []string `mapstructure:"args" json:"args"`
	// Env are extra environment variables for the subprocess.
	Env map[string]string `mapstructure:"env" json:"env"`
	// URL is the endpoint for remote servers (mutually exclusive with
	// Command).
	URL string `mapstructure:"url" json:"url"`
	// Domain is the capability domain the server backs
	// (default: documentation).
	Domain string `mapstructure:"domain" json:"domain"`
	// Capabilities optionally declares the operations offered.
	Capabilities []string `mapstructure:"capabilities" json:"capabilities"`
}

// ConnectTimeoutDuration returns the configured connect timeout.
func (m MCPConfig) ConnectTimeoutDuration() time.Duration {
	if m.ConnectTimeout <= 0 {
		return provider.DefaultConnectTimeout
	}
	return time.Duration(m.ConnectTimeout) * time.Second
}

// ProviderConfigs assembles the full provider list: built-in providers
// discovered from the environment, then config-file entries sorted by name.
//
// Built-in providers:
//
//   - Documentation: the Context7 MCP server, spawned via npx. Always
//     registered; availability is decided by whether it actually
//     connects, not by configuration. CONTEXT7_API_KEY is optional and
//     only raises rate limits.
func (c *Config) ProviderConfigs() []provider.Config {
	timeout := c.MCP.ConnectTimeoutDuration()

	args := []string{"-y", "@upstash/context7-mcp@latest"}
	if apiKey := os.Getenv("CONTEXT7_API_KEY"); apiKey != "" {
		args = append(args, "--api-key", apiKey)
	}

	configs := []provider.Config{
		{
			Name:           "docs",
			Domain:         capability.DomainDocumentation,
			Command:        "npx",
			Args:           args,
			Capabilities:   []string{"resolve-library-id", "get-library-docs"},
			ConnectTimeout: timeout,
		},
	}

	// Sorted by name so registration (and therefore status listing and
	// connect order) is deterministic across runs.
	names := make([]string, 0, len(c.MCP.Servers))
	for name := range c.MCP.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		srv := c.MCP.Servers[name]
		domain := srv.Domain
		if domain == "" {
			domain = capability.DomainDocumentation
		}
		configs = append(configs, provider.Config{
			Name:           name,
			Domain:         domain,
			Command:        srv.Command,
			Args:           srv.Args,
			Env:            envMapToSlice(srv.Env),
			URL:            srv.URL,
			Capabilities:   srv.Capabilities,
			ConnectTimeout: timeout,
		})
	}

	return configs
}

// Credentials projects the config into the resolver's credential view.
func (c *Config) Credentials() capability.Credentials {
	return capability.Credentials{
		WeatherAPIKey:   c.Weather.APIKey,
		AirQualityToken: c.AirQuality.APIToken,
		SearchBaseURL:   c.Search.BaseURL,
	}
}

// envMapToSlice converts an environment map to the KEY=value slice format
// the stdio transport expects.
func envMapToSlice(m map[string]string) []string {
	if m == nil {
		return nil
	}
	result := make([]string, 0, len(m))
	for k, v := range m {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}
