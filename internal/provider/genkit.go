package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/mcp"
)

// ErrUnsupportedTransport indicates a provider directive this connector
// cannot drive. The error surfaces through the normal fail-soft path: the
// provider is marked Failed and the session continues without it.
var ErrUnsupportedTransport = errors.New("unsupported provider transport")

// HostConnector drives provider connections through the Genkit MCP host.
// The wire protocol, subprocess spawning and handshake all belong to the
// host; this type only translates provider configs into client options and
// reports outcomes.
//
// HostConnector is exclusively owned by the Supervisor that uses it; the
// same owner must perform the teardown.
type HostConnector struct {
	g    *genkit.Genkit
	host *mcp.MCPHost
}

// NewHostConnector creates a connector backed by a fresh MCP host with no
// servers attached. Providers are attached one at a time by the Supervisor,
// which is what gives us per-provider status instead of the host's
// all-or-nothing batch connect.
func NewHostConnector(g *genkit.Genkit, name, version string) (*HostConnector, error) {
	host, err := mcp.NewMCPHost(g, mcp.MCPHostOptions{
		Name:    name,
		Version: version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP host: %w", err)
	}

	return &HostConnector{g: g, host: host}, nil
}

// Connect attaches one provider to the host.
func (c *HostConnector) Connect(ctx context.Context, cfg Config) error {
	if cfg.Command == "" {
		// Remote MCP endpoints are not wired through this transport yet;
		// the capability simply stays unavailable.
		return fmt.Errorf("%w: provider %q uses a URL directive", ErrUnsupportedTransport, cfg.Name)
	}

	opts := mcp.MCPClientOptions{
		Name: cfg.Name,
		Stdio: &mcp.StdioConfig{
			Command: cfg.Command,
			Args:    cfg.Args,
			Env:     cfg.Env,
		},
	}

	if err := c.host.Connect(ctx, c.g, cfg.Name, opts); err != nil {
		return fmt.Errorf("connecting provider %q: %w", cfg.Name, err)
	}
	return nil
}

// Disconnect detaches one provider from the host.
func (c *HostConnector) Disconnect(ctx context.Context, name string) error {
	if err := c.host.Disconnect(ctx, name); err != nil {
		return fmt.Errorf("disconnecting provider %q: %w", name, err)
	}
	return nil
}

// Tools returns the aggregated tool set of every connected provider, ready
// for Generate calls. The host enumerates each server's tools itself; this
// system never lists them per provider.
func (c *HostConnector) Tools(ctx context.Context) ([]ai.Tool, error) {
	tools, err := c.host.GetActiveTools(ctx, c.g)
	if err != nil {
		return nil, fmt.Errorf("getting MCP tools: %w", err)
	}
	return tools, nil
}
