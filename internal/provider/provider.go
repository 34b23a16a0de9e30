// Package provider tracks external capability providers and their live
// connection state.
//
// A provider is anything the assistant can draw a capability from: an MCP
// server subprocess spawned over stdio, a remote MCP endpoint, or a direct
// HTTP API. This package owns the authoritative in-memory table of providers
// (Registry) and the component that brings them online (Supervisor).
//
// Design principles:
//   - The Registry is an explicitly constructed object owned by the
//     application, never a package-level singleton.
//   - Connection failures are recorded, never escalated: a provider that
//     cannot connect simply leaves its capability unavailable.
//   - No automatic retry. Sessions are short-lived; reconnection is the
//     caller's decision.
package provider

import (
	"fmt"
	"time"
)

// State is the connection state of a provider.
type State string

const (
	// StateUnconnected indicates no connection attempt has succeeded yet,
	// or the provider has been deliberately disconnected.
	StateUnconnected State = "unconnected"

	// StateConnecting indicates a connection attempt is in flight.
	// This state is transient: it is only observable while the
	// Supervisor is waiting on the provider's connect call.
	StateConnecting State = "connecting"

	// StateConnected indicates the provider is reachable.
	StateConnected State = "connected"

	// StateFailed indicates the last connection attempt failed.
	StateFailed State = "failed"
)

// Config is the static description of one provider. Immutable once loaded.
type Config struct {
	// Name is the unique registry key (e.g. "docs", "github").
	Name string

	// Domain is the capability domain this provider backs
	// (e.g. "documentation"). Used by the capability resolver.
	Domain string

	// Command plus Args and Env form the stdio launch directive for
	// subprocess providers. The contents are opaque to this package and
	// passed through to the MCP transport unparsed.
	Command string
	Args    []string
	Env     []string

	// URL is the endpoint for remote providers. Exactly one of Command
	// and URL should be set.
	URL string

	// Capabilities optionally declares the operations this provider
	// offers (e.g. "resolve-library-id", "get-library-docs"). Copied
	// into Status at registration.
	Capabilities []string

	// ConnectTimeout bounds a single connect attempt. Zero means the
	// Supervisor's default applies.
	ConnectTimeout time.Duration
}

// Validate checks that the config describes a launchable provider.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: provider name is empty", ErrInvalidProviderConfig)
	}
	if c.Command == "" && c.URL == "" {
		return fmt.Errorf("%w: provider %q has neither command nor URL", ErrInvalidProviderConfig, c.Name)
	}
	if c.Command != "" && c.URL != "" {
		return fmt.Errorf("%w: provider %q has both command and URL", ErrInvalidProviderConfig, c.Name)
	}
	return nil
}

// Status is the mutable per-provider connection record. Values returned by
// the Registry are copies; the Registry remains the only writer.
type Status struct {
	// Name mirrors the registry key for convenience in aggregate reports.
	Name string

	// Domain mirrors Config.Domain.
	Domain string

	// State is the current connection state.
	State State

	// LastConnected is the time of the most recent successful connect,
	// or nil if the provider has never connected.
	LastConnected *time.Time

	// LastError is the message from the most recent failed attempt.
	// Empty while connected or before any attempt.
	LastError string

	// Capabilities is the declared or discovered operation list.
	Capabilities []string
}

// Connected reports whether the provider is currently usable.
func (s Status) Connected() bool {
	return s.State == StateConnected
}
