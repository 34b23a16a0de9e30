package provider

import (
	"fmt"
	"sync"
	"time"
)

// Registry is the authoritative in-memory table of providers and their
// connection status.
//
// All mutation flows through SetConnected (plus the transient markConnecting
// used by the Supervisor), so readers always observe the latest applied
// write. The mutex exists for callers that fan out connection attempts; the
// default Supervisor is sequential and would be correct without it.
type Registry struct {
	mu      sync.RWMutex
	order   []string // insertion order, used by ListAll and the Supervisor
	entries map[string]*entry
}

type entry struct {
	config Config
	status Status
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register adds a provider. The initial state is StateUnconnected.
// Returns ErrDuplicateProvider if the name is already taken and
// ErrInvalidProviderConfig if the config is malformed; both are
// configuration errors and should abort startup.
func (r *Registry) Register(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[cfg.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, cfg.Name)
	}

	r.order = append(r.order, cfg.Name)
	r.entries[cfg.Name] = &entry{
		config: cfg,
		status: Status{
			Name:         cfg.Name,
			Domain:       cfg.Domain,
			State:        StateUnconnected,
			Capabilities: append([]string(nil), cfg.Capabilities...),
		},
	}
	return nil
}

// GetStatus returns a copy of the provider's status.
func (r *Registry) GetStatus(name string) (Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Status{}, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return copyStatus(e.status), nil
}

// GetConfig returns a copy of the provider's static configuration.
func (r *Registry) GetConfig(name string) (Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return e.config, nil
}

// Names returns all provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ListAll returns status copies for every provider in registration order.
// Used for aggregate reporting only.
func (r *Registry) ListAll() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Status, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, copyStatus(r.entries[name].status))
	}
	return out
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ConnectedCount returns how many providers are currently connected.
func (r *Registry) ConnectedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.entries {
		if e.status.State == StateConnected {
			n++
		}
	}
	return n
}

// DomainConnected reports whether any provider backing the given capability
// domain is currently connected.
func (r *Registry) DomainConnected(domain string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.config.Domain == domain && e.status.State == StateConnected {
			return true
		}
	}
	return false
}

// SetConnected is the registry's mutator.
//
// connected=true marks the provider StateConnected, stamps LastConnected and
// clears LastError. connected=false with a non-empty errMsg marks it
// StateFailed and records the message; with an empty errMsg it marks it
// StateUnconnected (the disconnect path) and clears LastError.
//
// The call is idempotent: repeating it with the same arguments refreshes the
// timestamp but changes nothing else.
func (r *Registry) SetConnected(name string, connected bool, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}

	if connected {
		now := time.Now()
		e.status.State = StateConnected
		e.status.LastConnected = &now
		e.status.LastError = ""
		return nil
	}

	if errMsg != "" {
		e.status.State = StateFailed
		e.status.LastError = errMsg
	} else {
		e.status.State = StateUnconnected
		e.status.LastError = ""
	}
	return nil
}

// markConnecting flags an in-flight connect attempt. The state is transient:
// the Supervisor always overwrites it via SetConnected when the attempt
// resolves.
func (r *Registry) markConnecting(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok {
		e.status.State = StateConnecting
	}
}

func copyStatus(s Status) Status {
	cp := s
	if s.LastConnected != nil {
		t := *s.LastConnected
		cp.LastConnected = &t
	}
	cp.Capabilities = append([]string(nil), s.Capabilities...)
	return cp
}
