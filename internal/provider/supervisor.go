package provider

import (
	"context"
	"time"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/log"
)

// DefaultConnectTimeout bounds a single connect attempt when the provider's
// config does not specify its own. An unresponsive subprocess must not stall
// the whole batch.
const DefaultConnectTimeout = 10 * time.Second

// Connector is the transport primitive the Supervisor drives. The production
// implementation wraps the Genkit MCP host; tests substitute fakes.
type Connector interface {
	// Connect establishes the provider connection (spawning the
	// subprocess for stdio providers). Blocks until the handshake
	// completes or ctx expires.
	Connect(ctx context.Context, cfg Config) error

	// Disconnect tears down the named provider's connection. Must be
	// called by the same owner that connected it.
	Disconnect(ctx context.Context, name string) error
}

// Report summarizes one ConnectAll batch.
type Report struct {
	Connected []string
	Failed    []string
	Errors    map[string]string
}

// Supervisor brings registered providers online and tears them down again,
// recording every outcome in the Registry. One provider's failure never
// blocks the others, and no connection error escapes as a Go error.
type Supervisor struct {
	registry  *Registry
	connector Connector
	logger    log.Logger
	timeout   time.Duration
}

// SupervisorOption configures optional Supervisor behavior.
type SupervisorOption func(*Supervisor)

// WithConnectTimeout overrides the default per-provider connect timeout.
func WithConnectTimeout(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSupervisor creates a Supervisor over the given registry and transport.
func NewSupervisor(registry *Registry, connector Connector, logger log.Logger, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		registry:  registry,
		connector: connector,
		logger:    logger,
		timeout:   DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConnectAll attempts to connect every registered provider in registration
// order. Each attempt runs under a bounded wait; on failure the error is
// recorded on the provider's status and the batch proceeds. There is no
// retry.
func (s *Supervisor) ConnectAll(ctx context.Context) Report {
	report := Report{Errors: make(map[string]string)}

	for _, name := range s.registry.Names() {
		cfg, err := s.registry.GetConfig(name)
		if err != nil {
			// Unreachable unless the provider was removed mid-batch.
			continue
		}

		timeout := cfg.ConnectTimeout
		if timeout <= 0 {
			timeout = s.timeout
		}

		s.registry.markConnecting(name)
		connectCtx, cancel := context.WithTimeout(ctx, timeout)
		err = s.connector.Connect(connectCtx, cfg)
		cancel()

		if err != nil {
			_ = s.registry.SetConnected(name, false, err.Error())
			report.Failed = append(report.Failed, name)
			report.Errors[name] = err.Error()
			s.logger.Warn("provider connect failed, continuing without it",
				"provider", name,
				"domain", cfg.Domain,
				"error", err)
			continue
		}

		_ = s.registry.SetConnected(name, true, "")
		report.Connected = append(report.Connected, name)
		s.logger.Info("provider connected",
			"provider", name,
			"domain", cfg.Domain)
	}

	s.logger.Info("provider batch complete",
		"connected", len(report.Connected),
		"failed", len(report.Failed),
		"total", s.registry.Count())

	return report
}

// DisconnectAll tears down every connected provider with the same
// fan-out-without-abort semantics as ConnectAll. Intended for process
// shutdown or session end; errors are logged and the teardown continues.
func (s *Supervisor) DisconnectAll(ctx context.Context) {
	for _, status := range s.registry.ListAll() {
		if !status.Connected() {
			continue
		}

		if err := s.connector.Disconnect(ctx, status.Name); err != nil {
			s.logger.Warn("provider disconnect failed",
				"provider", status.Name,
				"error", err)
		}
		_ = s.registry.SetConnected(status.Name, false, "")
	}

	s.logger.Info("all providers disconnected")
}
