// Package app provides application initialization and dependency wiring.
//
// App is the container that owns every long-lived component: the Genkit
// runtime, the provider registry and its supervisor, and the direct-tool
// handler. Commands receive an App from Setup and must call Close.
package app

import (
	"context"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/gofrs/flock"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/agent"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/log"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/provider"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/tools"
)

// App is the core application container.
type App struct {
	Config *config.Config

	Genkit     *genkit.Genkit
	Registry   *provider.Registry
	Supervisor *provider.Supervisor
	Connector  *provider.HostConnector
	Tools      *tools.Handler
	Logger     log.Logger

	lock        *flock.Flock
	otelCleanup func()
}

// Close releases everything Setup acquired: provider connections, the
// instance lock, and the trace exporter. Safe to call on a partially
// initialized App (the setup failure path relies on this).
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down")
	}

	if a.Supervisor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		a.Supervisor.DisconnectAll(ctx)
		cancel()
	}

	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil && a.Logger != nil {
			a.Logger.Warn("releasing instance lock", "error", err)
		}
	}

	return nil
}

// CreateAgent builds a chat agent over the app's shared components.
func (a *App) CreateAgent() (*agent.Agent, error) {
	return agent.New(agent.Config{
		Genkit:      a.Genkit,
		Registry:    a.Registry,
		Credentials: a.Config.Credentials(),
		MCPTools:    a.Connector,
		ModelName:   a.Config.FullModelName(),
		Temperature: a.Config.Temperature,
		MaxTokens:   a.Config.MaxTokens,
		MaxTurns:    a.Config.MaxTurns,
		Variant:     agentVariant(a.Config.Variant),
		Logger:      a.Logger,
		RateLimit:   10,
		Burst:       30,
	})
}
