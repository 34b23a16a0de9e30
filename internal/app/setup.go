package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firebase/genkit/go/core/tracing"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/gofrs/flock"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/capability"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/log"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/provider"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/tools"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// ErrAlreadyRunning indicates another process holds the instance lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Setup creates and initializes the application. Every error returned here
// is a configuration or environment problem: report it and exit non-zero.
// Provider connections are NOT established; callers decide when to run
// Supervisor.ConnectAll.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already acquired.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	lock, err := acquireInstanceLock()
	if err != nil {
		return nil, err
	}
	a.lock = lock

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	a.Tools = tools.NewHandler(cfg, logger)
	tools.Register(g, a.Tools)

	registry, err := provideRegistry(cfg)
	if err != nil {
		return nil, err
	}
	a.Registry = registry

	connector, err := provider.NewHostConnector(g, "aria", Version)
	if err != nil {
		return nil, fmt.Errorf("creating MCP host: %w", err)
	}
	a.Connector = connector

	a.Supervisor = provider.NewSupervisor(registry, connector, logger,
		provider.WithConnectTimeout(cfg.MCP.ConnectTimeoutDuration()))

	return a, nil
}

// acquireInstanceLock takes the per-user lock under ~/.aria. Two chat
// processes sharing one config directory (and one set of MCP subprocesses)
// cause confusing interleaved state.
func acquireInstanceLock() (*flock.Flock, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "aria.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring instance lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return lock, nil
}

// provideGenkit initializes the Genkit runtime with the Google AI plugin.
// The plugin reads GEMINI_API_KEY from the environment itself; config
// validation has already confirmed it is present.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}
	logger.Debug("genkit initialized", "model", cfg.FullModelName())
	return g, nil
}

// provideRegistry registers every configured provider. Registration
// failures (duplicate names, malformed entries) are configuration errors
// and abort startup; connection failures later are not.
func provideRegistry(cfg *config.Config) (*provider.Registry, error) {
	registry := provider.NewRegistry()
	for _, pc := range cfg.ProviderConfigs() {
		if err := registry.Register(pc); err != nil {
			return nil, fmt.Errorf("registering provider %q: %w", pc.Name, err)
		}
	}
	return registry, nil
}

// provideOtelShutdown enables OTLP trace export when an endpoint is
// configured; otherwise it is a no-op. Failures here degrade to disabled
// tracing, never to a startup error.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	if cfg.Otel.Endpoint == "" {
		return func() {}
	}

	// Set before Genkit spans are created so its TracerProvider picks
	// these up. Startup is single-goroutine at this point.
	if cfg.Otel.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	}
	if cfg.Otel.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Otel.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Otel.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("creating OTLP exporter, tracing disabled", "error", err)
		return func() {}
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("trace export enabled",
		"endpoint", cfg.Otel.Endpoint,
		"service", cfg.Otel.ServiceName,
	)

	shutdown := tracing.TracerProvider().Shutdown
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// agentVariant maps the config variant string onto the capability type.
// Validation has already rejected unknown values.
func agentVariant(v string) capability.Variant {
	switch v {
	case config.VariantWeatherOnly:
		return capability.VariantWeatherOnly
	case config.VariantChatOnly:
		return capability.VariantChatOnly
	default:
		return capability.VariantGeneral
	}
}
