// Package agent runs conversation turns against the model runtime.
//
// The agent re-resolves capabilities at the start of every turn, so a
// documentation server that failed at startup simply contributes nothing:
// its guidance is omitted from the instructions and its tools are never
// offered to the model. Degraded operation is the normal path, not an
// error path.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/capability"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/log"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/provider"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/session"
)

// Sentinel errors checked with errors.Is().
var (
	ErrNilGenkit   = errors.New("genkit instance is nil")
	ErrNilRegistry = errors.New("provider registry is nil")
	ErrEmptyInput  = errors.New("empty input")
)

// StreamCallback receives response text incrementally as the model
// produces it. Returning an error aborts the generation.
type StreamCallback func(ctx context.Context, text string) error

// MCPToolSource enumerates the tools currently exposed by connected MCP
// servers. Implemented by the provider host connector.
type MCPToolSource interface {
	Tools(ctx context.Context) ([]ai.Tool, error)
}

// Config carries everything the agent needs. All fields except Logger,
// MCPTools, and RateLimit are required.
type Config struct {
	Genkit      *genkit.Genkit
	Registry    *provider.Registry
	Credentials capability.Credentials
	MCPTools    MCPToolSource
	Session     *session.Session

	ModelName   string
	Temperature float32
	MaxTokens   int
	MaxTurns    int
	Variant     capability.Variant

	Logger log.Logger

	// RateLimit enables a proactive limiter in front of model calls.
	// Zero disables it.
	RateLimit rate.Limit
	Burst     int
}

func (cfg *Config) validate() error {
	if cfg.Genkit == nil {
		return ErrNilGenkit
	}
	if cfg.Registry == nil {
		return ErrNilRegistry
	}
	return nil
}

// Agent executes chat turns. Safe for sequential use from a single chat
// loop; the session it holds is itself safe for concurrent reads.
type Agent struct {
	g           *genkit.Genkit
	registry    *provider.Registry
	creds       capability.Credentials
	mcpTools    MCPToolSource
	session     *session.Session
	modelName   string
	temperature float32
	maxTokens   int
	maxTurns    int
	variant     capability.Variant
	logger      log.Logger
	retry       RetryConfig
	limiter     *rate.Limiter
}

// New creates an Agent from cfg.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	sess := cfg.Session
	if sess == nil {
		sess = session.New(session.DefaultLimit)
	}
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	return &Agent{
		g:           cfg.Genkit,
		registry:    cfg.Registry,
		creds:       cfg.Credentials,
		mcpTools:    cfg.MCPTools,
		session:     sess,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxTurns:    maxTurns,
		variant:     cfg.Variant,
		logger:      logger,
		retry:       DefaultRetryConfig(),
		limiter:     limiter,
	}, nil
}

// Session returns the conversation history the agent appends to.
func (a *Agent) Session() *session.Session {
	return a.session
}

// Capabilities resolves the current capability set. Called per turn and
// also by the CLI to report availability to the user.
func (a *Agent) Capabilities() capability.Set {
	return capability.Resolve(a.registry, a.creds)
}

// Execute runs one conversation turn: resolve capabilities, assemble
// instructions and tools, call the model, and record the exchange. The
// returned error is a turn failure the caller should report and survive;
// the chat loop is expected to continue with history intact.
func (a *Agent) Execute(ctx context.Context, input string, callback StreamCallback) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}

	set := a.Capabilities()
	instructions := capability.BuildInstructions(set, a.variant, a.session.Transcript())
	toolRefs := a.turnTools(ctx, set)

	a.logger.Debug("executing turn",
		"capabilities", set,
		"tools", len(toolRefs),
		"history_messages", a.session.Count(),
	)

	opts := []ai.GenerateOption{
		ai.WithModelName(a.modelName),
		ai.WithSystem(instructions),
		ai.WithMessages(a.session.Messages()...),
		ai.WithPrompt(input),
		ai.WithMaxTurns(a.maxTurns),
		ai.WithConfig(map[string]any{
			"temperature":     a.temperature,
			"maxOutputTokens": a.maxTokens,
		}),
	}
	if len(toolRefs) > 0 {
		opts = append(opts, ai.WithTools(toolRefs...))
	}
	if callback != nil {
		opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			return callback(ctx, chunk.Text())
		}))
	}

	resp, err := a.generateWithRetry(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}

	answer := resp.Text()
	a.session.Add(input, answer)
	return answer, nil
}

// turnTools collects the tool references for the current capability set:
// direct tools looked up by name, plus whatever the MCP host currently
// exposes when the documentation domain is live.
func (a *Agent) turnTools(ctx context.Context, set capability.Set) []ai.ToolRef {
	var refs []ai.ToolRef
	for _, name := range capability.SelectToolNames(set) {
		if tool := genkit.LookupTool(a.g, name); tool != nil {
			refs = append(refs, tool)
		} else {
			a.logger.Warn("tool not registered", "tool", name)
		}
	}

	if set.Documentation && a.mcpTools != nil {
		mcpTools, err := a.mcpTools.Tools(ctx)
		if err != nil {
			// Treated like a degraded capability, not a turn failure.
			a.logger.Warn("listing MCP tools failed", "error", err)
		}
		for _, t := range mcpTools {
			refs = append(refs, t)
		}
	}

	return refs
}
