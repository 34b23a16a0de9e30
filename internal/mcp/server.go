// Package mcp exposes the assistant's direct tools over the Model Context
// Protocol, so other MCP-speaking hosts can call them.
//
// The server speaks stdio; all logging must therefore go to stderr, never
// stdout (see internal/log).
package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/tools"
)

// Server wraps the MCP SDK server around the tool handler.
type Server struct {
	mcpServer *mcp.Server
	handler   *tools.Handler
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Handler *tools.Handler
}

// NewServer creates an MCP server exposing the direct tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Handler == nil {
		return nil, fmt.Errorf("tool handler is required")
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		handler: cfg.Handler,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	return s, nil
}

// Run serves MCP requests on the given transport. Blocks until ctx is
// canceled or the transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

func (s *Server) registerTools() error {
	if err := register(s, "getWeather",
		"Get current weather conditions for a city.",
		func(ctx context.Context, in tools.WeatherInput) tools.Result {
			return s.handler.GetWeather(ctx, in)
		}); err != nil {
		return err
	}
	if err := register(s, "getAirQuality",
		"Get the current air quality index (AQI) for a city.",
		func(ctx context.Context, in tools.AirQualityInput) tools.Result {
			return s.handler.GetAirQuality(ctx, in)
		}); err != nil {
		return err
	}
	if err := register(s, "searchWeb",
		"Search the web via SearXNG and return the top results.",
		func(ctx context.Context, in tools.SearchInput) tools.Result {
			return s.handler.SearchWeb(ctx, in)
		}); err != nil {
		return err
	}
	return register(s, "fetchPage",
		"Download a web page and extract its readable text content.",
		func(ctx context.Context, in tools.FetchPageInput) tools.Result {
			return s.handler.FetchPage(ctx, in)
		})
}

// register wires one tool function into the MCP server. The Result
// envelope maps directly onto MCP's result shape: tool-level failures
// become IsError text results, never protocol errors.
func register[In any](s *Server, name, description string, fn func(context.Context, In) tools.Result) error {
	inputSchema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", name, err)
	}

	tool := &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		result := fn(ctx, in)

		if result.Status == tools.StatusError {
			text := result.Message
			if result.Error != nil {
				text = fmt.Sprintf("Error [%s]: %s", result.Error.Code, result.Error.Message)
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: text}},
				IsError: true,
			}, nil, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.Message}},
		}, result.Data, nil
	})
	return nil
}
