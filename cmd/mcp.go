package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/app"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/mcp"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve aria's tools over MCP on stdio",
	Long: `Runs an MCP server exposing the direct tools (getWeather,
getAirQuality, searchWeb, fetchPage) on stdio, so other MCP hosts can use
them. All logs go to stderr; stdout carries only JSON-RPC.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serving tools needs no model runtime and no MCP client host; the
	// full app container stays out of the picture on purpose.
	handler := tools.NewHandler(cfg, logger)

	server, err := mcp.NewServer(mcp.Config{
		Name:    "aria",
		Version: app.Version,
		Handler: handler,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("MCP server ready", "name", "aria", "version", app.Version, "transport", "stdio")

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down")
	return nil
}
