// Package cmd implements the aria command-line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/log"
)

var (
	flagDebug    bool
	flagJSONLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "aria",
	Short: "Aria - a voice-style assistant with weather, air quality, search, and docs tools",
	Long: `Aria is a conversational assistant built on Genkit.

It answers in short spoken-style sentences and reaches for tools when it
needs live data: current weather, air quality readings, web search, and
library documentation via MCP. Capabilities that are not configured or
whose providers fail to connect are simply absent; the assistant keeps
working with whatever remains.

Running aria with no subcommand starts an interactive chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "emit logs as JSON")
}

// newLogger builds the process logger from the global flags. Output goes
// to stderr so the mcp subcommand's stdio transport stays clean.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level, JSON: flagJSONLogs})
}
