package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/agent"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/app"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/capability"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/provider"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// SIGINT/SIGTERM cancel the context; the deferred Close then
	// disconnects providers and the process exits zero.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	report := a.Supervisor.ConnectAll(ctx)

	ag, err := a.CreateAgent()
	if err != nil {
		return fmt.Errorf("creating agent: %w", err)
	}

	printWelcome(ag.Capabilities(), report, cfg)

	chatLoop(ctx, ag)

	fmt.Println("\nGoodbye!")
	return nil
}

// chatLoop reads turns until EOF, /exit, or signal. A failed turn is
// reported and the loop continues with history intact.
func chatLoop(ctx context.Context, ag *agent.Agent) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Print("you> ")

		var input string
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			input = strings.TrimSpace(line)
		}

		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if handleCommand(input, ag) {
				return
			}
			continue
		}

		fmt.Print("aria> ")
		_, err := ag.Execute(ctx, input, func(_ context.Context, chunk string) error {
			fmt.Print(chunk)
			return nil
		})
		fmt.Println()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
			continue
		}
	}
}

// handleCommand processes slash commands; returns true to exit the loop.
func handleCommand(input string, ag *agent.Agent) bool {
	switch strings.Fields(input)[0] {
	case "/exit", "/quit":
		return true
	case "/clear":
		ag.Session().Clear()
		fmt.Println("History cleared.")
	case "/status":
		printCapabilities(ag.Capabilities())
	case "/help":
		fmt.Println("Commands: /status  show capabilities, /clear  reset history, /exit  quit")
	default:
		fmt.Printf("Unknown command %q. Try /help.\n", input)
	}
	return false
}

func printWelcome(set capability.Set, report provider.Report, cfg *config.Config) {
	fmt.Printf("Aria %s. Type /help for commands, Ctrl+D to quit.\n\n", app.Version)
	printCapabilities(set)

	for _, hint := range credentialHints(cfg) {
		fmt.Println(hint)
	}
	for _, name := range report.Failed {
		fmt.Printf("  note: provider %q failed to connect (%s); continuing without it\n",
			name, report.Errors[name])
	}
	fmt.Println()
}

func printCapabilities(set capability.Set) {
	status := func(ok bool) string {
		if ok {
			return "available"
		}
		return "unavailable"
	}
	fmt.Println("Capabilities:")
	fmt.Printf("  weather        %s\n", status(set.Weather))
	fmt.Printf("  air quality    %s\n", status(set.AirQuality))
	fmt.Printf("  web search     %s\n", status(set.WebSearch))
	fmt.Printf("  documentation  %s\n", status(set.Documentation))
}

// credentialHints names each missing credential and where to get one, so
// a degraded start is self-explanatory.
func credentialHints(cfg *config.Config) []string {
	var hints []string
	if !cfg.Weather.Configured() {
		hints = append(hints,
			"  hint: set WEATHER_API_KEY to enable weather (free key at https://www.weatherapi.com)")
	}
	if !cfg.AirQuality.Configured() {
		hints = append(hints,
			"  hint: set AIR_QUALITY_API_TOKEN to enable air quality (free token at https://aqicn.org/data-platform/token)")
	}
	if !cfg.Search.Configured() {
		hints = append(hints,
			"  hint: set SEARXNG_BASE_URL to a SearXNG instance to enable web search")
	}
	return hints
}
