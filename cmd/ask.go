package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/app"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	question := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

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

	a.Supervisor.ConnectAll(ctx)

	ag, err := a.CreateAgent()
	if err != nil {
		return fmt.Errorf("creating agent: %w", err)
	}

	answer, err := ag.Execute(ctx, question, nil)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	fmt.Println(answer)
	return nil
}
