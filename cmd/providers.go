package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/app"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Connect to all configured MCP providers and report their status",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	logger := newLogger()

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

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDOMAIN\tSTATE\tLAST CONNECTED\tERROR")
	for _, st := range a.Registry.ListAll() {
		last := "-"
		if st.LastConnected != nil {
			last = st.LastConnected.Format("15:04:05")
		}
		errMsg := st.LastError
		if errMsg == "" {
			errMsg = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.Name, st.Domain, st.State, last, errMsg)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// A fully degraded run still exits cleanly, matching the chat
	// command's behavior.
	fmt.Printf("\n%d/%d connected\n", a.Registry.ConnectedCount(), a.Registry.Count())
	return nil
}
