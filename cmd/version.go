package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkhongsap/aie-voice-agents-ws/internal/app"
	"github.com/tkhongsap/aie-voice-agents-ws/internal/config"
)

// Build metadata injected via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and configuration information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("Aria %s\n", app.Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		// Version output should work even with broken config; show what
		// we can and surface the problem.
		fmt.Printf("Configuration: unavailable (%v)\n", err)
		return nil
	}

	fmt.Println("Configuration:")
	fmt.Printf("  Model: %s\n", cfg.FullModelName())
	fmt.Printf("  Variant: %s\n", cfg.Variant)
	fmt.Printf("  Temperature: %.2f\n", cfg.Temperature)
	fmt.Printf("  Max tokens: %d\n", cfg.MaxTokens)

	if key := os.Getenv("GEMINI_API_KEY"); key != "" && len(key) >= 8 {
		fmt.Printf("  GEMINI_API_KEY: %s...%s (configured)\n", key[:4], key[len(key)-4:])
	} else if key != "" {
		fmt.Println("  GEMINI_API_KEY: (configured)")
	} else {
		fmt.Println("  GEMINI_API_KEY: not set")
		fmt.Println("  Hint: export GEMINI_API_KEY=your-api-key")
	}

	return nil
}
