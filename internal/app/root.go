// Package app contains the Cobra command tree for workflowx.
package app

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/capture"
	"github.com/blackwell-systems/workflowx/internal/config"
	"github.com/blackwell-systems/workflowx/internal/output"
	"github.com/blackwell-systems/workflowx/internal/store"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "workflowx",
	Short: "Workflow intelligence from local desktop capture",
	Long: `workflowx turns raw desktop activity (Screenpipe, ActivityWatch) into
workflow sessions, scores their friction, detects recurring patterns,
proposes AI-agent replacements for the worst ones, and measures whether
adopted replacements actually save time.

Run 'workflowx' with no arguments to see the command overview.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("workflowx", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  capture   Read raw events from capture sources and cluster sessions")
		fmt.Println("  analyze   Infer intent and friction for captured sessions")
		fmt.Println("  sessions  List and inspect workflow sessions")
		fmt.Println("  validate  Answer pending classification questions")
		fmt.Println("  patterns  Detect recurring workflow patterns")
		fmt.Println("  trends    Show weekly friction trends")
		fmt.Println("  propose   Generate replacement proposals for high-friction workflows")
		fmt.Println("  adopt     Adopt a proposal and start measuring its ROI")
		fmt.Println("  roi       Show measured savings from adopted replacements")
		fmt.Println("  report    Render the daily or weekly report")
		fmt.Println("  export    Export sessions, patterns, or trends as JSON/CSV")
		fmt.Println("  daemon    Run the background scheduler")
		fmt.Println("  status    Show daemon and capture-source health")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/workflowx/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// loadConfig loads configuration and applies the output flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagNoColor || !cfg.Output.Color || !isatty.IsTerminal(os.Stdout.Fd()) {
		output.SetNoColor(true)
	}
	return cfg, nil
}

// openStore opens the local data store, creating the data directory.
func openStore(cfg *config.Config) (*store.Local, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return store.Open(cfg.DataDir)
}

// buildAdapters assembles the configured capture adapters.
func buildAdapters(cfg *config.Config) []capture.Adapter {
	return []capture.Adapter{
		capture.NewScreenpipe(cfg.Capture.ScreenpipeDB),
		capture.NewActivityWatch(cfg.Capture.AWHost),
	}
}
