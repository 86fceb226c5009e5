package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/config"
	"github.com/blackwell-systems/workflowx/internal/daemon"
	"github.com/blackwell-systems/workflowx/internal/inference"
)

var daemonFlagStop bool

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background scheduler",
	Long: `Run the workflowx scheduler: periodic capture rollups, analysis
passes, ROI measurement, the morning brief, and Screenpipe health checks.
The process runs in the foreground; background it with your init system or
nohup. State is written to daemon-state.json so 'workflowx status' can
report without talking to the process.

Examples:
  workflowx daemon          # run (ctrl-c to stop)
  workflowx daemon --stop   # stop a backgrounded daemon`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().BoolVar(&daemonFlagStop, "stop", false, "Stop a running daemon via its PID file")
	rootCmd.AddCommand(daemonCmd)
}

func pidFilePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "daemon.pid")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if daemonFlagStop {
		return stopDaemon(cfg)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	pidPath := pidFilePath(cfg)
	if pid := daemon.ReadPID(pidPath); pid > 0 && processExists(pid) {
		return fmt.Errorf("daemon already running (PID %d); use --stop to stop it", pid)
	}
	if err := daemon.WritePID(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer daemon.RemovePID(pidPath)

	// A missing API key disables analysis, not the daemon.
	llm, err := inference.NewClient(cfg.Inference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis disabled: %v\n", err)
		llm = nil
	}

	d := daemon.New(cfg, st, buildAdapters(cfg), llm)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("workflowx daemon started (PID %d) at %s\n", os.Getpid(), time.Now().Format("15:04:05"))
	fmt.Printf("state: %s\n", d.StatePath())

	err = d.Run(ctx)
	if err == context.Canceled {
		fmt.Println("\nStopped.")
		return nil
	}
	return err
}
