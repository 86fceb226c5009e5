//go:build windows

package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/workflowx/internal/config"
	"github.com/blackwell-systems/workflowx/internal/daemon"
)

// shutdownSignals are the OS signals that trigger graceful shutdown.
var shutdownSignals = []os.Signal{os.Interrupt}

// stopDaemon reads the PID file and terminates the running daemon.
func stopDaemon(cfg *config.Config) error {
	pidPath := pidFilePath(cfg)
	pid := daemon.ReadPID(pidPath)
	if pid <= 0 {
		return fmt.Errorf("no daemon running (no PID file at %s)", pidPath)
	}

	if !processExists(pid) {
		daemon.RemovePID(pidPath)
		return fmt.Errorf("no daemon running (PID %d is not active, cleaned up stale PID file)", pid)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process (PID %d): %w", pid, err)
	}

	// On Windows, Kill terminates the process immediately (no graceful SIGTERM equivalent).
	if err := proc.Kill(); err != nil {
		return fmt.Errorf("failed to stop daemon (PID %d): %w", pid, err)
	}

	daemon.RemovePID(pidPath)
	fmt.Printf("Stopped daemon (PID %d)\n", pid)
	return nil
}

// processExists checks whether a process with the given PID is running.
func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Windows, FindProcess always succeeds, so we need to try sending a signal.
	// Signal(nil) returns an error if the process doesn't exist.
	err = proc.Signal(os.Signal(nil))
	return err == nil
}
