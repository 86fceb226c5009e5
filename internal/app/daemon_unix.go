//go:build !windows

package app

import (
	"fmt"
	"os"
	"syscall"

	"github.com/blackwell-systems/workflowx/internal/config"
	"github.com/blackwell-systems/workflowx/internal/daemon"
)

// shutdownSignals are the OS signals that trigger graceful shutdown.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// stopDaemon reads the PID file and sends SIGTERM to the running daemon.
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

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to stop daemon (PID %d): %w", pid, err)
	}

	daemon.RemovePID(pidPath)
	fmt.Printf("Stopped daemon (PID %d)\n", pid)
	return nil
}

// processExists checks whether a process with the given PID is running.
func processExists(pid int) bool {
	// Sending signal 0 checks for process existence without actually signaling.
	err := syscall.Kill(pid, 0)
	return err == nil
}
