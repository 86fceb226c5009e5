package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Notify sends a desktop notification. On macOS it uses osascript, on Linux
// it tries notify-send. If neither is available, it falls back to stderr.
func Notify(title, message, subtitle string) error {
	switch runtime.GOOS {
	case "darwin":
		return notifyMacOS(title, message, subtitle)
	case "linux":
		return notifyLinux(title, message)
	default:
		return notifyFallback(title, message)
	}
}

func notifyMacOS(title, message, subtitle string) error {
	script := fmt.Sprintf(
		`display notification %q with title %q subtitle %q`,
		message, title, subtitle,
	)
	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return notifyFallback(title, message)
	}
	return nil
}

func notifyLinux(title, message string) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return notifyFallback(title, message)
	}
	cmd := exec.Command("notify-send", title, message)
	if err := cmd.Run(); err != nil {
		return notifyFallback(title, message)
	}
	return nil
}

func notifyFallback(title, message string) error {
	_, err := fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
	return err
}
