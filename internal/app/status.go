package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/daemon"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and capture-source health",
	Long: `Report on the running daemon (job schedule, last results), the
capture sources, and pending work. Reads the daemon's state file, so it
works whether or not the daemon is currently up.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	statePath := filepath.Join(cfg.DataDir, "daemon-state.json")
	state := daemon.ReadState(statePath, now)
	pid := daemon.ReadPID(pidFilePath(cfg))
	running := pid > 0 && processExists(pid)
	pending := len(st.PendingQuestions())

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			DaemonRunning    bool          `json:"daemon_running"`
			DaemonPID        int           `json:"daemon_pid,omitempty"`
			State            *daemon.State `json:"state"`
			PendingQuestions int           `json:"pending_questions"`
		}{running, pid, state, pending})
	}

	fmt.Println(output.Section("Daemon"))
	fmt.Println()
	if running {
		fmt.Printf(" %s (PID %d, started %s)\n",
			output.StyleSuccess.Render("running"), pid, state.StartedAt.Format("Jan 02 15:04"))
	} else {
		fmt.Printf(" %s\n", output.StyleMuted.Render("not running. Start with: workflowx daemon"))
	}

	if len(state.Jobs) > 0 {
		fmt.Println()
		names := make([]string, 0, len(state.Jobs))
		for name := range state.Jobs {
			names = append(names, name)
		}
		sort.Strings(names)

		tbl := output.NewTable("Job", "Last Run", "Status", "Next Run")
		for _, name := range names {
			js := state.Jobs[name]
			tbl.AddRow(name, fmtJobTime(js.LastRun), fmtJobStatus(js), fmtJobTime(js.NextRun))
		}
		tbl.Print()
	}

	fmt.Println()
	fmt.Println(output.Section("Capture Sources"))
	fmt.Println()
	ctx := cmd.Context()
	for _, a := range buildAdapters(cfg) {
		if a.Available(ctx) {
			fmt.Printf(" %-16s %s\n", a.Name(), output.StyleSuccess.Render("available"))
		} else {
			fmt.Printf(" %-16s %s\n", a.Name(), output.StyleError.Render("unavailable"))
		}
	}
	if !state.ScreenpipeLastChecked.IsZero() {
		health := output.StyleSuccess.Render("healthy")
		if !state.ScreenpipeHealthy {
			health = output.StyleError.Render("unhealthy")
		}
		fmt.Printf(" %-16s %s %s\n", "screenpipe api", health,
			output.StyleMuted.Render("(checked "+state.ScreenpipeLastChecked.Format("15:04")+")"))
	}

	fmt.Println()
	if pending > 0 {
		fmt.Printf(" %s\n", output.StyleWarning.Render(
			fmt.Sprintf("%d classification questions pending. Run 'workflowx validate'.", pending)))
	} else {
		fmt.Printf(" %s\n", output.StyleMuted.Render("No pending questions."))
	}
	return nil
}

func fmtJobTime(t time.Time) string {
	if t.IsZero() {
		return output.StyleMuted.Render("never")
	}
	return t.Format("Jan 02 15:04")
}

func fmtJobStatus(js daemon.JobState) string {
	switch js.LastStatus {
	case daemon.JobOK:
		return output.StyleSuccess.Render(js.LastStatus)
	case daemon.JobError:
		s := output.StyleError.Render(js.LastStatus)
		if js.ErrorMessage != "" {
			s += " " + output.StyleMuted.Render(js.ErrorMessage)
		}
		return s
	case daemon.JobSkipped:
		return output.StyleMuted.Render(js.LastStatus)
	default:
		return js.LastStatus
	}
}
