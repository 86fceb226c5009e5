package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/capture"
	"github.com/blackwell-systems/workflowx/internal/engine"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var captureFlagHours int

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Read raw events from capture sources and cluster sessions",
	Long: `Read raw activity events from the available capture sources
(Screenpipe SQLite database, ActivityWatch server), denoise them, and
cluster them into workflow sessions saved under the data directory.

Examples:
  workflowx capture             # roll up the last 4 hours
  workflowx capture --hours 12  # roll up the last 12 hours`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().IntVar(&captureFlagHours, "hours", 4, "How many hours back to read events")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	adapters := buildAdapters(cfg)

	now := time.Now()
	since := now.Add(-time.Duration(captureFlagHours) * time.Hour)

	if flagVerbose {
		for _, a := range adapters {
			state := "unavailable"
			if a.Available(ctx) {
				state = "available"
			}
			fmt.Fprintf(os.Stderr, "source %s: %s\n", a.Name(), state)
		}
	}

	events := capture.ReadAll(ctx, adapters, since, now, capture.DefaultReadLimit)
	if len(events) == 0 {
		fmt.Println("No events captured. Is Screenpipe or ActivityWatch running?")
		return nil
	}

	sessions := engine.Cluster(events, cfg.Clustering.GapMinutes, cfg.Clustering.MinEvents)
	if len(sessions) == 0 {
		fmt.Printf("%d events captured, but none clustered into sessions.\n", len(events))
		return nil
	}

	if err := st.SaveSessionsByStart(sessions); err != nil {
		return fmt.Errorf("saving sessions: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	fmt.Printf("%d events -> %d sessions\n\n", len(events), len(sessions))
	tbl := output.NewTable("Start", "End", "Duration", "Switches", "Friction", "Apps")
	for _, s := range sessions {
		apps := joinCapped(s.AppsUsed, 3)
		tbl.AddRow(
			s.StartTime.Format("15:04"),
			s.EndTime.Format("15:04"),
			fmt.Sprintf("%.0fm", s.TotalDurationMinutes),
			fmt.Sprintf("%d", s.ContextSwitches),
			output.FrictionBadge(s.FrictionLevel),
			apps,
		)
	}
	tbl.Print()
	fmt.Println()
	fmt.Printf(" %s\n", output.StyleMuted.Render("Run 'workflowx analyze' to classify these sessions."))
	return nil
}

// joinCapped joins up to n items, appending an ellipsis when truncated.
func joinCapped(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:n], ", ") + ", …"
}
