package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/engine"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var trendsFlagWeeks int

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show weekly friction trends",
	Long: `Aggregate analyzed sessions into per-week friction summaries: total
time tracked, time lost to high-friction work, and the intents driving it.

Examples:
  workflowx trends             # last 4 weeks
  workflowx trends --weeks 12`,
	RunE: runTrends,
}

func init() {
	trendsCmd.Flags().IntVar(&trendsFlagWeeks, "weeks", engine.DefaultTrendWeeks, "Number of weeks to show")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	sessions := st.LoadSessionRange(now.AddDate(0, 0, -7*trendsFlagWeeks-7), now)
	trends := engine.ComputeTrends(sessions, trendsFlagWeeks)

	if len(trends) == 0 {
		fmt.Println("No session data yet. Run 'workflowx capture' first.")
		return nil
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trends)
	}

	fmt.Println(output.Section("Weekly Friction Trends"))
	fmt.Println()

	tbl := output.NewTable("Week", "Sessions", "Tracked", "High-Friction", "Ratio", "Top Intents")
	for _, tr := range trends {
		tbl.AddRow(
			tr.WeekLabel,
			fmt.Sprintf("%d", tr.TotalSessions),
			fmt.Sprintf("%.1fh", tr.TotalMinutes/60),
			fmt.Sprintf("%.1fh", tr.HighFrictionMinutes/60),
			output.RatioBar(tr.HighFrictionRatio, 10),
			strings.Join(tr.TopFrictionIntents, ", "),
		)
	}
	tbl.Print()

	// Direction across the window: compare first and last week's ratio.
	if len(trends) >= 2 {
		first, last := trends[0], trends[len(trends)-1]
		delta := last.HighFrictionRatio - first.HighFrictionRatio
		fmt.Println()
		switch {
		case delta > 0.05:
			fmt.Printf(" %s\n", output.StyleError.Render(
				fmt.Sprintf("Friction is rising: %.0f%% -> %.0f%% of tracked time.",
					first.HighFrictionRatio*100, last.HighFrictionRatio*100)))
		case delta < -0.05:
			fmt.Printf(" %s\n", output.StyleSuccess.Render(
				fmt.Sprintf("Friction is falling: %.0f%% -> %.0f%% of tracked time.",
					first.HighFrictionRatio*100, last.HighFrictionRatio*100)))
		default:
			fmt.Printf(" %s\n", output.StyleMuted.Render("Friction is roughly flat across the window."))
		}
	}
	return nil
}
