package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/engine"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var (
	patternsFlagDays      int
	patternsFlagThreshold float64
	patternsFlagMinOcc    int
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Detect recurring workflow patterns",
	Long: `Group analyzed sessions by intent similarity into recurring patterns,
ranked by total time invested. The detected set replaces the previous one.

Examples:
  workflowx patterns              # last 30 days
  workflowx patterns --days 90
  workflowx patterns --min-occurrences 3`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().IntVar(&patternsFlagDays, "days", 30, "Number of days of sessions to consider")
	patternsCmd.Flags().Float64Var(&patternsFlagThreshold, "threshold", engine.DefaultSimilarityThreshold, "Intent similarity threshold for grouping")
	patternsCmd.Flags().IntVar(&patternsFlagMinOcc, "min-occurrences", engine.DefaultMinOccurrences, "Minimum sessions for a pattern")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	sessions := st.LoadSessionRange(now.AddDate(0, 0, -patternsFlagDays), now)
	patterns := engine.DetectPatterns(sessions, patternsFlagThreshold, patternsFlagMinOcc)

	if len(patterns) == 0 {
		fmt.Println("No recurring patterns found. Capture and analyze more sessions first.")
		return nil
	}

	if err := st.SavePatterns(patterns); err != nil {
		return fmt.Errorf("saving patterns: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(patterns)
	}

	fmt.Println(output.Section("Recurring Workflow Patterns"))
	fmt.Println()
	fmt.Printf(" %s\n\n", output.StyleMuted.Render(
		fmt.Sprintf("%d patterns from %d sessions over %d days", len(patterns), len(sessions), patternsFlagDays)))

	tbl := output.NewTable("Intent", "Count", "Avg", "Total", "Friction", "Trend")
	for _, p := range patterns {
		tbl.AddRow(
			p.Intent,
			fmt.Sprintf("%d", p.Occurrences),
			fmt.Sprintf("%.0fm", p.AvgDurationMinutes),
			fmt.Sprintf("%.0fm", p.TotalTimeInvestedMinutes),
			output.FrictionBadge(p.MostCommonFriction),
			output.TrendIndicator(p.Trend),
		)
	}
	tbl.Print()

	fmt.Println()
	fmt.Printf(" %s\n", output.StyleMuted.Render("Run 'workflowx propose' to generate replacements for the worst ones."))
	return nil
}
