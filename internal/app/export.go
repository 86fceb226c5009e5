package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/engine"
	"github.com/blackwell-systems/workflowx/internal/report"
)

var (
	exportFlagFormat string
	exportFlagDays   int
	exportFlagOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <sessions|patterns|trends>",
	Short: "Export sessions, patterns, or trends as JSON/CSV",
	Long: `Export collected data for use in spreadsheets or other tools.
Sessions export with their raw event payloads stripped.

Examples:
  workflowx export sessions                     # JSON to stdout
  workflowx export sessions --format csv --days 30
  workflowx export patterns --out patterns.json
  workflowx export trends --format csv --out trends.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"sessions", "patterns", "trends"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlagFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().IntVar(&exportFlagDays, "days", 30, "Number of days of data to export")
	exportCmd.Flags().StringVar(&exportFlagOut, "out", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	if exportFlagFormat != "json" && exportFlagFormat != "csv" {
		return fmt.Errorf("unknown format %q: use json or csv", exportFlagFormat)
	}
	asCSV := exportFlagFormat == "csv"

	now := time.Now()
	var content string
	switch args[0] {
	case "sessions":
		sessions := st.LoadSessionRange(now.AddDate(0, 0, -exportFlagDays), now)
		if asCSV {
			content, err = report.SessionsCSV(sessions)
		} else {
			content, err = report.SessionsJSON(sessions)
		}
	case "patterns":
		patterns := st.LoadPatterns()
		if asCSV {
			content, err = report.PatternsCSV(patterns)
		} else {
			content, err = report.PatternsJSON(patterns)
		}
	case "trends":
		sessions := st.LoadSessionRange(now.AddDate(0, 0, -exportFlagDays), now)
		trends := engine.ComputeTrends(sessions, exportFlagDays/7+1)
		if asCSV {
			content, err = report.TrendsCSV(trends)
		} else {
			content, err = report.TrendsJSON(trends)
		}
	default:
		return fmt.Errorf("unknown export target %q: use sessions, patterns, or trends", args[0])
	}
	if err != nil {
		return fmt.Errorf("exporting %s: %w", args[0], err)
	}

	if exportFlagOut == "" {
		fmt.Println(content)
		return nil
	}
	if err := report.WriteFile(content, exportFlagOut); err != nil {
		return fmt.Errorf("writing %s: %w", exportFlagOut, err)
	}
	fmt.Printf("Wrote %s\n", exportFlagOut)
	return nil
}
