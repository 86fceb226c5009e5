package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/report"
)

var (
	reportFlagWeekly bool
	reportFlagDate   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the daily or weekly report",
	Long: `Render the plain-text daily report, or the weekly intelligence report
with --weekly. The weekly report is also saved under the data directory.

Examples:
  workflowx report                    # today
  workflowx report --date 2026-03-02
  workflowx report --weekly`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportFlagWeekly, "weekly", false, "Render the weekly report instead of the daily one")
	reportCmd.Flags().StringVar(&reportFlagDate, "date", "", "Day to report on as YYYY-MM-DD (default: today)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	day := time.Now()
	if reportFlagDate != "" {
		day, err = time.ParseInLocation("2006-01-02", reportFlagDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", reportFlagDate, err)
		}
	}

	if reportFlagWeekly {
		sessions := st.LoadSessionRange(day.AddDate(0, 0, -7), day)
		r := report.GenerateWeekly(sessions, cfg.HourlyRateUSD, day)
		if _, err := st.SaveReport(r); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		fmt.Println(report.WeeklySummary(r, cfg.HourlyRateUSD))
		return nil
	}

	sessions := st.LoadSessions(day)
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}
	fmt.Println(report.Daily(sessions, cfg.HourlyRateUSD, day))
	return nil
}
