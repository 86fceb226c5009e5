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

var roiCmd = &cobra.Command{
	Use:   "roi",
	Short: "Show measured savings from adopted replacements",
	Long: `Summarize every tracked replacement outcome: what was adopted, what
was rejected, and how many minutes per week the adopted ones actually save.

Examples:
  workflowx roi           # summary of all outcomes
  workflowx roi measure   # run due measurement cycles now`,
	RunE: runROI,
}

var roiMeasureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Run due ROI measurement cycles now",
	RunE:  runROIMeasure,
}

func init() {
	roiCmd.AddCommand(roiMeasureCmd)
	rootCmd.AddCommand(roiCmd)
}

func runROI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	outcomes := st.LoadOutcomes()
	if len(outcomes) == 0 {
		fmt.Println("No adopted replacements yet. Run 'workflowx propose' then 'workflowx adopt'.")
		return nil
	}

	sum := engine.SummarizeROI(outcomes)

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Summary  engine.ROISummary `json:"summary"`
			Outcomes any               `json:"outcomes"`
		}{sum, outcomes})
	}

	fmt.Println(output.Section("Replacement ROI"))
	fmt.Println()

	tbl := output.NewTable("Intent", "Status", "Weeks", "Before", "After", "Saves")
	for _, o := range outcomes {
		saves := fmt.Sprintf("%.0f min/wk", o.ActualSavingsMinutes)
		if o.ActualSavingsMinutes > 0 {
			saves = output.StyleSuccess.Render(saves)
		} else if o.WeeksTracked > 0 {
			saves = output.StyleError.Render(saves)
		}
		tbl.AddRow(
			o.Intent,
			output.OutcomeBadge(o.Status),
			fmt.Sprintf("%d", o.WeeksTracked),
			fmt.Sprintf("%.0fm", o.BeforeMinutesPerWeek),
			fmt.Sprintf("%.0fm", o.AfterMinutesPerWeek),
			saves,
		)
	}
	tbl.Print()

	weeklyUSD := sum.WeeklySavingsMinutes / 60 * cfg.HourlyRateUSD
	fmt.Println()
	fmt.Printf(" %s\n", output.StyleBold.Render(fmt.Sprintf(
		"%d adopted · %d measuring · %d rejected", sum.Adopted, sum.Measuring, sum.Rejected)))
	fmt.Printf(" %s\n", output.StyleBold.Render(fmt.Sprintf(
		"Saving %.0f min/week ($%.0f/week at $%.0f/hr)", sum.WeeklySavingsMinutes, weeklyUSD, cfg.HourlyRateUSD)))
	fmt.Printf(" %s\n", output.StyleMuted.Render(fmt.Sprintf(
		"Cumulative: %.0f minutes saved since adoption", sum.CumulativeSavingsMinutes)))
	return nil
}

func runROIMeasure(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	outcomes := st.LoadOutcomes()

	var due int
	recent := st.LoadSessionRange(now.AddDate(0, 0, -engine.DefaultLookbackDays), now)
	for _, o := range outcomes {
		if !engine.ShouldMeasure(o, now) {
			if flagVerbose {
				fmt.Fprintf(os.Stderr, "%s: not due\n", o.Intent)
			}
			continue
		}
		measured := engine.MeasureOutcome(o, recent, engine.DefaultLookbackDays, now)
		if err := st.SaveOutcome(measured); err != nil {
			return fmt.Errorf("saving outcome: %w", err)
		}
		due++
		fmt.Printf("%s: %s, %.0f min/week\n",
			measured.Intent, measured.Status, measured.ActualSavingsMinutes)
	}

	if due == 0 {
		fmt.Println("No outcomes due for measurement.")
	}
	return nil
}
