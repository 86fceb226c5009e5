package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/engine"
	"github.com/blackwell-systems/workflowx/internal/model"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var adoptCmd = &cobra.Command{
	Use:   "adopt <proposal-id>",
	Short: "Adopt a proposal and start measuring its ROI",
	Long: `Mark a replacement proposal as adopted. The weekly time spent on the
original workflow before adoption becomes the baseline; subsequent measure
cycles compare against it to decide adopted vs rejected.

Example:
  workflowx propose
  workflowx adopt 7f3a…`,
	Args: cobra.ExactArgs(1),
	RunE: runAdopt,
}

func init() {
	rootCmd.AddCommand(adoptCmd)
}

func runAdopt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	prefix := args[0]
	var matched *model.ReplacementProposal
	for _, p := range st.LoadProposals() {
		if p.ID == prefix || strings.HasPrefix(p.ID, prefix) {
			if matched != nil && matched.ID != p.ID {
				return fmt.Errorf("ambiguous proposal prefix %q; use more characters", prefix)
			}
			pp := p
			matched = &pp
		}
	}
	if matched == nil {
		return fmt.Errorf("no proposal matching %q; run 'workflowx propose' first", prefix)
	}

	now := time.Now()
	before := baselineMinutesPerWeek(st.LoadSessionRange(now.AddDate(0, 0, -engine.DefaultLookbackDays), now), *matched)

	outcome := engine.NewOutcome(*matched, before, now)
	if err := st.SaveOutcome(outcome); err != nil {
		return fmt.Errorf("saving outcome: %w", err)
	}

	fmt.Printf("Adopted %s\n\n", output.StyleBold.Render(matched.ProposedWorkflow))
	fmt.Printf(" %-20s %s\n", output.StyleMuted.Render("Outcome ID"), outcome.ID)
	fmt.Printf(" %-20s %.0f min/week\n", output.StyleMuted.Render("Baseline"), outcome.BeforeMinutesPerWeek)
	fmt.Printf(" %-20s %s\n", output.StyleMuted.Render("Status"), output.OutcomeBadge(outcome.Status))
	fmt.Println()
	fmt.Printf(" %s\n", output.StyleMuted.Render("First measurement runs after a week: workflowx roi measure"))
	return nil
}

// baselineMinutesPerWeek sums recent time spent on workflows matching the
// proposal's intent, the same match rule the measure cycle uses.
func baselineMinutesPerWeek(sessions []model.WorkflowSession, p model.ReplacementProposal) float64 {
	intent := proposalIntent(p)
	var minutes float64
	for _, s := range sessions {
		if engine.Similarity(intent, s.InferredIntent) > 0.5 {
			minutes += s.TotalDurationMinutes
		}
	}
	return minutes
}

// proposalIntent recovers the bare intent from the proposal's original
// workflow description, which carries a trailing parenthetical.
func proposalIntent(p model.ReplacementProposal) string {
	intent, _, _ := strings.Cut(p.OriginalWorkflow, "(")
	return strings.TrimSpace(intent)
}
