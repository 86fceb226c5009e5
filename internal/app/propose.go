package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/inference"
	"github.com/blackwell-systems/workflowx/internal/model"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var (
	proposeFlagDays  int
	proposeFlagLimit int
)

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Generate replacement proposals for high-friction workflows",
	Long: `Diagnose the worst analyzed sessions and ask the LLM to design a
replacement workflow for each, including an agent pipeline definition where
one applies. Proposals are saved so 'workflowx adopt' can pick one up.

Examples:
  workflowx propose             # top 3 from the last 7 days
  workflowx propose --limit 5
  workflowx propose --days 30`,
	RunE: runPropose,
}

func init() {
	proposeCmd.Flags().IntVar(&proposeFlagDays, "days", 7, "Number of days of sessions to consider")
	proposeCmd.Flags().IntVar(&proposeFlagLimit, "limit", 3, "Maximum proposals to generate")
	rootCmd.AddCommand(proposeCmd)
}

func runPropose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	sessions := st.LoadSessionRange(now.AddDate(0, 0, -proposeFlagDays), now)

	var candidates []model.WorkflowSession
	for _, s := range sessions {
		if !s.FrictionLevel.IsHigh() {
			continue
		}
		if s.InferredIntent == "" || s.InferredIntent == model.InferenceFailed {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		fmt.Println("No analyzed high-friction sessions to propose for. Run 'workflowx analyze' first.")
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalDurationMinutes > candidates[j].TotalDurationMinutes
	})
	if len(candidates) > proposeFlagLimit {
		candidates = candidates[:proposeFlagLimit]
	}

	llm, err := inference.NewClient(cfg.Inference)
	if err != nil {
		return fmt.Errorf("inference client: %w", err)
	}

	ctx := cmd.Context()
	var proposals []model.ReplacementProposal
	for _, s := range candidates {
		d := inference.Diagnose(s, cfg.HourlyRateUSD)
		proposals = append(proposals, inference.ProposeReplacement(ctx, llm, d, s))
	}

	if err := st.SaveProposals(proposals); err != nil {
		return fmt.Errorf("saving proposals: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(proposals)
	}

	fmt.Println(output.Section("Replacement Proposals"))
	fmt.Println()

	for i, p := range proposals {
		fmt.Printf(" %d. %s\n", i+1, output.StyleBold.Render(p.OriginalWorkflow))
		fmt.Printf("    %-12s %s\n", output.StyleMuted.Render("ID"), p.ID)
		fmt.Printf("    %-12s %s\n", output.StyleMuted.Render("Proposed"), p.ProposedWorkflow)
		if p.Mechanism != "" {
			fmt.Printf("    %-12s %s\n", output.StyleMuted.Render("Mechanism"), p.Mechanism)
		}
		fmt.Printf("    %-12s %s\n", output.StyleMuted.Render("Savings"),
			output.StyleSuccess.Render(fmt.Sprintf("%.0f min/week", p.EstimatedSavingsMinutesPerWeek)))
		fmt.Printf("    %-12s %.0f%%\n", output.StyleMuted.Render("Confidence"), p.Confidence*100)
		if len(p.RequiresNewTools) > 0 {
			fmt.Printf("    %-12s %s\n", output.StyleMuted.Render("Needs"), joinCapped(p.RequiresNewTools, 5))
		}
		if p.PipelineYAML != "" && flagVerbose {
			fmt.Println()
			fmt.Println(indent(p.PipelineYAML, "    "))
		}
		fmt.Println()
	}

	fmt.Printf(" %s\n", output.StyleMuted.Render("Adopt one with: workflowx adopt <proposal-id>"))
	return nil
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
