package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/inference"
	"github.com/blackwell-systems/workflowx/internal/model"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var (
	analyzeFlagDate  string
	analyzeFlagForce bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Infer intent and friction for captured sessions",
	Long: `Run LLM intent inference over one day's sessions. Sessions that
already carry an intent are skipped unless --force is given. Low-confidence
inferences queue a classification question for 'workflowx validate'.

Examples:
  workflowx analyze                   # today's sessions
  workflowx analyze --date 2026-03-02
  workflowx analyze --force           # re-infer everything`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlagDate, "date", "", "Day to analyze as YYYY-MM-DD (default: today)")
	analyzeCmd.Flags().BoolVar(&analyzeFlagForce, "force", false, "Re-infer sessions that already have an intent")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	day := time.Now()
	if analyzeFlagDate != "" {
		day, err = time.ParseInLocation("2006-01-02", analyzeFlagDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", analyzeFlagDate, err)
		}
	}

	sessions := st.LoadSessions(day)
	if len(sessions) == 0 {
		fmt.Printf("No sessions recorded for %s. Run 'workflowx capture' first.\n", day.Format("2006-01-02"))
		return nil
	}

	llm, err := inference.NewClient(cfg.Inference)
	if err != nil {
		return fmt.Errorf("inference client: %w", err)
	}

	ctx := cmd.Context()
	var questions []model.ClassificationQuestion
	analyzed := 0

	for i, s := range sessions {
		needsIntent := s.InferredIntent == "" || s.InferredIntent == model.InferenceFailed
		if !needsIntent && !analyzeFlagForce {
			continue
		}
		updated, q := inference.InferIntent(ctx, llm, s)
		sessions[i] = updated
		analyzed++
		if q != nil {
			questions = append(questions, *q)
		}
		if flagVerbose {
			fmt.Fprintf(os.Stderr, "session %s: %s (%.0f%%)\n", s.ID, updated.InferredIntent, updated.Confidence*100)
		}
	}

	if analyzed == 0 {
		fmt.Println("All sessions already analyzed. Use --force to re-infer.")
		return nil
	}

	if err := st.SaveSessions(sessions, day); err != nil {
		return fmt.Errorf("saving sessions: %w", err)
	}
	if len(questions) > 0 {
		if err := st.SaveQuestions(questions); err != nil {
			return fmt.Errorf("saving questions: %w", err)
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	fmt.Printf("Analyzed %d of %d sessions for %s.\n\n", analyzed, len(sessions), day.Format("2006-01-02"))
	tbl := output.NewTable("Start", "Intent", "Conf", "Friction")
	for _, s := range sessions {
		intent := s.InferredIntent
		if intent == "" {
			intent = output.StyleMuted.Render("(unanalyzed)")
		}
		tbl.AddRow(
			s.StartTime.Format("15:04"),
			intent,
			fmt.Sprintf("%.0f%%", s.Confidence*100),
			output.FrictionBadge(s.FrictionLevel),
		)
	}
	tbl.Print()

	if len(questions) > 0 {
		fmt.Println()
		fmt.Printf(" %s\n", output.StyleWarning.Render(
			fmt.Sprintf("%d classification questions pending. Run 'workflowx validate'.", len(questions))))
	}
	return nil
}
