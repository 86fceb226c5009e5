package app

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/model"
	"github.com/blackwell-systems/workflowx/internal/output"
)

// validateSearchDays is how far back answered sessions are looked up.
const validateSearchDays = 14

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Answer pending classification questions",
	Long: `Walk through the classification questions queued by low-confidence
intent inference. Each answer corrects the session's intent and marks it
user-validated, which feeds back into pattern detection.

Pick an option by number, type a custom label, or press enter to skip.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	pending := st.PendingQuestions()
	if len(pending) == 0 {
		fmt.Println("No pending questions. You're all caught up.")
		return nil
	}

	fmt.Println(output.Section(fmt.Sprintf("%d Pending Questions", len(pending))))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	now := time.Now()
	answered := 0

	for i, q := range pending {
		fmt.Printf(" %s %s\n", output.StyleBold.Render(fmt.Sprintf("[%d/%d]", i+1, len(pending))), q.Question)
		if q.Context != "" {
			fmt.Printf("   %s\n", output.StyleMuted.Render(q.Context))
		}
		for j, opt := range q.Options {
			fmt.Printf("   %d) %s\n", j+1, opt)
		}
		fmt.Print("   answer (number, label, or enter to skip): ")

		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			fmt.Println()
			continue
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
			answer = q.Options[n-1]
		}

		if err := st.AnswerQuestion(q.SessionID, answer); err != nil {
			return fmt.Errorf("recording answer: %w", err)
		}

		// Push the correction back onto the session itself.
		if s, ok := st.FindSession(q.SessionID, validateSearchDays, now); ok {
			s.InferredIntent = answer
			s.Confidence = 1.0
			s.UserValidated = true
			s.UserLabel = answer
			if err := st.SaveSessions([]model.WorkflowSession{s}, s.StartTime); err != nil {
				return fmt.Errorf("updating session: %w", err)
			}
		}
		answered++
		fmt.Println()
	}

	fmt.Printf("Recorded %d of %d answers.\n", answered, len(pending))
	return nil
}
