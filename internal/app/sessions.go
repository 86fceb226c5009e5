package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/workflowx/internal/model"
	"github.com/blackwell-systems/workflowx/internal/output"
)

var (
	sessionsFlagSort  string
	sessionsFlagDays  int
	sessionsFlagLimit int
	sessionsFlagWorst bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List, filter, and inspect workflow sessions",
	Long: `Browse captured workflow sessions sorted by various criteria.
Useful for finding your highest-friction sessions or drilling into
where the time went.

Examples:
  workflowx sessions                    # recent sessions
  workflowx sessions --sort friction    # most friction first
  workflowx sessions --worst            # shortcut for --sort friction
  workflowx sessions --days 7 --limit 5
  workflowx sessions ab12cd34ef56       # inspect one session by ID prefix`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsFlagSort, "sort", "recent", "Sort by: recent, friction, duration, switches")
	sessionsCmd.Flags().IntVar(&sessionsFlagDays, "days", 7, "Number of days to look back")
	sessionsCmd.Flags().IntVar(&sessionsFlagLimit, "limit", 20, "Maximum sessions to display")
	sessionsCmd.Flags().BoolVar(&sessionsFlagWorst, "worst", false, "Shortcut for --sort friction")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	sessions := st.LoadSessionRange(now.AddDate(0, 0, -sessionsFlagDays), now)

	if len(args) == 1 {
		return runInspect(args[0], sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found. Run 'workflowx capture' first.")
		return nil
	}

	sortKey := sessionsFlagSort
	if sessionsFlagWorst {
		sortKey = "friction"
	}

	switch sortKey {
	case "friction":
		sort.SliceStable(sessions, func(i, j int) bool {
			si, sj := sessions[i].FrictionLevel.Score(), sessions[j].FrictionLevel.Score()
			if si != sj {
				return si > sj
			}
			return sessions[i].ContextSwitches > sessions[j].ContextSwitches
		})
	case "duration":
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].TotalDurationMinutes > sessions[j].TotalDurationMinutes
		})
	case "switches":
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].ContextSwitches > sessions[j].ContextSwitches
		})
	default: // "recent"
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].StartTime.After(sessions[j].StartTime)
		})
	}

	if sessionsFlagLimit > 0 && len(sessions) > sessionsFlagLimit {
		sessions = sessions[:sessionsFlagLimit]
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	renderSessionList(sessions, sortKey)
	return nil
}

// runInspect finds a session by full ID or prefix and renders a detailed view.
func runInspect(prefix string, sessions []model.WorkflowSession) error {
	var matched *model.WorkflowSession
	for i := range sessions {
		s := &sessions[i]
		if s.ID == prefix || strings.HasPrefix(s.ID, prefix) {
			if matched != nil && matched.ID != s.ID {
				return fmt.Errorf("ambiguous session prefix %q matches multiple sessions; use more characters", prefix)
			}
			matched = s
		}
	}
	if matched == nil {
		return fmt.Errorf("no session found matching %q in the last %d days", prefix, sessionsFlagDays)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matched)
	}

	renderSessionDetail(*matched)
	return nil
}

func renderSessionDetail(s model.WorkflowSession) {
	fmt.Println(output.Section("Session " + s.ID))
	fmt.Println()

	label := func(l, v string) {
		fmt.Printf(" %-16s %s\n", output.StyleMuted.Render(l), v)
	}

	label("Date", s.StartTime.Format("2006-01-02"))
	label("Window", fmt.Sprintf("%s - %s", s.StartTime.Format("15:04"), s.EndTime.Format("15:04")))
	label("Duration", fmt.Sprintf("%.1f min", s.TotalDurationMinutes))
	label("Switches", fmt.Sprintf("%d", s.ContextSwitches))
	label("Friction", output.FrictionBadge(s.FrictionLevel))
	if s.FrictionDetails != "" {
		label("Details", s.FrictionDetails)
	}
	label("Apps", strings.Join(s.AppsUsed, ", "))

	fmt.Println()
	fmt.Println(output.Section("Intent"))
	fmt.Println()
	switch {
	case s.InferredIntent == "":
		fmt.Printf(" %s\n", output.StyleMuted.Render("(not yet analyzed)"))
	case s.InferredIntent == model.InferenceFailed:
		fmt.Printf(" %s\n", output.StyleError.Render("inference failed; will retry on next analyze"))
	default:
		label("Inferred", s.InferredIntent)
		label("Confidence", fmt.Sprintf("%.0f%%", s.Confidence*100))
	}
	if s.UserValidated {
		label("Validated", output.StyleSuccess.Render("yes"))
		if s.UserLabel != "" {
			label("User label", s.UserLabel)
		}
	}
	fmt.Println()
	label("Raw events", fmt.Sprintf("%d", len(s.Events)))
	fmt.Println()
}

func renderSessionList(sessions []model.WorkflowSession, sortKey string) {
	fmt.Println(output.Section("Sessions"))
	fmt.Println()
	fmt.Printf(" %s  sorted by %s\n\n",
		output.StyleMuted.Render(fmt.Sprintf("%d sessions", len(sessions))),
		output.StyleBold.Render(sortKey))

	tbl := output.NewTable("ID", "Date", "Window", "Duration", "Switches", "Friction", "Intent")
	var totalMin float64
	highCount := 0
	for _, s := range sessions {
		totalMin += s.TotalDurationMinutes
		if s.FrictionLevel.IsHigh() {
			highCount++
		}
		intent := s.InferredIntent
		if intent == "" {
			intent = output.StyleMuted.Render("(unanalyzed)")
		}
		tbl.AddRow(
			s.ID,
			s.StartTime.Format("Jan 02"),
			fmt.Sprintf("%s-%s", s.StartTime.Format("15:04"), s.EndTime.Format("15:04")),
			fmt.Sprintf("%.0fm", s.TotalDurationMinutes),
			fmt.Sprintf("%d", s.ContextSwitches),
			output.FrictionBadge(s.FrictionLevel),
			intent,
		)
	}
	tbl.Print()

	fmt.Println()
	fmt.Printf(" %s\n", output.StyleBold.Render(fmt.Sprintf(
		"Totals: %.1f hrs tracked · %d high-friction sessions", totalMin/60, highCount)))
	fmt.Println()
	fmt.Printf(" %s\n", output.StyleMuted.Render("Use --sort friction|duration|switches to reorder"))
	fmt.Printf(" %s\n", output.StyleMuted.Render("Use workflowx sessions <session-id> to inspect a session"))
}
