package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

const maxDailySessions = 8

// Daily renders the plain-text daily report: where the time went and what
// to change. Not a dashboard.
func Daily(sessions []model.WorkflowSession, hourlyRateUSD float64, day time.Time) string {
	if len(sessions) == 0 {
		return "No workflow sessions recorded today."
	}

	var totalMin float64
	var totalSwitches int
	var high []model.WorkflowSession
	for _, s := range sessions {
		totalMin += s.TotalDurationMinutes
		totalSwitches += s.ContextSwitches
		if s.FrictionLevel.IsHigh() {
			high = append(high, s)
		}
	}

	var highMin float64
	for _, s := range high {
		highMin += s.TotalDurationMinutes
	}
	highCost := (highMin / 60.0) * hourlyRateUSD

	rule := strings.Repeat("=", 60)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "  DAILY WORKFLOW REPORT - %s\n", day.Format("2006-01-02"))
	fmt.Fprintf(&b, "%s\n\n", rule)
	fmt.Fprintf(&b, "  Sessions: %d\n", len(sessions))
	fmt.Fprintf(&b, "  Total time tracked: %.0f min (%.1f hrs)\n", totalMin, totalMin/60)
	fmt.Fprintf(&b, "  Context switches: %d\n\n", totalSwitches)

	if len(high) > 0 {
		fmt.Fprintf(&b, "  !! HIGH-FRICTION SESSIONS: %d\n", len(high))
		fmt.Fprintf(&b, "     Time in friction: %.0f min\n", highMin)
		fmt.Fprintf(&b, "     Estimated cost: $%.0f\n\n", highCost)
	}

	fmt.Fprintf(&b, "  TOP SESSIONS (by duration)\n")
	fmt.Fprintf(&b, "  %s\n", strings.Repeat("-", 54))

	byDuration := make([]model.WorkflowSession, len(sessions))
	copy(byDuration, sessions)
	sort.SliceStable(byDuration, func(i, j int) bool {
		return byDuration[i].TotalDurationMinutes > byDuration[j].TotalDurationMinutes
	})
	if len(byDuration) > maxDailySessions {
		byDuration = byDuration[:maxDailySessions]
	}

	for i, s := range byDuration {
		marker := ""
		if s.FrictionLevel.IsHigh() {
			marker = " !!"
		}
		apps := s.AppsUsed
		if len(apps) > 3 {
			apps = apps[:3]
		}
		fmt.Fprintf(&b, "  %d. [%s-%s] %.0fmin | %s%s\n",
			i+1, s.StartTime.Format("15:04"), s.EndTime.Format("15:04"),
			s.TotalDurationMinutes, strings.Join(apps, ", "), marker)
		if s.InferredIntent != "" {
			fmt.Fprintf(&b, "     Intent: %s (conf: %.0f%%)\n", s.InferredIntent, s.Confidence*100)
		}
		if s.FrictionDetails != "" {
			detail := s.FrictionDetails
			if len(detail) > 80 {
				detail = detail[:80]
			}
			fmt.Fprintf(&b, "     Friction: %s\n", detail)
		}
		b.WriteString("\n")
	}

	shortRule := strings.Repeat("=", 54)
	if len(high) > 0 {
		fmt.Fprintf(&b, "  %s\n", shortRule)
		fmt.Fprintf(&b, "  ACTION: %d sessions had high friction.\n", len(high))
		fmt.Fprintf(&b, "  Run 'workflowx validate' to confirm what these were,\n")
		fmt.Fprintf(&b, "  then 'workflowx propose' to see replacement options.\n")
		fmt.Fprintf(&b, "  %s\n", shortRule)
	} else {
		fmt.Fprintf(&b, "  %s\n", shortRule)
		fmt.Fprintf(&b, "  All sessions had low friction today. Nice.\n")
		fmt.Fprintf(&b, "  %s\n", shortRule)
	}

	return b.String()
}

// WeeklySummary renders a weekly report as readable text.
func WeeklySummary(r model.WeeklyReport, hourlyRateUSD float64) string {
	savingsHours := r.TotalEstimatedSavingsMinutes / 60.0
	savingsUSD := savingsHours * hourlyRateUSD

	rule := strings.Repeat("=", 60)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "  WEEKLY WORKFLOW REPORT\n")
	fmt.Fprintf(&b, "  %s - %s\n", r.WeekStart.Format("Jan 02"), r.WeekEnd.Format("Jan 02, 2006"))
	fmt.Fprintf(&b, "%s\n\n", rule)
	fmt.Fprintf(&b, "  Sessions: %d\n", r.TotalSessions)
	fmt.Fprintf(&b, "  Hours tracked: %.1f\n\n", r.TotalHoursTracked)
	fmt.Fprintf(&b, "  POTENTIAL SAVINGS\n")
	fmt.Fprintf(&b, "  Time: %.0f min/week (%.1f hrs)\n", r.TotalEstimatedSavingsMinutes, savingsHours)
	fmt.Fprintf(&b, "  Value: $%.0f/week (at $%.0f/hr)\n\n", savingsUSD, hourlyRateUSD)

	if len(r.TopFrictionPoints) > 0 {
		fmt.Fprintf(&b, "  TOP FRICTION POINTS (automation candidates)\n")
		fmt.Fprintf(&b, "  %s\n", strings.Repeat("-", 50))
		for i, d := range r.TopFrictionPoints {
			intent := d.Intent
			if intent == "" {
				intent = "unknown"
			}
			fmt.Fprintf(&b, "  %d. %s - %.0fmin, %.0f%% automatable\n",
				i+1, intent, d.TotalTimeMinutes, d.AutomationPotential*100)
		}
		b.WriteString("\n")
	}

	shortRule := strings.Repeat("=", 50)
	fmt.Fprintf(&b, "  %s\n", shortRule)
	fmt.Fprintf(&b, "  Run 'workflowx propose' to see replacement workflows.\n")
	fmt.Fprintf(&b, "  %s\n", shortRule)
	return b.String()
}
