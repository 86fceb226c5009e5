// Package daemon runs the workflowx pipeline on a schedule: periodic capture
// rollups, LLM analysis passes, adaptive ROI measurement, a weekday morning
// brief, and a capture-tool health probe. All scheduling and trigger decisions
// are pure functions; the loops in daemon.go only wire them to the clock.
package daemon

import (
	"fmt"
	"sort"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// clockTime is a wall-clock time of day.
type clockTime struct {
	hour, minute int
}

// parseClock parses "HH:MM".
func parseClock(s string) (clockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return clockTime{}, fmt.Errorf("bad schedule time %q: %w", s, err)
	}
	return clockTime{hour: t.Hour(), minute: t.Minute()}, nil
}

// NextFireTime returns the next instant any of the given "HH:MM" times will
// fire after now, scanning 8 days forward so a Friday evening always finds
// Monday morning when weekdaysOnly is set. An empty or unparseable schedule
// is a configuration error, not a silent skip.
func NextFireTime(times []string, weekdaysOnly bool, now time.Time) (time.Time, error) {
	clocks := make([]clockTime, 0, len(times))
	for _, s := range times {
		c, err := parseClock(s)
		if err != nil {
			return time.Time{}, err
		}
		clocks = append(clocks, c)
	}
	sort.Slice(clocks, func(i, j int) bool {
		if clocks[i].hour != clocks[j].hour {
			return clocks[i].hour < clocks[j].hour
		}
		return clocks[i].minute < clocks[j].minute
	})

	for offset := 0; offset < 8; offset++ {
		day := now.AddDate(0, 0, offset)
		if weekdaysOnly && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
			continue
		}
		for _, c := range clocks {
			fire := time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, now.Location())
			if fire.After(now) {
				return fire, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("no fire time in the next 8 days for %v", times)
}

// Until returns the duration until target, or zero if it has passed.
func Until(target, now time.Time) time.Duration {
	d := target.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// ShouldPropose decides whether a session warrants a replacement
// notification: friction HIGH or CRITICAL, an inferred intent present, and
// no notification sent for this session before.
func ShouldPropose(s model.WorkflowSession, proposed map[string]time.Time) bool {
	if !s.FrictionLevel.IsHigh() {
		return false
	}
	if s.InferredIntent == "" || s.InferredIntent == model.InferenceFailed {
		return false
	}
	_, seen := proposed[s.ID]
	return !seen
}

// proposalRetention bounds the proposed-session dedup map; entries older
// than this are pruned on every propose pass.
const proposalRetention = 30 * 24 * time.Hour

// MarkProposed records notified sessions and prunes stale dedup entries.
func MarkProposed(proposed map[string]time.Time, sessions []model.WorkflowSession, now time.Time) {
	for _, s := range sessions {
		proposed[s.ID] = now
	}
	cutoff := now.Add(-proposalRetention)
	for id, ts := range proposed {
		if ts.Before(cutoff) {
			delete(proposed, id)
		}
	}
}

// FormatMorningBrief builds the (title, message) pair for the daily brief.
// Only yesterday's sessions count; today has barely started.
func FormatMorningBrief(sessions []model.WorkflowSession, outcomes []model.ReplacementOutcome, pendingQuestions int, now time.Time) (string, string) {
	yesterday := now.AddDate(0, 0, -1)
	var yesterdaySessions []model.WorkflowSession
	for _, s := range sessions {
		if sameDay(s.StartTime, yesterday) {
			yesterdaySessions = append(yesterdaySessions, s)
		}
	}

	if len(yesterdaySessions) == 0 {
		return "WorkflowX Morning Brief", "No data yet - run 'workflowx capture' to start."
	}

	var critical, high int
	for _, s := range yesterdaySessions {
		switch s.FrictionLevel {
		case model.FrictionCritical:
			critical++
		case model.FrictionHigh:
			high++
		}
	}
	var measuring int
	for _, o := range outcomes {
		if o.Status == model.OutcomeMeasuring {
			measuring++
		}
	}

	var parts []string
	if critical > 0 {
		parts = append(parts, fmt.Sprintf("%d CRITICAL", critical))
	}
	if high > 0 {
		parts = append(parts, fmt.Sprintf("%d HIGH friction", high))
	}
	if pendingQuestions > 0 {
		parts = append(parts, fmt.Sprintf("%d pending %s", pendingQuestions, plural(pendingQuestions, "validation")))
	}
	if measuring > 0 {
		parts = append(parts, fmt.Sprintf("%d %s in progress", measuring, plural(measuring, "replacement")))
	}

	title := fmt.Sprintf("WorkflowX - %d %s yesterday", len(yesterdaySessions), plural(len(yesterdaySessions), "session"))
	if len(parts) == 0 {
		return title, "All sessions low friction"
	}
	return title, joinParts(parts)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func joinParts(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += " | " + p
	}
	return out
}
