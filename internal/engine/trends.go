package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// DefaultTrendWeeks is how many recent ISO weeks a trend report covers.
const DefaultTrendWeeks = 4

// maxTopIntents caps the per-week list of worst-friction intents.
const maxTopIntents = 3

// WeekLabel formats a session start into its ISO week label. Zero-padding the
// week keeps lexicographic order chronological within a year.
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ComputeTrends groups sessions into ISO calendar weeks and aggregates a
// FrictionTrend per week, returning the most recent numWeeks in chronological
// order. Week bounds come from the observed session timestamps, so a week with
// one session has WeekStart == that session's start and WeekEnd == its end.
func ComputeTrends(sessions []model.WorkflowSession, numWeeks int) []model.FrictionTrend {
	if len(sessions) == 0 {
		return nil
	}

	byWeek := make(map[string][]model.WorkflowSession)
	var labels []string
	for _, s := range sessions {
		label := WeekLabel(s.StartTime)
		if _, ok := byWeek[label]; !ok {
			labels = append(labels, label)
		}
		byWeek[label] = append(byWeek[label], s)
	}

	sort.Strings(labels)
	if len(labels) > numWeeks {
		labels = labels[len(labels)-numWeeks:]
	}

	trends := make([]model.FrictionTrend, 0, len(labels))
	for _, label := range labels {
		trends = append(trends, weekTrend(label, byWeek[label]))
	}
	return trends
}

func weekTrend(label string, sessions []model.WorkflowSession) model.FrictionTrend {
	sorted := make([]model.WorkflowSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var totalMinutes, highMinutes, totalSwitches float64
	var high []model.WorkflowSession
	for _, s := range sorted {
		totalMinutes += s.TotalDurationMinutes
		totalSwitches += float64(s.ContextSwitches)
		if s.FrictionLevel.IsHigh() {
			highMinutes += s.TotalDurationMinutes
			high = append(high, s)
		}
	}

	ratio := 0.0
	if totalMinutes > 0 {
		ratio = round3(highMinutes / totalMinutes)
	}

	return model.FrictionTrend{
		WeekLabel:             label,
		WeekStart:             sorted[0].StartTime,
		WeekEnd:               sorted[len(sorted)-1].EndTime,
		TotalSessions:         len(sorted),
		TotalMinutes:          round1(totalMinutes),
		HighFrictionMinutes:   round1(highMinutes),
		HighFrictionRatio:     ratio,
		AvgSwitchesPerSession: round1(totalSwitches / float64(len(sorted))),
		TopFrictionIntents:    topIntents(high),
	}
}

// topIntents returns the up-to-three most frequent non-empty intents among
// high-friction sessions. Counting is list-backed; frequency ties resolve to
// the intent seen first in the week.
func topIntents(sessions []model.WorkflowSession) []string {
	type intentCount struct {
		intent string
		n      int
	}
	var counts []intentCount
	for _, s := range sessions {
		if s.InferredIntent == "" {
			continue
		}
		found := false
		for i := range counts {
			if counts[i].intent == s.InferredIntent {
				counts[i].n++
				found = true
				break
			}
		}
		if !found {
			counts = append(counts, intentCount{intent: s.InferredIntent, n: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].n > counts[j].n
	})
	if len(counts) > maxTopIntents {
		counts = counts[:maxTopIntents]
	}

	var intents []string
	for _, c := range counts {
		intents = append(intents, c.intent)
	}
	return intents
}
