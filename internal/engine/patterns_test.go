package engine

import (
	"testing"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

func sessionWith(start time.Time, intent string, minutes float64, switches int, friction model.FrictionLevel) model.WorkflowSession {
	return model.WorkflowSession{
		ID:                   SessionID(start),
		StartTime:            start,
		EndTime:              start.Add(time.Duration(minutes * float64(time.Minute))),
		AppsUsed:             []string{"Chrome", "Notion"},
		TotalDurationMinutes: minutes,
		ContextSwitches:      switches,
		FrictionLevel:        friction,
		InferredIntent:       intent,
	}
}

func TestDetectPatternsEmpty(t *testing.T) {
	if got := DetectPatterns(nil, DefaultSimilarityThreshold, DefaultMinOccurrences); got != nil {
		t.Errorf("DetectPatterns(nil) = %v, want nil", got)
	}
}

func TestDetectPatternsGroupsSimilarIntents(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sessions := []model.WorkflowSession{
		sessionWith(base, "competitive research", 30, 5, model.FrictionHigh),
		sessionWith(base.AddDate(0, 0, 1), "competitor research", 25, 4, model.FrictionHigh),
		sessionWith(base.AddDate(0, 0, 2), "competitive research", 35, 6, model.FrictionCritical),
	}

	patterns := DetectPatterns(sessions, DefaultSimilarityThreshold, DefaultMinOccurrences)
	if len(patterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(patterns))
	}

	p := patterns[0]
	if p.Occurrences != 3 {
		t.Errorf("occurrences = %d, want 3", p.Occurrences)
	}
	if p.Intent != "competitive research" {
		t.Errorf("canonical intent = %q, want first session's intent", p.Intent)
	}
	if p.TotalTimeInvestedMinutes != 90.0 {
		t.Errorf("total minutes = %v, want 90.0", p.TotalTimeInvestedMinutes)
	}
	if p.AvgDurationMinutes != 30.0 {
		t.Errorf("avg minutes = %v, want 30.0", p.AvgDurationMinutes)
	}
	if p.MostCommonFriction != model.FrictionHigh {
		t.Errorf("most common friction = %v, want high", p.MostCommonFriction)
	}
	if !p.FirstSeen.Equal(base) {
		t.Errorf("first seen = %v, want %v", p.FirstSeen, base)
	}
	if len(p.SessionIDs) != 3 {
		t.Errorf("session ids = %v, want 3 entries", p.SessionIDs)
	}
}

func TestDetectPatternsDropsRareAndUnanalyzed(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sessions := []model.WorkflowSession{
		sessionWith(base, "expense report filing", 20, 3, model.FrictionMedium),
		sessionWith(base.AddDate(0, 0, 1), "", 15, 2, model.FrictionLow),
		sessionWith(base.AddDate(0, 0, 2), model.InferenceFailed, 15, 2, model.FrictionLow),
	}

	patterns := DetectPatterns(sessions, DefaultSimilarityThreshold, 2)
	if len(patterns) != 0 {
		t.Errorf("got %d patterns, want 0 (singleton cluster, noise ignored)", len(patterns))
	}
}

func TestDetectPatternsSortsByTimeInvested(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sessions := []model.WorkflowSession{
		sessionWith(base, "email triage", 10, 2, model.FrictionLow),
		sessionWith(base.Add(2*time.Hour), "email triage", 10, 2, model.FrictionLow),
		sessionWith(base.Add(4*time.Hour), "sprint planning prep", 60, 8, model.FrictionHigh),
		sessionWith(base.Add(6*time.Hour), "sprint planning prep", 55, 7, model.FrictionHigh),
	}

	patterns := DetectPatterns(sessions, DefaultSimilarityThreshold, 2)
	if len(patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(patterns))
	}
	if patterns[0].Intent != "sprint planning prep" {
		t.Errorf("patterns[0] = %q, want biggest time sink first", patterns[0].Intent)
	}
}

func TestDetectPatternsIDStableAcrossRuns(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sessions := []model.WorkflowSession{
		sessionWith(base, "weekly status report", 20, 3, model.FrictionMedium),
		sessionWith(base.AddDate(0, 0, 7), "weekly status report", 22, 4, model.FrictionMedium),
	}

	a := DetectPatterns(sessions, DefaultSimilarityThreshold, 2)
	b := DetectPatterns(sessions, DefaultSimilarityThreshold, 2)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("got %d and %d patterns, want 1 each", len(a), len(b))
	}
	if a[0].ID != b[0].ID {
		t.Errorf("pattern ids differ across runs: %q vs %q", a[0].ID, b[0].ID)
	}
	if a[0].ID != PatternID("Weekly Status Report  ") {
		t.Error("pattern id must normalize case and whitespace")
	}
}

func TestFrictionTrajectory(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mk := func(levels ...model.FrictionLevel) []model.WorkflowSession {
		var out []model.WorkflowSession
		for i, l := range levels {
			out = append(out, sessionWith(base.Add(time.Duration(i)*time.Hour), "x", 10, 1, l))
		}
		return out
	}

	tests := []struct {
		name   string
		levels []model.FrictionLevel
		want   string
	}{
		{"too few", []model.FrictionLevel{model.FrictionLow, model.FrictionCritical}, model.TrendStable},
		{"worsening", []model.FrictionLevel{model.FrictionLow, model.FrictionLow, model.FrictionHigh, model.FrictionCritical}, model.TrendWorsening},
		{"improving", []model.FrictionLevel{model.FrictionCritical, model.FrictionHigh, model.FrictionLow, model.FrictionLow}, model.TrendImproving},
		{"flat", []model.FrictionLevel{model.FrictionMedium, model.FrictionMedium, model.FrictionMedium, model.FrictionMedium}, model.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frictionTrajectory(mk(tt.levels...)); got != tt.want {
				t.Errorf("frictionTrajectory = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMostCommonFrictionTieKeepsFirst(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	cluster := []model.WorkflowSession{
		sessionWith(base, "x", 10, 1, model.FrictionHigh),
		sessionWith(base.Add(time.Hour), "x", 10, 1, model.FrictionLow),
		sessionWith(base.Add(2*time.Hour), "x", 10, 1, model.FrictionLow),
		sessionWith(base.Add(3*time.Hour), "x", 10, 1, model.FrictionHigh),
	}
	if got := mostCommonFriction(cluster); got != model.FrictionHigh {
		t.Errorf("tie broke to %v, want first-encountered high", got)
	}
}
