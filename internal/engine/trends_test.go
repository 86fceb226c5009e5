package engine

import (
	"testing"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

func TestWeekLabel(t *testing.T) {
	// 2026-01-01 is a Thursday, ISO week 1.
	if got := WeekLabel(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); got != "2026-W01" {
		t.Errorf("WeekLabel = %q, want 2026-W01", got)
	}
	// 2024-12-30 is a Monday belonging to ISO 2025-W01.
	if got := WeekLabel(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)); got != "2025-W01" {
		t.Errorf("WeekLabel = %q, want 2025-W01", got)
	}
}

func TestComputeTrendsEmpty(t *testing.T) {
	if got := ComputeTrends(nil, DefaultTrendWeeks); got != nil {
		t.Errorf("ComputeTrends(nil) = %v, want nil", got)
	}
}

func TestComputeTrendsAggregatesWeek(t *testing.T) {
	// Monday of ISO week 2026-W10.
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sessions := []model.WorkflowSession{
		sessionWith(monday, "deep work", 60, 2, model.FrictionLow),
		sessionWith(monday.AddDate(0, 0, 1), "email triage", 30, 12, model.FrictionHigh),
		sessionWith(monday.AddDate(0, 0, 2), "incident response", 10, 8, model.FrictionCritical),
	}

	trends := ComputeTrends(sessions, DefaultTrendWeeks)
	if len(trends) != 1 {
		t.Fatalf("got %d trends, want 1", len(trends))
	}

	tr := trends[0]
	if tr.WeekLabel != "2026-W10" {
		t.Errorf("label = %q, want 2026-W10", tr.WeekLabel)
	}
	if tr.TotalSessions != 3 {
		t.Errorf("sessions = %d, want 3", tr.TotalSessions)
	}
	if tr.TotalMinutes != 100.0 {
		t.Errorf("total minutes = %v, want 100.0", tr.TotalMinutes)
	}
	if tr.HighFrictionMinutes != 40.0 {
		t.Errorf("high minutes = %v, want 40.0", tr.HighFrictionMinutes)
	}
	if tr.HighFrictionRatio != 0.4 {
		t.Errorf("ratio = %v, want 0.4", tr.HighFrictionRatio)
	}
	if !tr.WeekStart.Equal(monday) {
		t.Errorf("week start = %v, want first session start", tr.WeekStart)
	}
	wantEnd := monday.AddDate(0, 0, 2).Add(10 * time.Minute)
	if !tr.WeekEnd.Equal(wantEnd) {
		t.Errorf("week end = %v, want last session end %v", tr.WeekEnd, wantEnd)
	}
	want := []string{"email triage", "incident response"}
	if len(tr.TopFrictionIntents) != len(want) {
		t.Fatalf("top intents = %v, want %v", tr.TopFrictionIntents, want)
	}
	for i := range want {
		if tr.TopFrictionIntents[i] != want[i] {
			t.Errorf("top intents[%d] = %q, want %q", i, tr.TopFrictionIntents[i], want[i])
		}
	}
}

func TestComputeTrendsKeepsMostRecentWeeks(t *testing.T) {
	monday := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) // 2026-W02
	var sessions []model.WorkflowSession
	for week := 0; week < 6; week++ {
		start := monday.AddDate(0, 0, 7*week)
		sessions = append(sessions, sessionWith(start, "x", 30, 2, model.FrictionLow))
	}

	trends := ComputeTrends(sessions, 4)
	if len(trends) != 4 {
		t.Fatalf("got %d trends, want 4", len(trends))
	}
	if trends[0].WeekLabel != "2026-W04" || trends[3].WeekLabel != "2026-W07" {
		t.Errorf("kept weeks %q..%q, want 2026-W04..2026-W07", trends[0].WeekLabel, trends[3].WeekLabel)
	}
	for i := 1; i < len(trends); i++ {
		if trends[i-1].WeekLabel >= trends[i].WeekLabel {
			t.Errorf("trends out of order at %d: %q then %q", i, trends[i-1].WeekLabel, trends[i].WeekLabel)
		}
	}
}

func TestComputeTrendsZeroMinutesRatio(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := sessionWith(monday, "x", 0, 0, model.FrictionLow)
	trends := ComputeTrends([]model.WorkflowSession{s}, 1)
	if len(trends) != 1 {
		t.Fatalf("got %d trends, want 1", len(trends))
	}
	if trends[0].HighFrictionRatio != 0 {
		t.Errorf("ratio = %v, want 0 when no minutes tracked", trends[0].HighFrictionRatio)
	}
}
