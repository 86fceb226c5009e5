package engine

import (
	"testing"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

func TestClusterEmpty(t *testing.T) {
	if got := Cluster(nil, DefaultGapMinutes, DefaultMinEvents); got != nil {
		t.Errorf("Cluster(nil) = %v, want nil", got)
	}
}

func TestClusterSingleSession(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		evAt(base, 0, "VSCode", ""),
		evAt(base, 60, "VSCode", ""),
		evAt(base, 120, "VSCode", ""),
		evAt(base, 180, "VSCode", ""),
	}

	sessions := Cluster(events, DefaultGapMinutes, DefaultMinEvents)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}

	s := sessions[0]
	if s.TotalDurationMinutes != 3.0 {
		t.Errorf("duration = %v, want 3.0", s.TotalDurationMinutes)
	}
	if s.ContextSwitches != 0 {
		t.Errorf("switches = %d, want 0", s.ContextSwitches)
	}
	if s.FrictionLevel != model.FrictionLow {
		t.Errorf("friction = %v, want low", s.FrictionLevel)
	}
	if len(s.Events) != 4 {
		t.Errorf("kept %d events, want 4", len(s.Events))
	}
}

func TestClusterSplitsOnGap(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		evAt(base, 0, "VSCode", ""),
		evAt(base, 60, "VSCode", ""),
		// Ten-minute gap.
		evAt(base, 660, "Chrome", ""),
		evAt(base, 720, "Chrome", ""),
	}

	sessions := Cluster(events, DefaultGapMinutes, DefaultMinEvents)
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if !sessions[0].StartTime.Before(sessions[1].StartTime) {
		t.Error("sessions not in chronological order")
	}
}

func TestClusterGapExactlyAtThresholdDoesNotSplit(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		evAt(base, 0, "VSCode", ""),
		evAt(base, 300, "VSCode", ""), // exactly 5 minutes later
	}

	sessions := Cluster(events, 5.0, 2)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1 (gap must be strictly greater)", len(sessions))
	}
}

func TestClusterDropsShortRuns(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		evAt(base, 0, "Slack", ""),
		// Isolated event far away.
		evAt(base, 3600, "Chrome", ""),
		evAt(base, 3660, "Chrome", ""),
	}

	sessions := Cluster(events, DefaultGapMinutes, 2)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1 (singleton dropped)", len(sessions))
	}
	if sessions[0].AppsUsed[0] != "Chrome" {
		t.Errorf("kept session apps = %v, want Chrome run", sessions[0].AppsUsed)
	}
}

func TestClusterSortsUnorderedInput(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		evAt(base, 120, "VSCode", ""),
		evAt(base, 0, "VSCode", ""),
		evAt(base, 60, "VSCode", ""),
	}

	sessions := Cluster(events, DefaultGapMinutes, DefaultMinEvents)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if !sessions[0].StartTime.Equal(base) {
		t.Errorf("start = %v, want %v", sessions[0].StartTime, base)
	}
	if sessions[0].TotalDurationMinutes != 2.0 {
		t.Errorf("duration = %v, want 2.0", sessions[0].TotalDurationMinutes)
	}
}

func TestClusterHighFrictionFromAlternatingApps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	// Twenty alternating events, one per 35s bucket, over ~11 minutes. The
	// denoised timeline still flips every bucket: 19 switches over 11.1
	// minutes is ~1.7 per minute, well past critical.
	var events []model.RawEvent
	for i := 0; i < 20; i++ {
		app := "Slack"
		if i%2 == 1 {
			app = "Email"
		}
		events = append(events, evAt(base, i*35, app, ""))
	}

	sessions := Cluster(events, DefaultGapMinutes, DefaultMinEvents)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}

	s := sessions[0]
	if !s.FrictionLevel.IsHigh() {
		t.Errorf("friction = %v, want high or critical", s.FrictionLevel)
	}
	if s.ContextSwitches >= 19+1 {
		t.Errorf("switches = %d, want fewer than raw app changes", s.ContextSwitches)
	}
}

func TestClusterShortSessionUsesMinuteFloor(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	// 90-second session, two buckets, one switch. With the one-minute floor
	// the rate is 1/1.5 ≈ 0.67 — critical, but not infinite.
	events := []model.RawEvent{
		evAt(base, 0, "Slack", ""),
		evAt(base, 40, "Chrome", ""),
		evAt(base, 90, "Chrome", ""),
	}

	sessions := Cluster(events, DefaultGapMinutes, DefaultMinEvents)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].FrictionLevel != model.FrictionCritical {
		t.Errorf("friction = %v, want critical", sessions[0].FrictionLevel)
	}
}

func TestSessionIDDeterministic(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 15, 30, 0, time.UTC)
	a := SessionID(start)
	b := SessionID(start)
	if a != b {
		t.Errorf("SessionID not deterministic: %q vs %q", a, b)
	}
	if len(a) != 12 {
		t.Errorf("SessionID length = %d, want 12", len(a))
	}
	if SessionID(start.Add(time.Second)) == a {
		t.Error("different start times produced the same id")
	}
}
