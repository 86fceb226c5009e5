package engine

import (
	"testing"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

func TestNewOutcome(t *testing.T) {
	p := model.ReplacementProposal{
		ID:               "prop-123",
		OriginalWorkflow: "competitive research (manual browsing across 12 tabs)",
	}
	adopted := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	o := NewOutcome(p, 50.0, adopted)
	if o.Intent != "competitive research" {
		t.Errorf("intent = %q, want parenthetical stripped", o.Intent)
	}
	if o.ID != OutcomeID("prop-123") {
		t.Errorf("id = %q, want derived from proposal id", o.ID)
	}
	if o.Status != model.OutcomeMeasuring {
		t.Errorf("status = %q, want measuring", o.Status)
	}
	if o.BeforeMinutesPerWeek != 50.0 || o.WeeksTracked != 0 {
		t.Errorf("baseline = %v weeks = %d, want 50.0 and 0", o.BeforeMinutesPerWeek, o.WeeksTracked)
	}
	if !o.Adopted || !o.AdoptedDate.Equal(adopted) {
		t.Error("adoption flag or date not set")
	}
}

func TestOutcomeIDDeterministic(t *testing.T) {
	if OutcomeID("p1") != OutcomeID("p1") {
		t.Error("OutcomeID not deterministic")
	}
	if OutcomeID("p1") == OutcomeID("p2") {
		t.Error("distinct proposals produced the same id")
	}
	if got := OutcomeID("p1"); len(got) != len("out_")+12 {
		t.Errorf("id %q has wrong length", got)
	}
}

func TestMeasureOutcomePositiveSavings(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)
	o := model.ReplacementOutcome{
		ID:                   "out_x",
		Intent:               "competitive research",
		Adopted:              true,
		AdoptedDate:          now.AddDate(0, 0, -8),
		BeforeMinutesPerWeek: 50.0,
		Status:               model.OutcomeMeasuring,
	}
	recent := []model.WorkflowSession{
		sessionWith(now.AddDate(0, 0, -2), "competitive research", 15, 3, model.FrictionMedium),
		// Outside the lookback window, must not count.
		sessionWith(now.AddDate(0, 0, -10), "competitive research", 40, 5, model.FrictionHigh),
		// Unrelated work, must not count.
		sessionWith(now.AddDate(0, 0, -1), "quarterly tax filing", 25, 4, model.FrictionHigh),
	}

	got := MeasureOutcome(o, recent, 7, now)
	if got.AfterMinutesPerWeek != 15.0 {
		t.Errorf("after = %v, want 15.0", got.AfterMinutesPerWeek)
	}
	if got.ActualSavingsMinutes != 35.0 {
		t.Errorf("savings = %v, want 35.0", got.ActualSavingsMinutes)
	}
	if got.WeeksTracked != 1 {
		t.Errorf("weeks = %d, want 1", got.WeeksTracked)
	}
	if got.CumulativeSavingsMinutes != 35.0 {
		t.Errorf("cumulative = %v, want 35.0", got.CumulativeSavingsMinutes)
	}
	if got.Status != model.OutcomeAdopted {
		t.Errorf("status = %q, want adopted", got.Status)
	}
}

func TestMeasureOutcomeNoMatchesMeansFullSavings(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)
	o := model.ReplacementOutcome{
		Intent:               "expense report filing",
		Adopted:              true,
		AdoptedDate:          now.AddDate(0, 0, -8),
		BeforeMinutesPerWeek: 40.0,
		Status:               model.OutcomeMeasuring,
	}

	got := MeasureOutcome(o, nil, 7, now)
	if got.AfterMinutesPerWeek != 0 {
		t.Errorf("after = %v, want 0", got.AfterMinutesPerWeek)
	}
	if got.ActualSavingsMinutes != 40.0 {
		t.Errorf("savings = %v, want full baseline", got.ActualSavingsMinutes)
	}
	if got.Status != model.OutcomeAdopted {
		t.Errorf("status = %q, want adopted", got.Status)
	}
}

func TestMeasureOutcomeRejectsAfterTwoFlatCycles(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)
	o := model.ReplacementOutcome{
		Intent:               "weekly status report",
		Adopted:              true,
		AdoptedDate:          now.AddDate(0, 0, -20),
		BeforeMinutesPerWeek: 30.0,
		Status:               model.OutcomeMeasuring,
	}
	recent := []model.WorkflowSession{
		sessionWith(now.AddDate(0, 0, -3), "weekly status report", 35, 4, model.FrictionMedium),
	}

	first := MeasureOutcome(o, recent, 7, now)
	if first.ActualSavingsMinutes >= 0 {
		t.Fatalf("savings = %v, want negative", first.ActualSavingsMinutes)
	}
	if first.Status != model.OutcomeMeasuring {
		t.Errorf("status after one flat cycle = %q, want measuring", first.Status)
	}

	later := now.AddDate(0, 0, 7)
	recent = append(recent,
		sessionWith(later.AddDate(0, 0, -2), "weekly status report", 35, 4, model.FrictionMedium))
	second := MeasureOutcome(first, recent, 7, later)
	if second.Status != model.OutcomeRejected {
		t.Errorf("status after two flat cycles = %q, want rejected", second.Status)
	}
	if second.WeeksTracked != 2 {
		t.Errorf("weeks = %d, want 2", second.WeeksTracked)
	}
}

func TestShouldMeasure(t *testing.T) {
	adopted := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	o := model.ReplacementOutcome{Adopted: true, AdoptedDate: adopted}

	tests := []struct {
		name  string
		now   time.Time
		weeks int
		want  bool
	}{
		{"three days old", adopted.AddDate(0, 0, 3), 0, false},
		{"seven days old", adopted.AddDate(0, 0, 7), 0, true},
		{"seven days already measured", adopted.AddDate(0, 0, 7), 1, false},
		{"two weeks one cycle behind", adopted.AddDate(0, 0, 14), 1, true},
		{"monthly cadence caught up", adopted.AddDate(0, 0, 45), 4, false},
		{"monthly cadence due", adopted.AddDate(0, 0, 65), 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := o
			o.WeeksTracked = tt.weeks
			if got := ShouldMeasure(o, tt.now); got != tt.want {
				t.Errorf("ShouldMeasure(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if ShouldMeasure(model.ReplacementOutcome{}, adopted) {
		t.Error("outcome without adoption date must never be due")
	}
}

func TestSummarizeROI(t *testing.T) {
	outcomes := []model.ReplacementOutcome{
		{Status: model.OutcomeAdopted, ActualSavingsMinutes: 35, CumulativeSavingsMinutes: 105},
		{Status: model.OutcomeRejected, ActualSavingsMinutes: -5, CumulativeSavingsMinutes: -10},
		{Status: model.OutcomeMeasuring, ActualSavingsMinutes: 10, CumulativeSavingsMinutes: 10},
	}

	sum := SummarizeROI(outcomes)
	if sum.TotalOutcomes != 3 || sum.Adopted != 1 || sum.Rejected != 1 || sum.Measuring != 1 {
		t.Errorf("counts = %+v, want 3/1/1/1", sum)
	}
	if sum.WeeklySavingsMinutes != 45.0 {
		t.Errorf("weekly = %v, want 45.0 (negative excluded)", sum.WeeklySavingsMinutes)
	}
	if sum.CumulativeSavingsMinutes != 105.0 {
		t.Errorf("cumulative = %v, want 105.0", sum.CumulativeSavingsMinutes)
	}
}
