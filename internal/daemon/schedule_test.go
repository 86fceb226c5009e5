package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/workflowx/internal/model"
)

func TestNextFireTimeSameDay(t *testing.T) {
	// Monday 10:00.
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	got, err := NextFireTime([]string{"13:00", "18:00", "23:00"}, false, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), got)
}

func TestNextFireTimeRollsToNextDay(t *testing.T) {
	now := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)

	got, err := NextFireTime([]string{"13:00", "18:00", "23:00"}, false, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 13, 0, 0, 0, time.UTC), got)
}

func TestNextFireTimePicksEarliestOfUnsortedTimes(t *testing.T) {
	now := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	got, err := NextFireTime([]string{"18:00", "08:30", "13:00"}, false, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC), got)
}

func TestNextFireTimeSkipsWeekends(t *testing.T) {
	// Friday 09:00; weekday-only 08:30 must land on Monday.
	now := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)

	got, err := NextFireTime([]string{"08:30"}, true, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.Monday, got.Weekday())
}

func TestNextFireTimeErrors(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	_, err := NextFireTime(nil, false, now)
	assert.Error(t, err)

	_, err = NextFireTime([]string{"25:99"}, false, now)
	assert.Error(t, err)
}

func TestUntil(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, Until(now.Add(time.Hour), now))
	assert.Equal(t, time.Duration(0), Until(now.Add(-time.Minute), now))
}

func TestShouldPropose(t *testing.T) {
	base := model.WorkflowSession{
		ID:             "s1",
		FrictionLevel:  model.FrictionHigh,
		InferredIntent: "competitive research",
	}
	proposed := map[string]time.Time{}

	assert.True(t, ShouldPropose(base, proposed))

	low := base
	low.FrictionLevel = model.FrictionMedium
	assert.False(t, ShouldPropose(low, proposed))

	noIntent := base
	noIntent.InferredIntent = ""
	assert.False(t, ShouldPropose(noIntent, proposed))

	failed := base
	failed.InferredIntent = model.InferenceFailed
	assert.False(t, ShouldPropose(failed, proposed))

	proposed["s1"] = time.Now()
	assert.False(t, ShouldPropose(base, proposed), "already notified")
}

func TestMarkProposedPrunesOldEntries(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	proposed := map[string]time.Time{
		"ancient": now.AddDate(0, 0, -45),
		"recent":  now.AddDate(0, 0, -5),
	}

	MarkProposed(proposed, []model.WorkflowSession{{ID: "new"}}, now)

	assert.Contains(t, proposed, "new")
	assert.Contains(t, proposed, "recent")
	assert.NotContains(t, proposed, "ancient")
}

func TestFormatMorningBrief(t *testing.T) {
	now := time.Date(2026, 3, 3, 8, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	sessions := []model.WorkflowSession{
		{StartTime: yesterday.Add(time.Hour), FrictionLevel: model.FrictionCritical},
		{StartTime: yesterday.Add(2 * time.Hour), FrictionLevel: model.FrictionHigh},
		{StartTime: yesterday.Add(3 * time.Hour), FrictionLevel: model.FrictionLow},
		// Today's session must not count.
		{StartTime: now.Add(-time.Hour), FrictionLevel: model.FrictionCritical},
	}
	outcomes := []model.ReplacementOutcome{
		{Status: model.OutcomeMeasuring},
		{Status: model.OutcomeAdopted},
	}

	title, msg := FormatMorningBrief(sessions, outcomes, 2, now)
	assert.Equal(t, "WorkflowX - 3 sessions yesterday", title)
	assert.Contains(t, msg, "1 CRITICAL")
	assert.Contains(t, msg, "1 HIGH friction")
	assert.Contains(t, msg, "2 pending validations")
	assert.Contains(t, msg, "1 replacement in progress")
}

func TestFormatMorningBriefNoData(t *testing.T) {
	now := time.Date(2026, 3, 3, 8, 30, 0, 0, time.UTC)

	title, msg := FormatMorningBrief(nil, nil, 0, now)
	assert.Equal(t, "WorkflowX Morning Brief", title)
	assert.Contains(t, msg, "workflowx capture")
}

func TestFormatMorningBriefAllQuiet(t *testing.T) {
	now := time.Date(2026, 3, 3, 8, 30, 0, 0, time.UTC)
	sessions := []model.WorkflowSession{
		{StartTime: now.AddDate(0, 0, -1), FrictionLevel: model.FrictionLow},
	}

	title, msg := FormatMorningBrief(sessions, nil, 0, now)
	assert.Equal(t, "WorkflowX - 1 session yesterday", title)
	assert.Equal(t, "All sessions low friction", msg)
}
