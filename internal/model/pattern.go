package model

import "time"

// Trend direction labels shared by patterns and friction persistence.
const (
	TrendWorsening = "worsening"
	TrendImproving = "improving"
	TrendStable    = "stable"
)

// WorkflowPattern is a cluster of sessions sharing a canonical intent — the
// intent of the earliest session in the cluster. Patterns are rebuilt from
// scratch on every detection run; callers persist "latest" only.
type WorkflowPattern struct {
	// ID is a deterministic hash of the canonical intent.
	ID string `json:"id"`

	Intent      string    `json:"intent"`
	Occurrences int       `json:"occurrences"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`

	AvgDurationMinutes       float64 `json:"avg_duration_minutes"`
	TotalTimeInvestedMinutes float64 `json:"total_time_invested_minutes"`
	AvgContextSwitches       float64 `json:"avg_context_switches"`

	// MostCommonFriction is the level appearing in the most member sessions,
	// ties broken by first-encountered order.
	MostCommonFriction FrictionLevel `json:"most_common_friction"`

	// Trend compares mean friction of the cluster's later half vs its earlier
	// half: "worsening", "improving", or "stable".
	Trend string `json:"trend"`

	SessionIDs []string `json:"session_ids"`

	// AppsInvolved lists up to 10 distinct apps in first-seen order.
	AppsInvolved []string `json:"apps_involved"`
}

// FrictionTrend aggregates one ISO calendar week of sessions. Week bounds are
// the observed first/last session timestamps, not calendar boundaries.
type FrictionTrend struct {
	// WeekLabel is "<iso-year>-W<week>", zero-padded so lexicographic order
	// is chronological order.
	WeekLabel string `json:"week_label"`

	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`

	TotalSessions int     `json:"total_sessions"`
	TotalMinutes  float64 `json:"total_minutes"`

	// HighFrictionMinutes sums durations of HIGH and CRITICAL sessions only.
	HighFrictionMinutes float64 `json:"high_friction_minutes"`
	HighFrictionRatio   float64 `json:"high_friction_ratio"`

	AvgSwitchesPerSession float64 `json:"avg_switches_per_session"`

	// TopFrictionIntents lists up to 3 most frequent intents among the week's
	// high-friction sessions.
	TopFrictionIntents []string `json:"top_friction_intents"`
}
