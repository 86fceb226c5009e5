package model

import "time"

// FrictionLevel grades how disruptive a session was, from LOW to CRITICAL.
// The ordering is meaningful: comparisons use Score.
type FrictionLevel string

const (
	FrictionLow      FrictionLevel = "low"
	FrictionMedium   FrictionLevel = "medium"
	FrictionHigh     FrictionLevel = "high"
	FrictionCritical FrictionLevel = "critical"
)

// Score maps a friction level to a numeric value (LOW=0 .. CRITICAL=3) for
// trend arithmetic. Unknown levels score 0.
func (f FrictionLevel) Score() float64 {
	switch f {
	case FrictionMedium:
		return 1
	case FrictionHigh:
		return 2
	case FrictionCritical:
		return 3
	default:
		return 0
	}
}

// IsHigh reports whether the level is HIGH or CRITICAL — the band that counts
// toward high-friction time in trends and reports.
func (f FrictionLevel) IsHigh() bool {
	return f == FrictionHigh || f == FrictionCritical
}

// InferenceFailed is the sentinel intent set when LLM inference errors out.
// Sessions carrying it are re-analyzed later and excluded from patterns.
const InferenceFailed = "inference_failed"

// WorkflowSession is a contiguous cluster of raw events treated as one
// coherent unit of work. Created once by the clusterer; only the inference
// fields (InferredIntent, Confidence, FrictionDetails) and the user fields
// (UserValidated, UserLabel) are mutated afterwards.
type WorkflowSession struct {
	// ID is deterministic: the first 12 hex chars of a hash of the session's
	// start date+time, so re-clustering the same window never duplicates.
	ID string `json:"id"`

	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Events    []RawEvent `json:"events"`

	// AppsUsed lists the distinct denoised focus apps in first-seen order.
	AppsUsed []string `json:"apps_used"`

	TotalDurationMinutes float64 `json:"total_duration_minutes"`

	// ContextSwitches counts focus changes on the denoised timeline, never
	// raw per-event app changes.
	ContextSwitches int `json:"context_switches"`

	FrictionLevel   FrictionLevel `json:"friction_level"`
	FrictionDetails string        `json:"friction_details"`

	// InferredIntent is empty until the external inference step fills it.
	InferredIntent string  `json:"inferred_intent"`
	Confidence     float64 `json:"confidence"`

	UserValidated bool   `json:"user_validated"`
	UserLabel     string `json:"user_label"`
}

// ClassificationQuestion asks the user to validate or correct a low-confidence
// intent inference.
type ClassificationQuestion struct {
	SessionID string   `json:"session_id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Context   string   `json:"context"`
	Answer    string   `json:"answer"`
	Answered  bool     `json:"answered"`
}
