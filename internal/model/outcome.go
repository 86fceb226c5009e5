package model

import "time"

// WorkflowDiagnosis estimates a session's waste and automation potential.
type WorkflowDiagnosis struct {
	SessionID           string   `json:"session_id"`
	Intent              string   `json:"intent"`
	TotalTimeMinutes    float64  `json:"total_time_minutes"`
	FrictionPoints      []string `json:"friction_points"`
	EstimatedCostUSD    float64  `json:"estimated_cost_usd"`
	AutomationPotential float64  `json:"automation_potential"` // 0.0 to 1.0
	RecommendedApproach string   `json:"recommended_approach"`
}

// ReplacementProposal is an LLM-generated rethink of an inefficient workflow.
type ReplacementProposal struct {
	ID               string `json:"id"`
	DiagnosisID      string `json:"diagnosis_id"`
	OriginalWorkflow string `json:"original_workflow"`
	ProposedWorkflow string `json:"proposed_workflow"`

	// Mechanism explains how the replacement works, step by step.
	Mechanism string `json:"mechanism"`

	EstimatedTimeAfterMinutes      float64 `json:"estimated_time_after_minutes"`
	EstimatedSavingsMinutesPerWeek float64 `json:"estimated_savings_minutes_per_week"`
	Confidence                     float64 `json:"confidence"`

	// PipelineYAML holds an auto-generated agent workflow definition, if any.
	PipelineYAML     string   `json:"pipeline_yaml"`
	RequiresNewTools []string `json:"requires_new_tools"`
}

// Outcome status values. An outcome starts "measuring" on adoption, flips to
// "adopted" on the first positive measurement, and to "rejected" after two or
// more cycles with no net savings.
const (
	OutcomePending   = "pending"
	OutcomeMeasuring = "measuring"
	OutcomeAdopted   = "adopted"
	OutcomeRejected  = "rejected"
)

// ReplacementOutcome tracks the measured before/after ROI of one adopted
// replacement. Created once on adoption; mutated by each measurement cycle.
type ReplacementOutcome struct {
	ID         string `json:"id"`
	ProposalID string `json:"proposal_id"`
	Intent     string `json:"intent"`

	Adopted     bool      `json:"adopted"`
	AdoptedDate time.Time `json:"adopted_date"`

	BeforeMinutesPerWeek float64 `json:"before_minutes_per_week"`
	AfterMinutesPerWeek  float64 `json:"after_minutes_per_week"`

	// ActualSavingsMinutes may be negative when the replacement made things
	// worse. CumulativeSavingsMinutes is savings × weeks tracked, recomputed
	// each cycle — a running extrapolation, not a true accumulator.
	ActualSavingsMinutes     float64 `json:"actual_savings_minutes"`
	CumulativeSavingsMinutes float64 `json:"cumulative_savings_minutes"`

	WeeksTracked int    `json:"weeks_tracked"`
	Status       string `json:"status"`
}

// WeeklyReport is the structured weekly intelligence summary.
type WeeklyReport struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`

	TotalSessions     int     `json:"total_sessions"`
	TotalHoursTracked float64 `json:"total_hours_tracked"`

	TopWorkflows      []WorkflowSession   `json:"top_workflows"`
	TopFrictionPoints []WorkflowDiagnosis `json:"top_friction_points"`
	Proposals         []ReplacementProposal `json:"proposals"`

	TotalEstimatedSavingsMinutes float64 `json:"total_estimated_savings_minutes"`
}
