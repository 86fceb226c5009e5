package engine

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// ROI measurement parameters. A session counts toward an outcome's workflow
// when its intent scores above matchThreshold against the outcome intent;
// DefaultLookbackDays bounds each measurement window.
const (
	matchThreshold      = 0.5
	DefaultLookbackDays = 7
)

// OutcomeID derives the deterministic outcome id from its proposal id, so
// adopting the same proposal twice updates rather than duplicates.
func OutcomeID(proposalID string) string {
	sum := md5.Sum([]byte(proposalID))
	return "out_" + hex.EncodeToString(sum[:])[:12]
}

// NewOutcome starts tracking an adopted proposal. The matchable intent is the
// proposal's original workflow description up to the first parenthetical
// qualifier. BeforeMinutesPerWeek is the baseline the replacement competes
// against; savings stay zero until the first measurement cycle.
func NewOutcome(p model.ReplacementProposal, beforeMinutesPerWeek float64, adoptedAt time.Time) model.ReplacementOutcome {
	intent := strings.TrimSpace(strings.SplitN(p.OriginalWorkflow, "(", 2)[0])
	return model.ReplacementOutcome{
		ID:                   OutcomeID(p.ID),
		ProposalID:           p.ID,
		Intent:               intent,
		Adopted:              true,
		AdoptedDate:          adoptedAt,
		BeforeMinutesPerWeek: beforeMinutesPerWeek,
		Status:               model.OutcomeMeasuring,
	}
}

// MeasureOutcome runs one measurement cycle: find sessions from the lookback
// window whose intent still matches the replaced workflow, convert their total
// time to a weekly rate, and update the outcome's savings and status. Zero
// matched sessions is a strong signal, not an error — the old workflow is
// gone and the full baseline counts as savings.
//
// Status transitions: positive savings mean adopted; non-positive savings
// across two or more cycles mean rejected; otherwise keep measuring.
func MeasureOutcome(o model.ReplacementOutcome, recent []model.WorkflowSession, lookbackDays int, now time.Time) model.ReplacementOutcome {
	cutoff := now.AddDate(0, 0, -lookbackDays)

	var matchedMinutes float64
	for _, s := range recent {
		if s.StartTime.Before(cutoff) {
			continue
		}
		if Similarity(s.InferredIntent, o.Intent) > matchThreshold {
			matchedMinutes += s.TotalDurationMinutes
		}
	}

	weekly := matchedMinutes / (float64(lookbackDays) / 7.0)

	o.AfterMinutesPerWeek = round1(weekly)
	o.ActualSavingsMinutes = round1(o.BeforeMinutesPerWeek - o.AfterMinutesPerWeek)
	o.WeeksTracked++
	o.CumulativeSavingsMinutes = round1(o.ActualSavingsMinutes * float64(o.WeeksTracked))

	switch {
	case o.ActualSavingsMinutes > 0:
		o.Status = model.OutcomeAdopted
	case o.WeeksTracked >= 2:
		o.Status = model.OutcomeRejected
	default:
		o.Status = model.OutcomeMeasuring
	}

	return o
}

// ShouldMeasure reports whether an outcome is due for another cycle. Cadence
// is weekly for the first month, then monthly; an outcome is due while its
// cycle count lags the expected count for its age. Ages are whole calendar
// days, so a six-day-old adoption is never due regardless of clock time.
func ShouldMeasure(o model.ReplacementOutcome, now time.Time) bool {
	if o.AdoptedDate.IsZero() {
		return false
	}

	ageDays := daysBetween(o.AdoptedDate, now)
	if ageDays < 7 {
		return false
	}

	var expected int
	if ageDays <= 30 {
		expected = ageDays / 7
	} else {
		expected = 4 + (ageDays-30)/30
	}
	return o.WeeksTracked < expected
}

// daysBetween counts whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// ROISummary totals measured outcomes for reporting.
type ROISummary struct {
	TotalOutcomes            int     `json:"total_outcomes"`
	Adopted                  int     `json:"adopted"`
	Rejected                 int     `json:"rejected"`
	Measuring                int     `json:"measuring"`
	WeeklySavingsMinutes     float64 `json:"weekly_savings_minutes"`
	CumulativeSavingsMinutes float64 `json:"cumulative_savings_minutes"`
}

// SummarizeROI aggregates outcome counts and savings. Only outcomes currently
// saving time contribute to the weekly figure; cumulative savings include
// every outcome's running total, negative ones too.
func SummarizeROI(outcomes []model.ReplacementOutcome) ROISummary {
	var sum ROISummary
	for _, o := range outcomes {
		sum.TotalOutcomes++
		switch o.Status {
		case model.OutcomeAdopted:
			sum.Adopted++
		case model.OutcomeRejected:
			sum.Rejected++
		case model.OutcomeMeasuring:
			sum.Measuring++
		}
		if o.ActualSavingsMinutes > 0 {
			sum.WeeklySavingsMinutes += o.ActualSavingsMinutes
		}
		sum.CumulativeSavingsMinutes += o.CumulativeSavingsMinutes
	}
	sum.WeeklySavingsMinutes = round1(sum.WeeklySavingsMinutes)
	sum.CumulativeSavingsMinutes = round1(sum.CumulativeSavingsMinutes)
	return sum
}
