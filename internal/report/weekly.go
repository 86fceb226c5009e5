// Package report turns analyzed sessions into the artifacts users read:
// daily plain-text reports, structured weekly reports that feed the
// replacement engine, and JSON/CSV exports for outside analysis.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/workflowx/internal/inference"
	"github.com/blackwell-systems/workflowx/internal/model"
)

const (
	maxTopWorkflows = 10
	maxTopFriction  = 5
)

// GenerateWeekly builds the structured weekly report. Top friction points
// are the sessions where automation potential weighted by time invested is
// highest; these feed the replacement engine directly.
func GenerateWeekly(sessions []model.WorkflowSession, hourlyRateUSD float64, now time.Time) model.WeeklyReport {
	if len(sessions) == 0 {
		return model.WeeklyReport{
			WeekStart: now.AddDate(0, 0, -7),
			WeekEnd:   now,
		}
	}

	sorted := make([]model.WorkflowSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	diagnoses := make([]model.WorkflowDiagnosis, len(sorted))
	for i, s := range sorted {
		diagnoses[i] = inference.Diagnose(s, hourlyRateUSD)
	}
	sort.SliceStable(diagnoses, func(i, j int) bool {
		return diagnoses[i].AutomationPotential*diagnoses[i].TotalTimeMinutes >
			diagnoses[j].AutomationPotential*diagnoses[j].TotalTimeMinutes
	})
	topFriction := diagnoses
	if len(topFriction) > maxTopFriction {
		topFriction = topFriction[:maxTopFriction]
	}

	byDuration := make([]model.WorkflowSession, len(sorted))
	copy(byDuration, sorted)
	sort.SliceStable(byDuration, func(i, j int) bool {
		return byDuration[i].TotalDurationMinutes > byDuration[j].TotalDurationMinutes
	})
	topWorkflows := byDuration
	if len(topWorkflows) > maxTopWorkflows {
		topWorkflows = topWorkflows[:maxTopWorkflows]
	}

	var totalMinutes float64
	for _, s := range sorted {
		totalMinutes += s.TotalDurationMinutes
	}
	var savings float64
	for _, d := range topFriction {
		savings += d.TotalTimeMinutes * d.AutomationPotential
	}

	return model.WeeklyReport{
		WeekStart:                    sorted[0].StartTime,
		WeekEnd:                      sorted[len(sorted)-1].EndTime,
		TotalSessions:                len(sorted),
		TotalHoursTracked:            math.Round(totalMinutes/60*10) / 10,
		TopWorkflows:                 topWorkflows,
		TopFrictionPoints:            topFriction,
		TotalEstimatedSavingsMinutes: math.Round(savings),
	}
}
