package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// SessionsJSON exports sessions as an indented JSON array with the verbose
// event payloads stripped.
func SessionsJSON(sessions []model.WorkflowSession) (string, error) {
	stripped := make([]model.WorkflowSession, len(sessions))
	copy(stripped, sessions)
	for i := range stripped {
		stripped[i].Events = nil
	}
	return marshalIndent(stripped)
}

// SessionsCSV exports sessions one row per session, apps pipe-joined.
func SessionsCSV(sessions []model.WorkflowSession) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "start_time", "end_time", "duration_minutes", "apps",
		"context_switches", "friction_level", "inferred_intent",
		"confidence", "friction_details", "user_validated", "user_label",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, s := range sessions {
		row := []string{
			s.ID,
			s.StartTime.Format(timeLayout),
			s.EndTime.Format(timeLayout),
			fmt.Sprintf("%.1f", s.TotalDurationMinutes),
			pipeJoin(s.AppsUsed),
			strconv.Itoa(s.ContextSwitches),
			string(s.FrictionLevel),
			s.InferredIntent,
			fmt.Sprintf("%.2f", s.Confidence),
			s.FrictionDetails,
			strconv.FormatBool(s.UserValidated),
			s.UserLabel,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// PatternsJSON exports patterns as an indented JSON array.
func PatternsJSON(patterns []model.WorkflowPattern) (string, error) {
	return marshalIndent(patterns)
}

// PatternsCSV exports patterns one row per pattern.
func PatternsCSV(patterns []model.WorkflowPattern) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "intent", "occurrences", "avg_duration_minutes",
		"total_time_invested_minutes", "most_common_friction",
		"avg_context_switches", "trend", "apps_involved",
		"first_seen", "last_seen",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, p := range patterns {
		row := []string{
			p.ID,
			p.Intent,
			strconv.Itoa(p.Occurrences),
			fmt.Sprintf("%.1f", p.AvgDurationMinutes),
			fmt.Sprintf("%.1f", p.TotalTimeInvestedMinutes),
			string(p.MostCommonFriction),
			fmt.Sprintf("%.1f", p.AvgContextSwitches),
			p.Trend,
			pipeJoin(p.AppsInvolved),
			p.FirstSeen.Format(timeLayout),
			p.LastSeen.Format(timeLayout),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// TrendsJSON exports weekly trends as an indented JSON array.
func TrendsJSON(trends []model.FrictionTrend) (string, error) {
	return marshalIndent(trends)
}

// TrendsCSV exports weekly trends one row per week.
func TrendsCSV(trends []model.FrictionTrend) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"week_label", "total_sessions", "total_minutes",
		"high_friction_minutes", "high_friction_ratio",
		"avg_switches_per_session", "top_friction_intents",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, tr := range trends {
		row := []string{
			tr.WeekLabel,
			strconv.Itoa(tr.TotalSessions),
			fmt.Sprintf("%.1f", tr.TotalMinutes),
			fmt.Sprintf("%.1f", tr.HighFrictionMinutes),
			fmt.Sprintf("%.3f", tr.HighFrictionRatio),
			fmt.Sprintf("%.1f", tr.AvgSwitchesPerSession),
			pipeJoin(tr.TopFrictionIntents),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// WriteFile writes export content, creating parent directories as needed.
func WriteFile(content, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func marshalIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func pipeJoin(items []string) string {
	return strings.Join(items, "|")
}
