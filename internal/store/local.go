// Package store persists workflowx data as JSON files under the data
// directory. One file per day for sessions; single files for questions,
// patterns, and outcomes. Local disk only.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

const dateLayout = "2006-01-02"

// Local is the file-based store. All methods are safe against missing or
// corrupt files: reads of unreadable data return empty results so one bad
// day's file never blocks analysis of the rest.
type Local struct {
	dataDir string
}

// Open creates the store rooted at dataDir, creating the directory tree.
func Open(dataDir string) (*Local, error) {
	for _, sub := range []string{"sessions", "questions", "patterns", "proposals", "outcomes", "reports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}
	return &Local{dataDir: dataDir}, nil
}

// DataDir returns the store's root directory.
func (s *Local) DataDir() string {
	return s.dataDir
}

func (s *Local) sessionPath(day time.Time) string {
	return filepath.Join(s.dataDir, "sessions", day.Format(dateLayout)+".json")
}

// SaveSessions merges sessions into the given day's file. Known ids are
// replaced in place (re-analysis updates intent and validation fields);
// new ids are appended.
func (s *Local) SaveSessions(sessions []model.WorkflowSession, day time.Time) error {
	path := s.sessionPath(day)

	var existing []model.WorkflowSession
	loadList(path, &existing)

	for _, sess := range sessions {
		replaced := false
		for i := range existing {
			if existing[i].ID == sess.ID {
				existing[i] = sess
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, sess)
		}
	}

	return writeJSON(path, existing)
}

// SaveSessionsByStart files each session under its own start date, so a
// capture run that straddles midnight never misfiles yesterday's sessions.
func (s *Local) SaveSessionsByStart(sessions []model.WorkflowSession) error {
	byDay := make(map[time.Time][]model.WorkflowSession)
	var days []time.Time
	for _, sess := range sessions {
		day := dateOnly(sess.StartTime)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], sess)
	}
	for _, day := range days {
		if err := s.SaveSessions(byDay[day], day); err != nil {
			return err
		}
	}
	return nil
}

// LoadSessions returns the sessions stored for one day.
func (s *Local) LoadSessions(day time.Time) []model.WorkflowSession {
	var sessions []model.WorkflowSession
	loadList(s.sessionPath(day), &sessions)
	return sessions
}

// LoadSessionRange returns sessions across an inclusive day range.
func (s *Local) LoadSessionRange(start, end time.Time) []model.WorkflowSession {
	var sessions []model.WorkflowSession
	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		sessions = append(sessions, s.LoadSessions(day)...)
	}
	return sessions
}

// FindSession looks a session up by id across the last searchDays days.
func (s *Local) FindSession(id string, searchDays int, now time.Time) (model.WorkflowSession, bool) {
	for i := 0; i < searchDays; i++ {
		for _, sess := range s.LoadSessions(now.AddDate(0, 0, -i)) {
			if sess.ID == id {
				return sess, true
			}
		}
	}
	return model.WorkflowSession{}, false
}

func (s *Local) questionsPath() string {
	return filepath.Join(s.dataDir, "questions", "pending.json")
}

// SaveQuestions appends new classification questions, keyed by session id.
// A session already queued keeps its original question and answer state.
func (s *Local) SaveQuestions(questions []model.ClassificationQuestion) error {
	path := s.questionsPath()

	var existing []model.ClassificationQuestion
	loadList(path, &existing)

	known := make(map[string]bool, len(existing))
	for _, q := range existing {
		known[q.SessionID] = true
	}
	for _, q := range questions {
		if !known[q.SessionID] {
			existing = append(existing, q)
			known[q.SessionID] = true
		}
	}

	return writeJSON(path, existing)
}

// PendingQuestions returns the questions not yet answered.
func (s *Local) PendingQuestions() []model.ClassificationQuestion {
	var all []model.ClassificationQuestion
	loadList(s.questionsPath(), &all)

	var pending []model.ClassificationQuestion
	for _, q := range all {
		if !q.Answered {
			pending = append(pending, q)
		}
	}
	return pending
}

// AnswerQuestion records the user's answer for a session's question.
func (s *Local) AnswerQuestion(sessionID, answer string) error {
	path := s.questionsPath()

	var all []model.ClassificationQuestion
	loadList(path, &all)

	for i := range all {
		if all[i].SessionID == sessionID {
			all[i].Answer = answer
			all[i].Answered = true
		}
	}

	return writeJSON(path, all)
}

func (s *Local) patternsPath() string {
	return filepath.Join(s.dataDir, "patterns", "latest.json")
}

// SavePatterns overwrites the latest detected pattern set. Patterns are
// rebuilt from scratch each run, so only the newest set is kept.
func (s *Local) SavePatterns(patterns []model.WorkflowPattern) error {
	return writeJSON(s.patternsPath(), patterns)
}

// LoadPatterns returns the latest detected patterns.
func (s *Local) LoadPatterns() []model.WorkflowPattern {
	var patterns []model.WorkflowPattern
	loadList(s.patternsPath(), &patterns)
	return patterns
}

func (s *Local) proposalsPath() string {
	return filepath.Join(s.dataDir, "proposals", "latest.json")
}

// SaveProposals overwrites the latest proposal set. Proposals are
// regenerated on demand; only the newest run is kept for `adopt`.
func (s *Local) SaveProposals(proposals []model.ReplacementProposal) error {
	return writeJSON(s.proposalsPath(), proposals)
}

// LoadProposals returns the proposals from the most recent propose run.
func (s *Local) LoadProposals() []model.ReplacementProposal {
	var proposals []model.ReplacementProposal
	loadList(s.proposalsPath(), &proposals)
	return proposals
}

func (s *Local) outcomesPath() string {
	return filepath.Join(s.dataDir, "outcomes", "outcomes.json")
}

// SaveOutcomes merges outcomes by id, replacing known ones in place.
func (s *Local) SaveOutcomes(outcomes []model.ReplacementOutcome) error {
	path := s.outcomesPath()

	var existing []model.ReplacementOutcome
	loadList(path, &existing)

	for _, o := range outcomes {
		replaced := false
		for i := range existing {
			if existing[i].ID == o.ID {
				existing[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, o)
		}
	}

	return writeJSON(path, existing)
}

// SaveOutcome saves or updates a single outcome.
func (s *Local) SaveOutcome(o model.ReplacementOutcome) error {
	return s.SaveOutcomes([]model.ReplacementOutcome{o})
}

// LoadOutcomes returns all tracked outcomes.
func (s *Local) LoadOutcomes() []model.ReplacementOutcome {
	var outcomes []model.ReplacementOutcome
	loadList(s.outcomesPath(), &outcomes)
	return outcomes
}

// SaveReport writes a weekly report named by its week start date.
func (s *Local) SaveReport(r model.WeeklyReport) (string, error) {
	path := filepath.Join(s.dataDir, "reports", "week-"+r.WeekStart.Format(dateLayout)+".json")
	return path, writeJSON(path, r)
}

// LoadReport reads the report for the given week start, if present.
func (s *Local) LoadReport(weekStart time.Time) (model.WeeklyReport, bool) {
	path := filepath.Join(s.dataDir, "reports", "week-"+weekStart.Format(dateLayout)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return model.WeeklyReport{}, false
	}
	var r model.WeeklyReport
	if err := json.Unmarshal(data, &r); err != nil {
		return model.WeeklyReport{}, false
	}
	return r, true
}

// loadList fills out from a JSON array file. Missing files and corrupt
// content both leave out empty.
func loadList(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil || !json.Valid(data) {
		return
	}
	_ = json.Unmarshal(data, out)
}

// writeJSON writes indented JSON via a temp file rename so a crash mid-write
// never leaves a truncated file behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
