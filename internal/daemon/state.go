package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Job status values persisted in the daemon state file.
const (
	JobPending = "pending"
	JobOK      = "ok"
	JobError   = "error"
	JobSkipped = "skipped"
)

// JobState records one job loop's last and next run.
type JobState struct {
	LastRun      time.Time `json:"last_run"`
	NextRun      time.Time `json:"next_run"`
	LastStatus   string    `json:"last_status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// State is the daemon's persisted runtime state. It is written after every
// job so `workflowx status` can report without talking to the process.
type State struct {
	StartedAt time.Time           `json:"started_at"`
	Jobs      map[string]JobState `json:"jobs"`

	// ProposedSessionIDs dedups high-friction notifications per session.
	ProposedSessionIDs map[string]time.Time `json:"proposed_session_ids"`

	ScreenpipeHealthy     bool      `json:"screenpipe_healthy"`
	ScreenpipeLastChecked time.Time `json:"screenpipe_last_checked"`
}

// NewState returns an empty initialized state.
func NewState(now time.Time) *State {
	return &State{
		StartedAt:          now,
		Jobs:               make(map[string]JobState),
		ProposedSessionIDs: make(map[string]time.Time),
		ScreenpipeHealthy:  true,
	}
}

// ReadState loads daemon state from disk, returning a fresh default on any
// error so a corrupt state file never prevents startup.
func ReadState(path string, now time.Time) *State {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewState(now)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return NewState(now)
	}
	if s.Jobs == nil {
		s.Jobs = make(map[string]JobState)
	}
	if s.ProposedSessionIDs == nil {
		s.ProposedSessionIDs = make(map[string]time.Time)
	}
	return &s
}

// WriteState persists the state file.
func WriteState(s *State, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing daemon state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing daemon state: %w", err)
	}
	return nil
}

// WritePID records the current process id.
func WritePID(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

// ReadPID returns the recorded pid, or 0 if the file is missing or invalid.
func ReadPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// RemovePID deletes the pid file if present.
func RemovePID(path string) {
	_ = os.Remove(path)
}
