package engine

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// Default clustering parameters. A gap longer than DefaultGapMinutes between
// consecutive events starts a new session; candidates with fewer than
// DefaultMinEvents events are dropped as noise.
const (
	DefaultGapMinutes = 5.0
	DefaultMinEvents  = 2
)

// Friction thresholds on denoised switches per minute. One focus change
// every two minutes is already critical.
const (
	criticalSwitchesPerMinute = 0.5
	highSwitchesPerMinute     = 0.2
	mediumSwitchesPerMinute   = 0.1
)

// Cluster groups events into workflow sessions using the time-gap rule:
// events are sorted by timestamp, then a gap strictly greater than gapMinutes
// closes the current session. Candidates with fewer than minEvents events are
// silently dropped — isolated single blips are noise, not sessions.
//
// Malformed events (zero timestamps) are a caller contract violation and are
// not defended against. Returns sessions ordered chronologically by start.
func Cluster(events []model.RawEvent, gapMinutes float64, minEvents int) []model.WorkflowSession {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]model.RawEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sessions []model.WorkflowSession
	current := []model.RawEvent{sorted[0]}

	for _, e := range sorted[1:] {
		gap := e.Timestamp.Sub(current[len(current)-1].Timestamp).Minutes()
		if gap > gapMinutes {
			if len(current) >= minEvents {
				sessions = append(sessions, buildSession(current))
			}
			current = []model.RawEvent{e}
		} else {
			current = append(current, e)
		}
	}

	if len(current) >= minEvents {
		sessions = append(sessions, buildSession(current))
	}

	return sessions
}

// buildSession derives a WorkflowSession from a contiguous event run. Context
// switches and the app list come from the denoised focus timeline, never from
// raw per-event app changes.
func buildSession(events []model.RawEvent) model.WorkflowSession {
	start := events[0].Timestamp
	end := events[len(events)-1].Timestamp
	duration := end.Sub(start).Minutes()

	switches, apps := Denoise(events)

	// Floor of one minute prevents division blow-up on near-instant sessions.
	perMinute := float64(switches) / maxFloat(duration, 1.0)

	return model.WorkflowSession{
		ID:                   SessionID(start),
		StartTime:            start,
		EndTime:              end,
		Events:               events,
		AppsUsed:             apps,
		TotalDurationMinutes: round1(duration),
		ContextSwitches:      switches,
		FrictionLevel:        frictionFor(perMinute),
	}
}

// frictionFor maps a switches-per-minute rate to a friction level. The
// thresholds are monotonic: a higher rate never yields a lower level.
func frictionFor(switchesPerMinute float64) model.FrictionLevel {
	switch {
	case switchesPerMinute > criticalSwitchesPerMinute:
		return model.FrictionCritical
	case switchesPerMinute > highSwitchesPerMinute:
		return model.FrictionHigh
	case switchesPerMinute > mediumSwitchesPerMinute:
		return model.FrictionMedium
	default:
		return model.FrictionLow
	}
}

// SessionID derives the deterministic session id from the start instant:
// the first 12 hex chars of a hash of the start date and time. The same
// time window always hashes to the same id, so repeated ingestion runs can
// be deduplicated by id instead of full content comparison.
func SessionID(start time.Time) string {
	key := start.Format("2006-01-02") + "_" + start.Format("150405")
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
