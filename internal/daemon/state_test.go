package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon-state.json")
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	s := NewState(now)
	s.Jobs["analyze"] = JobState{
		LastRun:    now,
		NextRun:    now.Add(3 * time.Hour),
		LastStatus: JobOK,
	}
	s.ProposedSessionIDs["abc"] = now
	s.ScreenpipeHealthy = false
	require.NoError(t, WriteState(s, path))

	got := ReadState(path, now.Add(time.Hour))
	assert.Equal(t, now, got.StartedAt.UTC())
	assert.Equal(t, JobOK, got.Jobs["analyze"].LastStatus)
	assert.Contains(t, got.ProposedSessionIDs, "abc")
	assert.False(t, got.ScreenpipeHealthy)
}

func TestReadStateMissingOrCorrupt(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	dir := t.TempDir()

	fresh := ReadState(filepath.Join(dir, "nope.json"), now)
	assert.Equal(t, now, fresh.StartedAt)
	assert.NotNil(t, fresh.Jobs)
	assert.NotNil(t, fresh.ProposedSessionIDs)
	assert.True(t, fresh.ScreenpipeHealthy)

	corrupt := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{{{"), 0o644))
	got := ReadState(corrupt, now)
	assert.Equal(t, now, got.StartedAt)
}

func TestPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")

	assert.Equal(t, 0, ReadPID(path))

	require.NoError(t, WritePID(path))
	assert.Equal(t, os.Getpid(), ReadPID(path))

	RemovePID(path)
	assert.Equal(t, 0, ReadPID(path))

	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))
	assert.Equal(t, 0, ReadPID(path))
}
