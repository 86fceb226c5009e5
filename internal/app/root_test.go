package app

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/workflowx/internal/model"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"capture", "analyze", "sessions", "validate", "patterns", "trends",
		"propose", "adopt", "roi", "report", "export", "daemon", "status",
	}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		name, _, _ := strings.Cut(cmd.Use, " ")
		registered[name] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("%s subcommand not registered on rootCmd", name)
		}
	}
}

func TestProposalIntent(t *testing.T) {
	p := model.ReplacementProposal{
		OriginalWorkflow: "competitive research (45min, friction: app switching)",
	}
	if got := proposalIntent(p); got != "competitive research" {
		t.Errorf("proposalIntent = %q", got)
	}

	p.OriginalWorkflow = "email triage"
	if got := proposalIntent(p); got != "email triage" {
		t.Errorf("proposalIntent without parenthetical = %q", got)
	}
}

func TestBaselineMinutesPerWeek(t *testing.T) {
	p := model.ReplacementProposal{
		OriginalWorkflow: "competitive research (45min, friction: tab sprawl)",
	}
	sessions := []model.WorkflowSession{
		{InferredIntent: "competitive research", TotalDurationMinutes: 40},
		{InferredIntent: "competitor research", TotalDurationMinutes: 35},
		{InferredIntent: "quarterly tax filing", TotalDurationMinutes: 90},
	}

	got := baselineMinutesPerWeek(sessions, p)
	if got != 75 {
		t.Errorf("baseline = %v, want 75 (unrelated session excluded)", got)
	}
}

func TestJoinCapped(t *testing.T) {
	if got := joinCapped([]string{"a", "b"}, 3); got != "a, b" {
		t.Errorf("joinCapped under cap = %q", got)
	}
	if got := joinCapped([]string{"a", "b", "c", "d"}, 2); got != "a, b, …" {
		t.Errorf("joinCapped over cap = %q", got)
	}
}
