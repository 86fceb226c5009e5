package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/blackwell-systems/workflowx/internal/model"
)

const replacementSystemPrompt = `You are a workflow architect. Given a diagnosed workflow
(what the user was doing, how long it took, where friction occurred), propose a
REIMAGINED workflow that achieves the same goal in fundamentally less time.

Rules:
1. Do NOT replicate the old workflow with automation. Rethink from the goal.
2. Be specific about the mechanism - how exactly does the replacement work?
3. If a multi-agent pipeline could solve this, describe the pipeline steps.
4. Estimate realistic time savings (don't over-promise).
5. List any new tools required.

Respond in JSON:
{
  "proposed_workflow": "Short description of the new approach",
  "mechanism": "Detailed explanation of how it works step by step",
  "estimated_time_after_minutes": 5.0,
  "confidence": 0.8,
  "requires_new_tools": ["tool1", "tool2"],
  "pipeline": [
    {"step": "step_name", "agent": "agent_role", "task": "what this step does"}
  ] | null
}`

// pipelineStep is one stage of a proposed agent pipeline.
type pipelineStep struct {
	Step  string `json:"step"`
	Agent string `json:"agent"`
	Task  string `json:"task"`
}

type replacementReply struct {
	ProposedWorkflow          string         `json:"proposed_workflow"`
	Mechanism                 string         `json:"mechanism"`
	EstimatedTimeAfterMinutes float64        `json:"estimated_time_after_minutes"`
	Confidence                float64        `json:"confidence"`
	RequiresNewTools          []string       `json:"requires_new_tools"`
	Pipeline                  []pipelineStep `json:"pipeline"`
}

// ProposeReplacement asks the LLM to rethink a diagnosed workflow from its
// goal. The returned proposal always has an id; on failure the proposal
// carries the error in its mechanism so the caller can show what happened
// without aborting the run.
func ProposeReplacement(ctx context.Context, client Client, d model.WorkflowDiagnosis, s model.WorkflowSession) model.ReplacementProposal {
	raw, err := client.Complete(ctx, replacementSystemPrompt, diagnosisContext(d, s), 1500)
	if err != nil {
		return failedProposal(d, err)
	}

	var reply replacementReply
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &reply); err != nil {
		return failedProposal(d, err)
	}

	var pipelineYAML string
	if len(reply.Pipeline) > 0 {
		pipelineYAML = pipelineYAMLFor(d.Intent, reply.Pipeline)
	}

	savings := d.TotalTimeMinutes - reply.EstimatedTimeAfterMinutes
	if savings < 0 {
		savings = 0
	}

	return model.ReplacementProposal{
		ID:          uuid.NewString(),
		DiagnosisID: d.SessionID,
		OriginalWorkflow: fmt.Sprintf("%s (%.0fmin, friction: %s)",
			d.Intent, d.TotalTimeMinutes, strings.Join(firstN(d.FrictionPoints, 3), ", ")),
		ProposedWorkflow:               reply.ProposedWorkflow,
		Mechanism:                      reply.Mechanism,
		EstimatedTimeAfterMinutes:      reply.EstimatedTimeAfterMinutes,
		EstimatedSavingsMinutesPerWeek: savings,
		Confidence:                     reply.Confidence,
		PipelineYAML:                   pipelineYAML,
		RequiresNewTools:               reply.RequiresNewTools,
	}
}

func failedProposal(d model.WorkflowDiagnosis, err error) model.ReplacementProposal {
	return model.ReplacementProposal{
		ID:               uuid.NewString(),
		DiagnosisID:      d.SessionID,
		OriginalWorkflow: d.Intent,
		ProposedWorkflow: "(generation failed)",
		Mechanism:        fmt.Sprintf("Error: %v", err),
	}
}

func diagnosisContext(d model.WorkflowDiagnosis, s model.WorkflowSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workflow Intent: %s\n", d.Intent)
	fmt.Fprintf(&b, "Total Time: %.0f minutes\n", d.TotalTimeMinutes)
	fmt.Fprintf(&b, "Estimated Cost: $%.2f\n", d.EstimatedCostUSD)
	fmt.Fprintf(&b, "Automation Potential: %.0f%%\n", d.AutomationPotential*100)
	fmt.Fprintf(&b, "Apps Used: %s\n", strings.Join(s.AppsUsed, ", "))
	fmt.Fprintf(&b, "Context Switches: %d\n", s.ContextSwitches)
	fmt.Fprintf(&b, "Friction Points: %s", strings.Join(d.FrictionPoints, ", "))
	return b.String()
}

// pipelineYAMLFor renders a proposed agent pipeline as workflow YAML. Each
// step depends on the previous one.
func pipelineYAMLFor(intent string, pipeline []pipelineStep) string {
	name := strings.NewReplacer(" ", "-", "/", "-").Replace(strings.ToLower(intent))
	if len(name) > 40 {
		name = name[:40]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated replacement workflow for: %s\n", intent)
	fmt.Fprintf(&b, "name: %s\n", name)
	fmt.Fprintf(&b, "description: %q\n\n", "Automated workflow replacing manual "+intent)
	b.WriteString("steps:\n")

	for i, step := range pipeline {
		name := step.Step
		if name == "" {
			name = "unnamed"
		}
		agent := step.Agent
		if agent == "" {
			agent = "planner"
		}
		fmt.Fprintf(&b, "  - name: %s\n", name)
		fmt.Fprintf(&b, "    agent: %s\n", agent)
		fmt.Fprintf(&b, "    prompt: %q\n", step.Task)
		if i > 0 {
			fmt.Fprintf(&b, "    depends_on: [%s]\n", pipeline[i-1].Step)
		}
		b.WriteString("\n")
	}

	return b.String()
}
