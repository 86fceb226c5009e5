package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/blackwell-systems/workflowx/internal/model"
)

const intentSystemPrompt = `You are a workflow analyst. Given a sequence of application
events (app names, window titles, URLs, OCR text), infer:

1. **Intent**: What was the user trying to accomplish? Be specific and action-oriented.
2. **Friction points**: Where did they get stuck, loop, or waste time?
3. **Confidence**: How confident are you in this inference? (0.0 to 1.0)
4. **Classification question**: If confidence < 0.7, generate ONE short multiple-choice
   question to ask the user for validation. 3-4 options max.

Respond in JSON:
{
  "intent": "string",
  "friction_points": ["string"],
  "confidence": 0.0,
  "question": {"text": "string", "options": ["a", "b", "c"]} | null
}`

// questionThreshold is the confidence below which the user is asked to
// validate the inferred intent.
const questionThreshold = 0.7

// maxSampledEvents caps how many events of a session reach the LLM.
const maxSampledEvents = 20

// BuildSessionSummary compresses a session into a text block for the LLM.
// Long sessions are sampled evenly rather than truncated so the summary
// still spans the whole timeline.
func BuildSessionSummary(s model.WorkflowSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s - %s\n", s.StartTime.Format("15:04"), s.EndTime.Format("15:04"))
	fmt.Fprintf(&b, "Duration: %g min\n", s.TotalDurationMinutes)
	fmt.Fprintf(&b, "Apps: %s\n", strings.Join(s.AppsUsed, ", "))
	fmt.Fprintf(&b, "Context switches: %d\n", s.ContextSwitches)
	fmt.Fprintf(&b, "Friction: %s\n\nEvent timeline:\n", s.FrictionLevel)

	step := 1
	if len(s.Events) > maxSampledEvents {
		step = len(s.Events) / maxSampledEvents
	}
	for i := 0; i < len(s.Events); i += step {
		e := s.Events[i]
		fmt.Fprintf(&b, "  [%s] %s | %s | %s\n",
			e.Timestamp.Format("15:04:05"), e.AppName, clip(e.WindowTitle, 60), clip(e.OCRText, 100))
	}
	return b.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// intentReply is the wire shape of the model's classification answer.
type intentReply struct {
	Intent         string   `json:"intent"`
	FrictionPoints []string `json:"friction_points"`
	Confidence     float64  `json:"confidence"`
	Question       *struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
	} `json:"question"`
}

// InferIntent classifies one session. On any failure the session comes back
// with the failed-inference sentinel and zero confidence rather than an
// error; a dead LLM must not block the analysis pipeline.
//
// A question is returned only for low-confidence inferences that are not
// ambient noise: short audio-only sessions are background conversations and
// media, and asking about them wastes the user's validation budget.
func InferIntent(ctx context.Context, client Client, s model.WorkflowSession) (model.WorkflowSession, *model.ClassificationQuestion) {
	raw, err := client.Complete(ctx, intentSystemPrompt, BuildSessionSummary(s), 500)
	if err != nil {
		s.InferredIntent = model.InferenceFailed
		s.Confidence = 0
		return s, nil
	}

	var reply intentReply
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &reply); err != nil {
		s.InferredIntent = model.InferenceFailed
		s.Confidence = 0
		return s, nil
	}

	s.InferredIntent = reply.Intent
	if s.InferredIntent == "" {
		s.InferredIntent = "unknown"
	}
	s.Confidence = reply.Confidence
	s.FrictionDetails = strings.Join(reply.FrictionPoints, "; ")

	if reply.Question == nil || s.Confidence >= questionThreshold || isAmbient(s) {
		return s, nil
	}

	return s, &model.ClassificationQuestion{
		SessionID: s.ID,
		Question:  reply.Question.Text,
		Options:   reply.Question.Options,
		Context: fmt.Sprintf("Session at %s, %gmin, apps: %s",
			s.StartTime.Format("15:04"), s.TotalDurationMinutes,
			strings.Join(firstN(s.AppsUsed, 3), ", ")),
	}
}

// isAmbient detects mic-only captures: every event is audio or unattributed,
// confidence is poor, and the session is short.
func isAmbient(s model.WorkflowSession) bool {
	for _, e := range s.Events {
		if e.AppName != "" && e.AppName != model.AudioAppName {
			return false
		}
	}
	return s.Confidence < 0.5 && s.TotalDurationMinutes < 10
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Diagnose estimates a session's waste and automation potential from its
// friction signals. Automation potential is a coarse heuristic: the worse
// the friction, the more likely a rethink pays off.
func Diagnose(s model.WorkflowSession, hourlyRateUSD float64) model.WorkflowDiagnosis {
	cost := (s.TotalDurationMinutes / 60.0) * hourlyRateUSD

	var potential float64
	switch s.FrictionLevel {
	case model.FrictionCritical:
		potential = 0.9
	case model.FrictionHigh:
		potential = 0.7
	case model.FrictionMedium:
		potential = 0.4
	default:
		potential = 0.1
	}

	var points []string
	if s.FrictionDetails != "" {
		points = strings.Split(s.FrictionDetails, "; ")
	}

	return model.WorkflowDiagnosis{
		SessionID:           s.ID,
		Intent:              s.InferredIntent,
		TotalTimeMinutes:    s.TotalDurationMinutes,
		FrictionPoints:      points,
		EstimatedCostUSD:    math.Round(cost*100) / 100,
		AutomationPotential: potential,
	}
}
