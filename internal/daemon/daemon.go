package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/workflowx/internal/capture"
	"github.com/blackwell-systems/workflowx/internal/config"
	"github.com/blackwell-systems/workflowx/internal/engine"
	"github.com/blackwell-systems/workflowx/internal/inference"
	"github.com/blackwell-systems/workflowx/internal/model"
	"github.com/blackwell-systems/workflowx/internal/store"
)

// captureWindow is how far back each scheduled capture rollup reaches.
const captureWindow = 4 * time.Hour

// Daemon runs all job loops in one process, one goroutine per loop.
type Daemon struct {
	cfg      *config.Config
	store    *store.Local
	adapters []capture.Adapter

	// llm is nil when no provider is configured; analyze passes are
	// skipped rather than failed.
	llm inference.Client

	statePath string
	notify    func(title, message, subtitle string) error
	now       func() time.Time
}

// New assembles a daemon. A nil llm client disables analysis.
func New(cfg *config.Config, st *store.Local, adapters []capture.Adapter, llm inference.Client) *Daemon {
	return &Daemon{
		cfg:       cfg,
		store:     st,
		adapters:  adapters,
		llm:       llm,
		statePath: filepath.Join(st.DataDir(), "daemon-state.json"),
		notify:    Notify,
		now:       time.Now,
	}
}

// StatePath returns where the daemon persists its runtime state.
func (d *Daemon) StatePath() string {
	return d.statePath
}

// Run starts all job loops and blocks until ctx is cancelled or a loop
// fails with a scheduling error.
func (d *Daemon) Run(ctx context.Context) error {
	state := ReadState(d.statePath, d.now())
	state.StartedAt = d.now()
	if err := WriteState(state, d.statePath); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.healthLoop(ctx) })
	g.Go(func() error { return d.timedLoop(ctx, "capture", d.cfg.Schedule.CaptureTimes, false, d.runCapture) })
	g.Go(func() error { return d.timedLoop(ctx, "analyze", d.cfg.Schedule.AnalyzeTimes, false, d.runAnalyze) })
	g.Go(func() error { return d.timedLoop(ctx, "measure", []string{d.cfg.Schedule.MeasureTime}, false, d.runMeasure) })
	g.Go(func() error {
		return d.timedLoop(ctx, "brief", []string{d.cfg.Schedule.BriefTime}, d.cfg.Schedule.BriefWeekdaysOnly, d.runBrief)
	})
	return g.Wait()
}

// timedLoop sleeps until the job's next fire time, runs it, records the
// result in the state file, and repeats. Job errors are recorded, never
// fatal; only a broken schedule stops the loop.
func (d *Daemon) timedLoop(ctx context.Context, name string, times []string, weekdaysOnly bool, job func(ctx context.Context) (string, error)) error {
	for {
		target, err := NextFireTime(times, weekdaysOnly, d.now())
		if err != nil {
			return fmt.Errorf("%s schedule: %w", name, err)
		}

		state := ReadState(d.statePath, d.now())
		js := state.Jobs[name]
		js.NextRun = target
		if js.LastStatus == "" {
			js.LastStatus = JobPending
		}
		state.Jobs[name] = js
		_ = WriteState(state, d.statePath)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(Until(target, d.now())):
		}

		status, err := job(ctx)
		state = ReadState(d.statePath, d.now())
		js = JobState{LastRun: d.now(), LastStatus: status}
		if err != nil {
			js.LastStatus = JobError
			js.ErrorMessage = err.Error()
		}
		if next, nerr := NextFireTime(times, weekdaysOnly, d.now()); nerr == nil {
			js.NextRun = next
		}
		state.Jobs[name] = js
		_ = WriteState(state, d.statePath)
	}
}

// runCapture rolls the last capture window into clustered sessions.
func (d *Daemon) runCapture(ctx context.Context) (string, error) {
	now := d.now()
	events := capture.ReadAll(ctx, d.adapters, now.Add(-captureWindow), now, capture.DefaultReadLimit)
	if len(events) == 0 {
		return JobSkipped, nil
	}

	sessions := engine.Cluster(events, d.cfg.Clustering.GapMinutes, d.cfg.Clustering.MinEvents)
	if len(sessions) == 0 {
		return JobSkipped, nil
	}
	if err := d.store.SaveSessionsByStart(sessions); err != nil {
		return JobError, err
	}
	return JobOK, nil
}

// runAnalyze infers intent for today's unanalyzed sessions, queues
// classification questions, and event-triggers proposal notifications for
// newly identified high-friction sessions.
func (d *Daemon) runAnalyze(ctx context.Context) (string, error) {
	if d.llm == nil {
		return JobSkipped, nil
	}

	now := d.now()
	sessions := d.store.LoadSessions(now)

	var questions []model.ClassificationQuestion
	analyzed := 0
	for i, s := range sessions {
		if s.InferredIntent != "" && s.InferredIntent != model.InferenceFailed {
			continue
		}
		updated, q := inference.InferIntent(ctx, d.llm, s)
		sessions[i] = updated
		analyzed++
		if q != nil {
			questions = append(questions, *q)
		}
	}
	if analyzed == 0 {
		return JobSkipped, nil
	}

	if err := d.store.SaveSessions(sessions, now); err != nil {
		return JobError, err
	}
	if len(questions) > 0 {
		if err := d.store.SaveQuestions(questions); err != nil {
			return JobError, err
		}
		_ = d.notify("WorkflowX - Your Input Needed",
			fmt.Sprintf("%d workflow classification %s waiting.", len(questions), plural(len(questions), "question")),
			"Run: workflowx validate")
	}

	d.notifyProposals(sessions)
	return JobOK, nil
}

// notifyProposals sends one notification covering all sessions that newly
// qualify for a replacement proposal, then records them in the dedup map.
// Proposal text itself is generated lazily by `workflowx propose`.
func (d *Daemon) notifyProposals(sessions []model.WorkflowSession) {
	state := ReadState(d.statePath, d.now())

	var due []model.WorkflowSession
	for _, s := range sessions {
		if ShouldPropose(s, state.ProposedSessionIDs) {
			due = append(due, s)
		}
	}
	if len(due) == 0 {
		return
	}

	MarkProposed(state.ProposedSessionIDs, due, d.now())
	_ = WriteState(state, d.statePath)

	var intents string
	for i, s := range due {
		if i >= 2 {
			break
		}
		if i > 0 {
			intents += ", "
		}
		intents += clip(s.InferredIntent, 30)
	}
	_ = d.notify(
		fmt.Sprintf("WorkflowX - %d High-Friction %s", len(due), plural(len(due), "Session")),
		intents,
		"Run: workflowx propose")
}

// runMeasure runs the adaptive ROI cycle for every outcome that is due.
func (d *Daemon) runMeasure(ctx context.Context) (string, error) {
	now := d.now()
	outcomes := d.store.LoadOutcomes()

	var due []model.ReplacementOutcome
	for _, o := range outcomes {
		if engine.ShouldMeasure(o, now) {
			due = append(due, o)
		}
	}
	if len(due) == 0 {
		return JobSkipped, nil
	}

	recent := d.store.LoadSessionRange(now.AddDate(0, 0, -engine.DefaultLookbackDays), now)
	for _, o := range due {
		measured := engine.MeasureOutcome(o, recent, engine.DefaultLookbackDays, now)
		if err := d.store.SaveOutcome(measured); err != nil {
			return JobError, err
		}
	}
	return JobOK, nil
}

// runBrief sends the morning summary notification.
func (d *Daemon) runBrief(ctx context.Context) (string, error) {
	now := d.now()
	sessions := d.store.LoadSessionRange(now.AddDate(0, 0, -1), now)
	outcomes := d.store.LoadOutcomes()
	pending := len(d.store.PendingQuestions())

	title, msg := FormatMorningBrief(sessions, outcomes, pending, now)
	_ = d.notify(title, msg, "WorkflowX Daily Brief")
	return JobOK, nil
}

// healthLoop probes the Screenpipe health endpoint at a fixed interval and
// notifies when capture is down or dropping frames.
func (d *Daemon) healthLoop(ctx context.Context) error {
	interval := time.Duration(d.cfg.Schedule.HealthCheckMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		healthy := d.checkScreenpipe(ctx)

		state := ReadState(d.statePath, d.now())
		state.ScreenpipeHealthy = healthy
		state.ScreenpipeLastChecked = d.now()
		status := JobOK
		if !healthy {
			status = JobError
		}
		state.Jobs["health"] = JobState{
			LastRun:    d.now(),
			NextRun:    d.now().Add(interval),
			LastStatus: status,
		}
		_ = WriteState(state, d.statePath)
	}
}

// frameDropThreshold is the drop rate above which vision capture is treated
// as broken even though the server answers.
const frameDropThreshold = 0.9

func (d *Daemon) checkScreenpipe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.Capture.ScreenpipeHost+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		_ = d.notify("WorkflowX - Screenpipe Offline",
			"Screenpipe not responding on its health port.",
			"Run: npx screenpipe@latest record")
		return false
	}
	defer resp.Body.Close()

	var health struct {
		FrameDropRate float64 `json:"frame_drop_rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	if health.FrameDropRate >= frameDropThreshold {
		_ = d.notify("WorkflowX - Screenpipe Issue",
			fmt.Sprintf("Frame drop rate: %.0f%%. Vision capture may be broken.", health.FrameDropRate*100),
			"Check ffmpeg setup")
		return false
	}
	return true
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
