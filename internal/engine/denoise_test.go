package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

func evAt(base time.Time, offsetSec int, app, ocr string) model.RawEvent {
	return model.RawEvent{
		Timestamp: base.Add(time.Duration(offsetSec) * time.Second),
		AppName:   app,
		OCRText:   ocr,
	}
}

func TestDenoiseEmpty(t *testing.T) {
	switches, apps := Denoise(nil)
	if switches != 0 || apps != nil {
		t.Errorf("Denoise(nil) = (%d, %v), want (0, nil)", switches, apps)
	}
}

func TestDenoiseDropsNoiseEvents(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		evAt(base, 0, "", "ignored"),
		evAt(base, 5, "audio", "transcript"),
		evAt(base, 10, "Slack", "hello"),
	}

	switches, apps := Denoise(events)
	if switches != 0 {
		t.Errorf("switches = %d, want 0", switches)
	}
	if len(apps) != 1 || apps[0] != "Slack" {
		t.Errorf("apps = %v, want [Slack]", apps)
	}
}

func TestDenoiseSingleBucketWinner(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// Both events land in bucket 0. Chrome's 600-char OCR gives it weight 4
	// against Slack's weight 1.
	events := []model.RawEvent{
		evAt(base, 0, "Slack", "hi"),
		evAt(base, 10, "Chrome", strings.Repeat("x", 600)),
	}

	switches, apps := Denoise(events)
	if switches != 0 {
		t.Errorf("switches = %d, want 0", switches)
	}
	if len(apps) != 1 || apps[0] != "Chrome" {
		t.Errorf("apps = %v, want [Chrome]", apps)
	}
}

func TestDenoiseTieKeepsFirstAccumulator(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []model.RawEvent{
		evAt(base, 0, "Slack", "a"),
		evAt(base, 10, "Chrome", "b"),
	}

	_, apps := Denoise(events)
	if len(apps) != 1 || apps[0] != "Slack" {
		t.Errorf("apps = %v, want [Slack] on equal weights", apps)
	}
}

func TestDenoiseCountsBucketTransitions(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// Four buckets: Slack, Chrome, Chrome, Slack. Adjacent differing winners
	// give two switches even though raw app changes would count three.
	events := []model.RawEvent{
		evAt(base, 0, "Slack", ""),
		evAt(base, 35, "Chrome", ""),
		evAt(base, 70, "Chrome", ""),
		evAt(base, 100, "Slack", ""),
	}

	switches, apps := Denoise(events)
	if switches != 2 {
		t.Errorf("switches = %d, want 2", switches)
	}
	want := []string{"Slack", "Chrome"}
	if len(apps) != len(want) {
		t.Fatalf("apps = %v, want %v", apps, want)
	}
	for i := range want {
		if apps[i] != want[i] {
			t.Errorf("apps[%d] = %q, want %q", i, apps[i], want[i])
		}
	}
}

func TestDenoiseSkipsEmptyBuckets(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// Buckets 0 and 10 both resolve to Slack; the gap between them must not
	// manufacture switches.
	events := []model.RawEvent{
		evAt(base, 0, "Slack", ""),
		evAt(base, 300, "Slack", ""),
	}

	switches, _ := Denoise(events)
	if switches != 0 {
		t.Errorf("switches = %d, want 0 across empty buckets", switches)
	}
}

func TestDenoiseSuppressesRapidFlicker(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// Twelve alternating frames inside 60 seconds. Raw change counting would
	// report 11 switches; bucketing collapses each window to one winner.
	var events []model.RawEvent
	for i := 0; i < 12; i++ {
		app := "Slack"
		if i%2 == 1 {
			app = "Chrome"
		}
		events = append(events, evAt(base, i*5, app, ""))
	}

	switches, _ := Denoise(events)
	if switches > 1 {
		t.Errorf("switches = %d, want at most 1 after denoising", switches)
	}
}

func TestActivityWeightCap(t *testing.T) {
	e := model.RawEvent{OCRText: strings.Repeat("y", 5000)}
	if w := activityWeight(e); w != maxActivityWeight {
		t.Errorf("activityWeight = %d, want cap %d", w, maxActivityWeight)
	}
	if w := activityWeight(model.RawEvent{OCRText: "   "}); w != 1 {
		t.Errorf("activityWeight(whitespace) = %d, want 1", w)
	}
}
