package engine

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// FocusWindowSeconds is the width of one focus bucket. Capture layers may
// emit a frame per visible window per tick, so naive app-change counting
// inflates switches 10-50x; bucketing to a winner per window fixes that.
const FocusWindowSeconds = 30

const (
	// ocrCharsPerWeight converts OCR text length into activity weight: a
	// frame earns one weight point per 200 characters, plus a base point.
	ocrCharsPerWeight = 200

	// maxActivityWeight caps a single frame so one dense-text capture cannot
	// swamp a whole bucket.
	maxActivityWeight = 5
)

// activityWeight scores how much real work a frame likely represents, using
// OCR text volume as the proxy.
func activityWeight(e model.RawEvent) int {
	w := utf8.RuneCountInString(strings.TrimSpace(e.OCRText))/ocrCharsPerWeight + 1
	if w > maxActivityWeight {
		w = maxActivityWeight
	}
	return w
}

// appWeight accumulates activity weight for one app within a bucket,
// preserving first-seen order for deterministic tie-breaks.
type appWeight struct {
	app    string
	weight int
}

// focusBucket holds the weighted apps observed in one fixed time window.
type focusBucket struct {
	index int
	apps  []appWeight
}

func (b *focusBucket) add(app string, weight int) {
	for i := range b.apps {
		if b.apps[i].app == app {
			b.apps[i].weight += weight
			return
		}
	}
	b.apps = append(b.apps, appWeight{app: app, weight: weight})
}

// winner returns the app with the highest accumulated weight. Exact ties go
// to the first app that accumulated weight in the bucket.
func (b *focusBucket) winner() string {
	best := b.apps[0]
	for _, aw := range b.apps[1:] {
		if aw.weight > best.weight {
			best = aw
		}
	}
	return best.app
}

// Denoise converts an ordered, over-sampled event stream into a focus
// timeline. Events are partitioned into FocusWindowSeconds buckets anchored
// at the first event; each bucket's focused app is the one with the most
// OCR-weighted activity. A switch is counted whenever adjacent buckets have
// different winners (empty buckets are skipped, never contributing one).
//
// Returns the switch count and the distinct winning apps in order of first
// appearance. Events with an empty app name or the ambient-audio sentinel
// are discarded; if nothing survives, returns (0, nil).
func Denoise(events []model.RawEvent) (int, []string) {
	var buckets []*focusBucket
	var anchor time.Time
	started := false

	for _, e := range events {
		if e.AppName == "" || e.AppName == model.AudioAppName {
			continue
		}
		if !started {
			anchor = e.Timestamp
			started = true
		}
		idx := int(e.Timestamp.Sub(anchor).Seconds()) / FocusWindowSeconds

		var b *focusBucket
		if n := len(buckets); n > 0 && buckets[n-1].index == idx {
			b = buckets[n-1]
		} else {
			b = &focusBucket{index: idx}
			buckets = append(buckets, b)
		}
		b.add(e.AppName, activityWeight(e))
	}

	if len(buckets) == 0 {
		return 0, nil
	}

	switches := 0
	var apps []string
	seen := make(map[string]bool)
	prev := ""

	for i, b := range buckets {
		w := b.winner()
		if i > 0 && w != prev {
			switches++
		}
		prev = w
		if !seen[w] {
			seen[w] = true
			apps = append(apps, w)
		}
	}

	return switches, apps
}
