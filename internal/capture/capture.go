// Package capture reads raw activity events from local capture tools.
// Workflowx never records the screen itself; it consumes the output of
// Screenpipe's SQLite database and ActivityWatch's REST API.
package capture

import (
	"context"
	"sort"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// Adapter is a source of raw activity events.
type Adapter interface {
	// Name identifies the adapter in status output.
	Name() string

	// Available reports whether the underlying capture tool is reachable.
	Available(ctx context.Context) bool

	// ReadEvents returns events in [since, until], oldest first, at most
	// limit per underlying source table or bucket.
	ReadEvents(ctx context.Context, since, until time.Time, limit int) ([]model.RawEvent, error)
}

// DefaultReadLimit bounds a single read per source table or bucket.
const DefaultReadLimit = 1000

// ReadAll gathers events from every available adapter and merges them into
// one chronological stream. Unavailable adapters are skipped, and a failing
// adapter only loses its own events.
func ReadAll(ctx context.Context, adapters []Adapter, since, until time.Time, limit int) []model.RawEvent {
	var all []model.RawEvent
	for _, a := range adapters {
		if !a.Available(ctx) {
			continue
		}
		events, err := a.ReadEvents(ctx, since, until, limit)
		if err != nil {
			continue
		}
		all = append(all, events...)
	}

	sortByTimestamp(all)
	return all
}

func sortByTimestamp(events []model.RawEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
