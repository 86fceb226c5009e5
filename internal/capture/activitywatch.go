package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// Bucket prefixes read from ActivityWatch, in priority order.
var awBucketPrefixes = []string{
	"aw-watcher-window_", // active window: app + title
	"aw-watcher-afk_",    // AFK detection
	"aw-watcher-web-",    // browser URLs
}

// ActivityWatch reads events from a local ActivityWatch server.
type ActivityWatch struct {
	host   string
	client *http.Client
}

// NewActivityWatch creates an adapter for the server at host
// (default http://localhost:5600).
func NewActivityWatch(host string) *ActivityWatch {
	return &ActivityWatch{
		host:   strings.TrimRight(host, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *ActivityWatch) Name() string { return "activitywatch" }

// Available reports whether the ActivityWatch server responds.
func (a *ActivityWatch) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.host+"/api/0/info", nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// awEvent is the wire shape of one ActivityWatch event. Data values are
// mixed types across watchers (web events carry booleans), so fields are
// extracted individually.
type awEvent struct {
	Timestamp string         `json:"timestamp"`
	Duration  float64        `json:"duration"`
	Data      map[string]any `json:"data"`
}

func (e awEvent) str(key string) string {
	if v, ok := e.Data[key].(string); ok {
		return v
	}
	return ""
}

// ReadEvents reads the window, AFK, and web buckets within the time window,
// oldest first. A bucket that fails to read only loses its own events.
func (a *ActivityWatch) ReadEvents(ctx context.Context, since, until time.Time, limit int) ([]model.RawEvent, error) {
	buckets, err := a.listBuckets(ctx)
	if err != nil {
		return nil, err
	}

	var all []model.RawEvent
	for _, prefix := range awBucketPrefixes {
		bucketID := findBucket(prefix, buckets)
		if bucketID == "" {
			continue
		}
		raw, err := a.readBucket(ctx, bucketID, since, until, limit)
		if err != nil {
			continue
		}
		for _, e := range raw {
			if converted, ok := convertAWEvent(e, bucketID); ok {
				all = append(all, converted)
			}
		}
	}

	sortByTimestamp(all)
	return all, nil
}

func (a *ActivityWatch) listBuckets(ctx context.Context) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.host+"/api/0/buckets/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing buckets: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing buckets: status %d", resp.StatusCode)
	}

	var buckets map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buckets); err != nil {
		return nil, fmt.Errorf("decoding buckets: %w", err)
	}
	return buckets, nil
}

func (a *ActivityWatch) readBucket(ctx context.Context, bucketID string, since, until time.Time, limit int) ([]awEvent, error) {
	q := url.Values{}
	q.Set("start", since.Format(time.RFC3339))
	q.Set("end", until.Format(time.RFC3339))
	q.Set("limit", strconv.Itoa(limit))

	u := a.host + "/api/0/buckets/" + url.PathEscape(bucketID) + "/events?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reading bucket %s: status %d", bucketID, resp.StatusCode)
	}

	var events []awEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

func findBucket(prefix string, buckets map[string]json.RawMessage) string {
	for id := range buckets {
		if strings.HasPrefix(id, prefix) {
			return id
		}
	}
	return ""
}

// convertAWEvent maps one ActivityWatch event onto a RawEvent. Window events
// carry app and title; web events carry a URL and map to the "browser" app;
// AFK events become "afk:<status>" markers.
func convertAWEvent(e awEvent, bucketID string) (model.RawEvent, bool) {
	ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return model.RawEvent{}, false
	}

	app := e.str("app")
	title := e.str("title")
	urlStr := e.str("url")
	if urlStr != "" && app == "" {
		app = "browser"
	}
	if status := e.str("status"); status != "" && app == "" {
		app = "afk:" + status
	}

	return model.RawEvent{
		Timestamp:       ts,
		Source:          model.SourceActivityWatch,
		AppName:         app,
		WindowTitle:     title,
		URL:             urlStr,
		DurationSeconds: e.Duration,
		Metadata:        map[string]string{"bucket": bucketID},
	}, true
}
