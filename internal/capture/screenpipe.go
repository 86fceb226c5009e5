package capture

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// Screenpipe reads OCR frames and audio transcriptions from Screenpipe's
// local SQLite database. The database is opened read-only per read so a
// long-lived daemon never holds a lock against the capture process.
type Screenpipe struct {
	dbPath string
}

// NewScreenpipe creates an adapter for the database at dbPath.
func NewScreenpipe(dbPath string) *Screenpipe {
	return &Screenpipe{dbPath: dbPath}
}

func (s *Screenpipe) Name() string { return "screenpipe" }

// Available reports whether the Screenpipe database file exists.
func (s *Screenpipe) Available(ctx context.Context) bool {
	_, err := os.Stat(s.dbPath)
	return err == nil
}

// ReadEvents reads OCR and audio events within the window, oldest first.
// A missing table is not an error; Screenpipe creates tables lazily on
// first capture.
func (s *Screenpipe) ReadEvents(ctx context.Context, since, until time.Time, limit int) ([]model.RawEvent, error) {
	db, err := sql.Open("sqlite", "file:"+s.dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening screenpipe db: %w", err)
	}
	defer db.Close()

	var events []model.RawEvent

	ocr, err := s.readOCRFrames(ctx, db, since, until, limit)
	if err == nil {
		events = append(events, ocr...)
	}

	audio, err := s.readAudio(ctx, db, since, until, limit)
	if err == nil {
		events = append(events, audio...)
	}

	sortByTimestamp(events)
	return events, nil
}

func (s *Screenpipe) readOCRFrames(ctx context.Context, db *sql.DB, since, until time.Time, limit int) ([]model.RawEvent, error) {
	const q = `
		SELECT f.timestamp, f.app_name, f.window_name, ot.text
		FROM ocr_text ot
		JOIN frames f ON ot.frame_id = f.id
		WHERE f.timestamp >= ? AND f.timestamp <= ?
		ORDER BY f.timestamp DESC LIMIT ?`

	rows, err := db.QueryContext(ctx, q, since.Format(time.RFC3339), until.Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.RawEvent
	for rows.Next() {
		var ts string
		var app, window, text sql.NullString
		if err := rows.Scan(&ts, &app, &window, &text); err != nil {
			return nil, err
		}
		when, err := parseTimestamp(ts)
		if err != nil {
			continue
		}
		events = append(events, model.RawEvent{
			Timestamp:   when,
			Source:      model.SourceScreenpipe,
			AppName:     app.String,
			WindowTitle: window.String,
			OCRText:     text.String,
		})
	}
	return events, rows.Err()
}

func (s *Screenpipe) readAudio(ctx context.Context, db *sql.DB, since, until time.Time, limit int) ([]model.RawEvent, error) {
	const q = `
		SELECT timestamp, transcription, device
		FROM audio_transcriptions
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC LIMIT ?`

	rows, err := db.QueryContext(ctx, q, since.Format(time.RFC3339), until.Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.RawEvent
	for rows.Next() {
		var ts string
		var transcription, device sql.NullString
		if err := rows.Scan(&ts, &transcription, &device); err != nil {
			return nil, err
		}
		when, err := parseTimestamp(ts)
		if err != nil {
			continue
		}
		events = append(events, model.RawEvent{
			Timestamp:   when,
			Source:      model.SourceScreenpipe,
			AppName:     model.AudioAppName,
			WindowTitle: device.String,
			OCRText:     transcription.String,
			Metadata:    map[string]string{"type": "audio_transcription"},
		})
	}
	return events, rows.Err()
}

// parseTimestamp accepts the RFC 3339 variants Screenpipe writes.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
