// Package model defines the core domain types for workflowx: raw capture
// events, workflow sessions, recurring patterns, friction trends, and
// replacement outcomes. These are plain value types; all behavior lives in
// the engine and surrounding packages.
package model

import "time"

// EventSource identifies which capture layer produced a raw event.
type EventSource string

const (
	// SourceScreenpipe marks events read from Screenpipe's local database.
	SourceScreenpipe EventSource = "screenpipe"

	// SourceActivityWatch marks events read from the ActivityWatch REST API.
	SourceActivityWatch EventSource = "activitywatch"

	// SourceManual marks events entered by the user.
	SourceManual EventSource = "manual"

	// SourceCustom marks events from user-supplied adapters.
	SourceCustom EventSource = "custom"
)

// AudioAppName is the sentinel app name used for ambient audio transcription
// events. The denoiser excludes these from the focus timeline.
const AudioAppName = "audio"

// RawEvent is a single observed sample from the capture layer: one screen
// frame, one window change, or one audio transcription. Immutable once
// created; adapters normalize timestamps to UTC before handoff.
type RawEvent struct {
	Timestamp       time.Time         `json:"timestamp"`
	Source          EventSource       `json:"source"`
	AppName         string            `json:"app_name"`
	WindowTitle     string            `json:"window_title"`
	URL             string            `json:"url"`
	OCRText         string            `json:"ocr_text"`
	DurationSeconds float64           `json:"duration_seconds"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}
