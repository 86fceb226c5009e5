// Package config provides configuration loading and defaults for workflowx.
package config

// DefaultConfigDir is the default location for workflowx configuration.
const DefaultConfigDir = "~/.config/workflowx"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultDataDir is the default location for captured data and analysis
// results. Everything stays on the local disk.
const DefaultDataDir = "~/.workflowx"

// Default capture sources.
const (
	DefaultScreenpipeDB   = "~/.screenpipe/db.sqlite"
	DefaultScreenpipeHost = "http://localhost:3030"
	DefaultAWHost         = "http://localhost:5600"
)

// Default inference settings.
const (
	DefaultLLMProvider   = "anthropic"
	DefaultLLMModel      = "claude-sonnet-4-6"
	DefaultOllamaBaseURL = "http://localhost:11434"
)

// DefaultClustering holds the default session clustering parameters.
var DefaultClustering = Clustering{
	GapMinutes: 5,
	MinEvents:  2,
}

// DefaultHourlyRateUSD prices wasted time for cost estimates.
const DefaultHourlyRateUSD = 75.0

// DefaultSchedule holds the default daemon timetable. Captures run just
// before each analysis pass so the pass sees a fresh window.
var DefaultSchedule = Schedule{
	CaptureTimes:       []string{"12:55", "17:55", "22:55"},
	AnalyzeTimes:       []string{"13:00", "18:00", "23:00"},
	MeasureTime:        "07:00",
	BriefTime:          "08:30",
	BriefWeekdaysOnly:  true,
	HealthCheckMinutes: 5,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
