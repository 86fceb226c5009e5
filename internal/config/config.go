package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level workflowx configuration.
type Config struct {
	Capture    Capture    `mapstructure:"capture"`
	Inference  Inference  `mapstructure:"inference"`
	Clustering Clustering `mapstructure:"clustering"`
	Schedule   Schedule   `mapstructure:"schedule"`
	Output     Output     `mapstructure:"output"`

	// HourlyRateUSD converts wasted minutes into dollar estimates.
	HourlyRateUSD float64 `mapstructure:"hourly_rate_usd"`

	// DataDir is where sessions, patterns, outcomes, and reports live.
	DataDir string `mapstructure:"data_dir"`
}

// Capture configures the local capture sources.
type Capture struct {
	ScreenpipeDB   string `mapstructure:"screenpipe_db"`
	ScreenpipeHost string `mapstructure:"screenpipe_host"`
	AWHost         string `mapstructure:"aw_host"`
}

// Inference configures the LLM provider used for intent classification.
// API keys come from the conventional environment variables only, never
// from the config file.
type Inference struct {
	Provider      string `mapstructure:"provider"`
	Model         string `mapstructure:"model"`
	OllamaBaseURL string `mapstructure:"ollama_base_url"`

	AnthropicAPIKey string `mapstructure:"-"`
	OpenAIAPIKey    string `mapstructure:"-"`
}

// Clustering defines the session clustering parameters.
type Clustering struct {
	GapMinutes float64 `mapstructure:"gap_minutes"`
	MinEvents  int     `mapstructure:"min_events"`
}

// Schedule defines the daemon timetable. Times are local-time "HH:MM".
type Schedule struct {
	CaptureTimes       []string `mapstructure:"capture_times"`
	AnalyzeTimes       []string `mapstructure:"analyze_times"`
	MeasureTime        string   `mapstructure:"measure_time"`
	BriefTime          string   `mapstructure:"brief_time"`
	BriefWeekdaysOnly  bool     `mapstructure:"brief_weekdays_only"`
	HealthCheckMinutes int      `mapstructure:"health_check_minutes"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed WORKFLOWX_ override file values (WORKFLOWX_CLUSTERING_GAP_MINUTES,
// WORKFLOWX_DATA_DIR, ...).
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("capture.screenpipe_db", DefaultScreenpipeDB)
	v.SetDefault("capture.screenpipe_host", DefaultScreenpipeHost)
	v.SetDefault("capture.aw_host", DefaultAWHost)
	v.SetDefault("inference.provider", DefaultLLMProvider)
	v.SetDefault("inference.model", DefaultLLMModel)
	v.SetDefault("inference.ollama_base_url", DefaultOllamaBaseURL)
	v.SetDefault("clustering.gap_minutes", DefaultClustering.GapMinutes)
	v.SetDefault("clustering.min_events", DefaultClustering.MinEvents)
	v.SetDefault("schedule.capture_times", DefaultSchedule.CaptureTimes)
	v.SetDefault("schedule.analyze_times", DefaultSchedule.AnalyzeTimes)
	v.SetDefault("schedule.measure_time", DefaultSchedule.MeasureTime)
	v.SetDefault("schedule.brief_time", DefaultSchedule.BriefTime)
	v.SetDefault("schedule.brief_weekdays_only", DefaultSchedule.BriefWeekdaysOnly)
	v.SetDefault("schedule.health_check_minutes", DefaultSchedule.HealthCheckMinutes)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("hourly_rate_usd", DefaultHourlyRateUSD)
	v.SetDefault("data_dir", DefaultDataDir)

	v.SetEnvPrefix("WORKFLOWX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Inference.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.Inference.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	switch cfg.Inference.Provider {
	case "anthropic", "openai", "ollama":
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Inference.Provider)
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.Capture.ScreenpipeDB = expandPath(cfg.Capture.ScreenpipeDB)

	return &cfg, nil
}

// EnsureDataDir creates the data directory tree if it does not exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o755)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
