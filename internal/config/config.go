// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// Config captures every configuration knob, loaded from an optional YAML
// file with PWS_* environment overrides.
type Config struct {
	BaseURL   string          `mapstructure:"base_url"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Render    RenderConfig    `mapstructure:"render"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Selectors SelectorsConfig `mapstructure:"selectors"`
	Output    OutputConfig    `mapstructure:"output"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Database  DatabaseConfig  `mapstructure:"database"`
	PubSub    PubSubConfig    `mapstructure:"pubsub"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// BrowserConfig controls the chromedp render backend.
type BrowserConfig struct {
	ExecPath   string        `mapstructure:"exec_path"`
	Headless   bool          `mapstructure:"headless"`
	UserAgent  string        `mapstructure:"user_agent"`
	Settle     time.Duration `mapstructure:"settle"`
	NavTimeout time.Duration `mapstructure:"nav_timeout"`
}

// RenderConfig selects the render backend.
type RenderConfig struct {
	Backend string `mapstructure:"backend"`
}

// Render backend names.
const (
	BackendChromedp = "chromedp"
	BackendStatic   = "static"
)

// RetryConfig bounds the per-date fetch loop.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Wait        time.Duration `mapstructure:"wait"`
}

// SelectorsConfig overrides the markup selectors the extractor depends on.
type SelectorsConfig struct {
	Table        string `mapstructure:"table"`
	ValueClass   string `mapstructure:"value_class"`
	NoValueClass string `mapstructure:"no_value_class"`
}

// Selectors converts the config section into the extractor's form.
func (c SelectorsConfig) Selectors() wunderground.Selectors {
	return wunderground.Selectors{
		Table:        c.Table,
		ValueClass:   c.ValueClass,
		NoValueClass: c.NoValueClass,
	}
}

// OutputConfig sets where CSV files land.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// ArchiveConfig controls raw-page archival. An empty backend disables it.
type ArchiveConfig struct {
	Backend  string `mapstructure:"backend"`
	LocalDir string `mapstructure:"local_dir"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
}

// Archive backend names.
const (
	ArchiveMemory = "memory"
	ArchiveLocal  = "local"
	ArchiveGCS    = "gcs"
)

// DatabaseConfig controls the optional Postgres observation store. An empty
// DSN disables it.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// PubSubConfig controls the optional run-summary notifier. Empty values
// disable it.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Topic     string `mapstructure:"topic"`
}

// MetricsConfig controls the optional ops HTTP listener. An empty address
// disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// WatchConfig schedules the daily watch command.
type WatchConfig struct {
	At       string `mapstructure:"at"`
	Timezone string `mapstructure:"timezone"`
}

// Load builds a Config from disk and environment. A .env file in the working
// directory is applied to the environment first when present.
func Load(path string) (Config, error) {
	// Missing .env is the normal case; only real env files can fail later
	// through viper.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := wunderground.DefaultSelectors()

	v.SetDefault("base_url", "https://www.wunderground.com")
	v.SetDefault("browser.exec_path", "/usr/bin/chromium")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36")
	v.SetDefault("browser.settle", "3s")
	v.SetDefault("browser.nav_timeout", "45s")
	v.SetDefault("render.backend", BackendChromedp)
	v.SetDefault("retry.max_attempts", 4)
	v.SetDefault("retry.wait", "5s")
	v.SetDefault("selectors.table", def.Table)
	v.SetDefault("selectors.value_class", def.ValueClass)
	v.SetDefault("selectors.no_value_class", def.NoValueClass)
	v.SetDefault("output.dir", ".")
	v.SetDefault("archive.local_dir", "data/raw")
	v.SetDefault("archive.prefix", "raw")
	v.SetDefault("logging.development", true)
	v.SetDefault("watch.at", "06:30")
	v.SetDefault("watch.timezone", "UTC")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must be set")
	}
	switch c.Render.Backend {
	case BackendChromedp:
		if strings.TrimSpace(c.Browser.ExecPath) == "" {
			return fmt.Errorf("browser.exec_path must be set for the chromedp backend")
		}
	case BackendStatic:
	default:
		return fmt.Errorf("render.backend must be %q or %q, got %q",
			BackendChromedp, BackendStatic, c.Render.Backend)
	}
	if c.Browser.Settle <= 0 {
		return fmt.Errorf("browser.settle must be > 0")
	}
	if c.Browser.NavTimeout <= 0 {
		return fmt.Errorf("browser.nav_timeout must be > 0")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be > 0")
	}
	if c.Retry.Wait < 0 {
		return fmt.Errorf("retry.wait must be >= 0")
	}
	switch c.Archive.Backend {
	case "", ArchiveMemory:
	case ArchiveLocal:
		if c.Archive.LocalDir == "" {
			return fmt.Errorf("archive.local_dir must be set for the local archive")
		}
	case ArchiveGCS:
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket must be set for the gcs archive")
		}
	default:
		return fmt.Errorf("unknown archive.backend %q", c.Archive.Backend)
	}
	if (c.PubSub.ProjectID == "") != (c.PubSub.Topic == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic must be set together")
	}
	if err := validateWatchAt(c.Watch.At); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Watch.Timezone); err != nil {
		return fmt.Errorf("watch.timezone: %w", err)
	}
	return nil
}

func validateWatchAt(at string) error {
	if _, err := time.Parse("15:04", at); err != nil {
		return fmt.Errorf("watch.at must be HH:MM, got %q", at)
	}
	return nil
}
