// Package settings holds the tool's own configuration file. This is the
// linter's runtime setup (logging, telemetry, limits), not the documents
// it validates.
package settings

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration strings like "5s" or "1m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return fmt.Errorf("duration value node is nil")
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// LokiConfig configures optional Loki integration for logging.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Labels  map[string]string `yaml:"labels"`
}

// LoggingConfig encapsulates logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format,omitempty"`
	Loki   LokiConfig `yaml:"loki"`
}

// TelemetryConfig configures metric exporters.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider,omitempty"`
}

// LimitsConfig caps accepted document size.
type LimitsConfig struct {
	MaxBytes    int64 `yaml:"max_bytes,omitempty"`
	MaxEntities int   `yaml:"max_entities,omitempty"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Interval Duration `yaml:"interval,omitempty"`
}

// Settings is the root configuration structure for the tool.
type Settings struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Limits    LimitsConfig    `yaml:"limits"`
	Watch     WatchConfig     `yaml:"watch"`
}

// Default returns the settings used when no file is given.
func Default() *Settings {
	return &Settings{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Watch:   WatchConfig{Interval: Duration{Duration: time.Second}},
	}
}

// Load reads and decodes a settings file from disk. Missing optional
// values fall back to the defaults.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if cfg.Watch.Interval.Duration <= 0 {
		cfg.Watch.Interval = Duration{Duration: time.Second}
	}
	return cfg, nil
}
