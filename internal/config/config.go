// Package config loads lifesync settings from defaults, a YAML file,
// LIFESYNC_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/alexanderramin/lifesync/internal/gesture"
)

type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Timeline TimelineConfig `yaml:"timeline" mapstructure:"timeline"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
}

type DatabaseConfig struct {
	// Path is the SQLite file (default: ~/.lifesync/lifesync.db).
	Path string `yaml:"path" mapstructure:"path"`
}

// TimelineConfig describes the pixel geometry gestures are measured in.
type TimelineConfig struct {
	PixelsPerMinute float64 `yaml:"pixels_per_minute" mapstructure:"pixels_per_minute"`
	TapThresholdPx  float64 `yaml:"tap_threshold_px" mapstructure:"tap_threshold_px"`
	// RowsPerHour is the terminal board's vertical resolution.
	RowsPerHour int `yaml:"rows_per_hour" mapstructure:"rows_per_hour"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultsConfig holds the colors new blocks get per timeline.
type DefaultsConfig struct {
	PlanColor   string `yaml:"plan_color" mapstructure:"plan_color"`
	ActualColor string `yaml:"actual_color" mapstructure:"actual_color"`
}

func DefaultConfig() *Config {
	dbPath := filepath.Join(".lifesync", "lifesync.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, dbPath)
	}
	return &Config{
		Database: DatabaseConfig{Path: dbPath},
		Timeline: TimelineConfig{
			PixelsPerMinute: 1.6,
			TapThresholdPx:  10,
			RowsPerHour:     4,
		},
		Logging: LoggingConfig{Level: "warn", Format: "console"},
		Defaults: DefaultsConfig{
			PlanColor:   "#6366f1",
			ActualColor: "#3b82f6",
		},
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Timeline.PixelsPerMinute <= 0 {
		return fmt.Errorf("timeline.pixels_per_minute must be positive, got %v", c.Timeline.PixelsPerMinute)
	}
	if c.Timeline.TapThresholdPx < 0 {
		return fmt.Errorf("timeline.tap_threshold_px must not be negative, got %v", c.Timeline.TapThresholdPx)
	}
	switch c.Timeline.RowsPerHour {
	case 1, 2, 4, 6, 12:
	default:
		return fmt.Errorf("timeline.rows_per_hour must divide an hour into whole 5-minute rows (1, 2, 4, 6 or 12), got %d", c.Timeline.RowsPerHour)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	for key, color := range map[string]string{
		"defaults.plan_color":   c.Defaults.PlanColor,
		"defaults.actual_color": c.Defaults.ActualColor,
	} {
		if !hexColor.MatchString(color) {
			return fmt.Errorf("%s must be a #rrggbb color, got %q", key, color)
		}
	}
	return nil
}

// Scale is the gesture scale the timeline settings describe.
func (c *Config) Scale() gesture.Scale {
	return gesture.Scale{
		PixelsPerMinute: c.Timeline.PixelsPerMinute,
		TapThresholdPx:  c.Timeline.TapThresholdPx,
	}
}
