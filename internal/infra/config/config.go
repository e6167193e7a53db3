// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Player  PlayerConfig  `yaml:"player"`
	Library LibraryConfig `yaml:"library"`
	Probe   ProbeConfig   `yaml:"probe"`
	Hooks   HooksConfig   `yaml:"hooks"`
}

// PlayerConfig represents playback control configuration.
type PlayerConfig struct {
	TickIntervalMs int     `yaml:"tick_interval_ms" default:"500" validate:"gte=100,lte=5000"`
	SeekStepSec    int     `yaml:"seek_step_sec" default:"5" validate:"gte=1,lte=60"`
	EndGuardSec    int     `yaml:"end_guard_sec" default:"1" validate:"gte=0,lte=10"`
	InitialVolume  float64 `yaml:"initial_volume" default:"1.0" validate:"gte=0,lte=1"`
}

// LibraryConfig represents music library configuration.
type LibraryConfig struct {
	MusicDir string `yaml:"music_dir"` // Loaded as a folder playlist on startup when set
}

// ProbeConfig represents duration probing configuration.
type ProbeConfig struct {
	Type     string         `yaml:"type" default:"decode" validate:"oneof=decode none"`
	Settings map[string]any `yaml:"settings"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	return finalize(&cfg)
}

// Default builds a configuration from defaults and environment variables,
// used when no config file is given.
func Default() (*Config, error) {
	return finalize(&Config{})
}

func finalize(cfg *Config) (*Config, error) {
	cfg.overrideFromEnv()

	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("MP3BOX_MUSIC_DIR"); v != "" {
		c.Library.MusicDir = v
	}
	if v := os.Getenv("MP3BOX_PROBE"); v != "" {
		c.Probe.Type = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// TickInterval returns the UI tick period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Player.TickIntervalMs) * time.Millisecond
}

// SeekStep returns the rewind/fast-forward step.
func (c *Config) SeekStep() time.Duration {
	return time.Duration(c.Player.SeekStepSec) * time.Second
}

// EndGuard returns the seek clamp margin before end of track.
func (c *Config) EndGuard() time.Duration {
	return time.Duration(c.Player.EndGuardSec) * time.Second
}
