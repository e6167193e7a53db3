package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_AppliesDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Player.TickIntervalMs)
	assert.Equal(t, 5, cfg.Player.SeekStepSec)
	assert.Equal(t, 1, cfg.Player.EndGuardSec)
	assert.Equal(t, 1.0, cfg.Player.InitialVolume)
	assert.Equal(t, "decode", cfg.Probe.Type)

	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, 5*time.Second, cfg.SeekStep())
	assert.Equal(t, time.Second, cfg.EndGuard())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mp3box.yaml")
	data := `
player:
  tick_interval_ms: 250
  seek_step_sec: 10
  initial_volume: 0.5
library:
  music_dir: /music
probe:
  type: none
hooks:
  on_started:
    - notify-send mp3box started
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Player.TickIntervalMs)
	assert.Equal(t, 10, cfg.Player.SeekStepSec)
	assert.Equal(t, 0.5, cfg.Player.InitialVolume)
	assert.Equal(t, "/music", cfg.Library.MusicDir)
	assert.Equal(t, "none", cfg.Probe.Type)
	assert.Len(t, cfg.Hooks.OnStarted, 1)
	// Unset fields still get defaults
	assert.Equal(t, 1, cfg.Player.EndGuardSec)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "tick interval too small",
			mutate:  func(c *Config) { c.Player.TickIntervalMs = 50 },
			wantErr: true,
		},
		{
			name:    "volume above full scale",
			mutate:  func(c *Config) { c.Player.InitialVolume = 1.5 },
			wantErr: true,
		},
		{
			name:    "unknown probe type",
			mutate:  func(c *Config) { c.Probe.Type = "magic" },
			wantErr: true,
		},
		{
			name:    "seek step out of range",
			mutate:  func(c *Config) { c.Player.SeekStepSec = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MP3BOX_MUSIC_DIR", "/env/music")
	t.Setenv("MP3BOX_PROBE", "none")

	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "/env/music", cfg.Library.MusicDir)
	assert.Equal(t, "none", cfg.Probe.Type)
}
