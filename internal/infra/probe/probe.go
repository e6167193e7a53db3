// Package probe determines track durations ahead of playback.
//
// Probing is a capability: when it is disabled or fails, tracks report an
// unknown duration and the player degrades gracefully (no progress display,
// no seeking) instead of failing the load.
package probe

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hrko/mp3box/internal/infra/config"
)

// Prober reports the duration of an audio file. A zero duration with a nil
// error means the length could not be determined.
type Prober interface {
	Probe(path string) (time.Duration, error)
	Name() string
}

// Disabled is the prober used when duration probing is turned off; every
// track reports an unknown length.
type Disabled struct{}

// Probe always reports an unknown duration.
func (Disabled) Probe(string) (time.Duration, error) {
	return 0, nil
}

// Name returns the prober name.
func (Disabled) Name() string {
	return "none"
}

// NewFromConfig builds the prober selected in the configuration.
func NewFromConfig(cfg *config.Config) (Prober, error) {
	switch cfg.Probe.Type {
	case "decode", "":
		return NewDecodeProber(cfg.Probe.Settings)
	case "none":
		return Disabled{}, nil
	default:
		return nil, errors.Newf("unsupported probe type: %s", cfg.Probe.Type)
	}
}
