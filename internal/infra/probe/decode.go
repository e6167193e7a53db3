package probe

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// DecodeProberConfig holds decode prober settings.
type DecodeProberConfig struct {
	// Files larger than this are not probed and report an unknown duration.
	// 0 disables the guard.
	MaxFileMB int `yaml:"max_file_mb" mapstructure:"max_file_mb" default:"0" validate:"gte=0"`
}

// DecodeProber measures the duration by decoding the mp3 frame chain, which
// is exact regardless of VBR encoding.
type DecodeProber struct {
	config *DecodeProberConfig
}

// NewDecodeProber creates a DecodeProber from raw settings.
func NewDecodeProber(settings map[string]any) (*DecodeProber, error) {
	var config DecodeProberConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &DecodeProber{config: &config}, nil
}

// Probe returns the exact duration of the file at path.
func (p *DecodeProber) Probe(path string) (time.Duration, error) {
	if p.config.MaxFileMB > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return 0, errors.Wrap(err, "failed to stat file")
		}
		if info.Size() > int64(p.config.MaxFileMB)*1024*1024 {
			zlog.Debug().Msgf("probe: %s exceeds %d MB, reporting unknown duration", path, p.config.MaxFileMB)
			return 0, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		return 0, errors.Wrap(err, "failed to decode mp3")
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// Name returns the prober name.
func (p *DecodeProber) Name() string {
	return "decode"
}
