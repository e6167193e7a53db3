// Package audio implements the playback engine on top of the beep speaker.
package audio

import (
	"math"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	zlog "github.com/rs/zerolog/log"
)

// bufferLength sizes the speaker buffer; a tenth of a second keeps
// pause and seek latency low without audible underruns.
const bufferLength = time.Second / 10

// Engine plays one mp3 stream at a time through the system speaker.
// The player serializes calls; the internal mutex only guards fields shared
// with the speaker's end-of-stream callback. That callback runs under the
// speaker lock and takes e.mu, so no method may touch the speaker while
// holding e.mu.
type Engine struct {
	mu sync.Mutex

	speakerRate beep.SampleRate
	initialized bool

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format

	ctrl   *beep.Ctrl
	volume *effects.Volume
	level  float64 // Last requested fraction, reapplied on every restart

	busy bool
}

// New creates an engine. The speaker is initialized lazily on the first
// load so constructing an engine never touches the audio device.
func New() *Engine {
	return &Engine{level: 1.0}
}

// Load opens and decodes path, replacing any currently loaded stream and
// stopping output.
func (e *Engine) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return errors.Wrap(err, "failed to decode mp3")
	}

	e.mu.Lock()
	initialized := e.initialized
	e.mu.Unlock()

	if !initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(bufferLength)); err != nil {
			streamer.Close()
			f.Close()
			return errors.Wrap(err, "failed to initialize speaker")
		}
	} else {
		speaker.Clear()
	}

	e.mu.Lock()
	if !e.initialized {
		e.speakerRate = format.SampleRate
		e.initialized = true
	}
	oldStreamer, oldFile := e.streamer, e.file
	e.streamer = streamer
	e.file = f
	e.format = format
	e.ctrl = nil
	e.volume = nil
	e.busy = false
	e.mu.Unlock()

	closeStream(oldStreamer, oldFile)
	return nil
}

// Play starts the loaded stream at the given position. Streams whose sample
// rate differs from the speaker rate are resampled on the fly.
func (e *Engine) Play(start time.Duration) error {
	e.mu.Lock()
	streamer := e.streamer
	format := e.format
	speakerRate := e.speakerRate
	level := e.level
	e.mu.Unlock()

	if streamer == nil {
		return errors.New("no stream loaded")
	}

	// Nothing pulls samples once the speaker is cleared, so seeking the
	// streamer is safe without further locking.
	speaker.Clear()

	pos := format.SampleRate.N(start)
	if pos < 0 {
		pos = 0
	}
	if pos >= streamer.Len() {
		pos = streamer.Len() - 1
	}
	if err := streamer.Seek(pos); err != nil {
		return errors.Wrap(err, "failed to seek stream")
	}

	var src beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		src = beep.Resample(4, format.SampleRate, speakerRate, src)
	}
	ctrl := &beep.Ctrl{Streamer: src}
	volume := &effects.Volume{Streamer: ctrl, Base: 2}
	setLevel(volume, level)

	e.mu.Lock()
	e.ctrl = ctrl
	e.volume = volume
	e.busy = true
	e.mu.Unlock()

	speaker.Play(beep.Seq(volume, beep.Callback(func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	})))
	return nil
}

// Pause suspends output without losing the stream position.
func (e *Engine) Pause() {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
}

// Unpause resumes a paused stream.
func (e *Engine) Unpause() {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()
	if ctrl == nil {
		return
	}
	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()
}

// Stop clears output. The loaded stream stays loaded so a later Play can
// restart it.
func (e *Engine) Stop() {
	e.mu.Lock()
	initialized := e.initialized
	e.ctrl = nil
	e.volume = nil
	e.mu.Unlock()

	if initialized {
		speaker.Clear()
	}

	// Clearing the speaker removes the sequence without running its
	// callback, so the flag has to be dropped here.
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

// SetVolume sets the output volume as a fraction of full scale.
func (e *Engine) SetVolume(fraction float64) {
	e.mu.Lock()
	e.level = fraction
	vol := e.volume
	e.mu.Unlock()
	if vol == nil {
		return
	}
	speaker.Lock()
	setLevel(vol, fraction)
	speaker.Unlock()
}

// Busy reports whether the speaker is still producing samples for the
// current stream.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Close stops output and releases the loaded stream.
func (e *Engine) Close() {
	e.mu.Lock()
	initialized := e.initialized
	streamer, file := e.streamer, e.file
	e.streamer = nil
	e.file = nil
	e.ctrl = nil
	e.volume = nil
	e.busy = false
	e.mu.Unlock()

	if initialized {
		speaker.Clear()
	}
	closeStream(streamer, file)
}

// closeStream releases a decoded stream and its backing file.
func closeStream(streamer beep.StreamSeekCloser, file *os.File) {
	if streamer != nil {
		if err := streamer.Close(); err != nil {
			zlog.Debug().Msgf("audio: failed to close streamer: %v", err)
		}
	}
	if file != nil {
		file.Close()
	}
}

// setLevel maps a linear fraction onto the exponential volume effect.
func setLevel(v *effects.Volume, fraction float64) {
	if fraction <= 0 {
		v.Silent = true
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	v.Silent = false
	v.Volume = math.Log2(fraction)
}
