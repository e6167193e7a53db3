package player

import (
	"context"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/hrko/mp3box/internal/domain/playlist"
	"github.com/hrko/mp3box/internal/domain/track"
	"github.com/hrko/mp3box/internal/infra/library"
	"github.com/hrko/mp3box/internal/infra/tags"
)

// Errors
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoTrackLoaded     = errors.New("no track loaded")
	ErrNoPlaylist        = errors.New("no playlist loaded")
)

// Engine is the audio backend the player drives. Implementations need not
// be safe for concurrent use; the player serializes all calls.
type Engine interface {
	Load(path string) error
	Play(start time.Duration) error
	Pause()
	Unpause()
	Stop()
	SetVolume(fraction float64)
	Busy() bool
}

// Prober determines a track's duration ahead of playback. A zero duration
// with a nil error means the length could not be determined; the player
// treats that as unknown and disables progress and seeking for the track.
type Prober interface {
	Probe(path string) (time.Duration, error)
}

// Config holds player tuning knobs.
type Config struct {
	SeekStep      time.Duration // Step for Rewind/FastForward (default 5s)
	EndGuard      time.Duration // Seek clamp margin before end of track (default 1s)
	InitialVolume float64       // Initial volume fraction, 0..1 (default 1)
}

// Player is the single source of truth for what is playing and how far
// along it is, independent of any UI refresh cadence. Elapsed time is
// derived on demand from an offset plus the running segment clock, never
// stored as a continuously updated field.
type Player struct {
	mu sync.Mutex

	engine Engine
	prober Prober
	config Config

	now func() time.Time // Injectable wall clock
	rng *rand.Rand       // Drives playlist shuffling

	current *track.Track
	list    *playlist.Playlist // nil in single-file mode
	state   State
	volume  float64

	// Clock snapshot: elapsed = offset + (now - segmentStart) while playing,
	// offset exactly while paused, zero while stopped.
	offset       time.Duration
	segmentStart time.Time // Zero unless playing

	// Events
	eventCh chan Event
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a player on top of the given engine and duration prober.
// The prober may be nil, in which case every track has an unknown length.
func New(engine Engine, prober Prober, config Config) *Player {
	if config.SeekStep <= 0 {
		config.SeekStep = 5 * time.Second
	}
	if config.EndGuard <= 0 {
		config.EndGuard = time.Second
	}
	volume := clamp01(config.InitialVolume)
	if config.InitialVolume == 0 {
		volume = 1.0
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		engine:  engine,
		prober:  prober,
		config:  config,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		state:   StateStopped,
		volume:  volume,
		eventCh: make(chan Event, 10),
		ctx:     ctx,
		cancel:  cancel,
	}
	engine.SetVolume(volume)
	return p
}

// Events returns the event channel.
func (p *Player) Events() <-chan Event {
	return p.eventCh
}

// LoadSingle loads one file and leaves the player stopped. Any folder
// playlist is discarded; single-file mode has no next track.
func (p *Player) LoadSingle(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !library.IsAudioFile(path) {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", filepath.Base(path))
	}

	p.list = nil

	if err := p.loadTrackLocked(path); err != nil {
		return err
	}
	p.engine.Stop()
	p.resetClockLocked()
	p.state = StateStopped

	zlog.Info().Msgf("player: loaded file: %s", path)
	p.sendEventLocked(Event{Type: EventTrackLoaded, Track: p.current, State: p.state})
	return nil
}

// LoadFolder scans dir for mp3 files, builds a freshly shuffled playlist
// and immediately starts playing its first entry. Folder load implies
// playback start; single-file load deliberately does not.
func (p *Player) LoadFolder(dir string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateStopped {
		p.stopLocked()
	}

	paths, err := library.Scan(dir)
	if err != nil {
		return err
	}

	p.list = playlist.NewShuffled(paths, p.rng)
	if err := p.loadTrackLocked(p.list.Current()); err != nil {
		return err
	}

	zlog.Info().Msgf("player: loaded folder %s with %d files, starting with %s",
		dir, p.list.Len(), p.list.Current())
	p.sendEventLocked(Event{Type: EventPlaylistLoaded, Track: p.current, State: p.state})
	return p.playLocked()
}

// Play starts the current track from the beginning. This is not a resume:
// the offset is reset even when called while already playing. Resuming a
// paused track goes through TogglePause.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playLocked()
}

// TogglePause pauses a playing track or resumes a paused one.
// No-op while stopped.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StatePlaying:
		p.engine.Pause()
		p.offset += p.now().Sub(p.segmentStart)
		p.segmentStart = time.Time{}
		p.state = StatePaused
		zlog.Info().Msgf("player: paused playback of: %s", p.current.Path)
	case StatePaused:
		p.engine.Unpause()
		p.segmentStart = p.now()
		p.state = StatePlaying
		zlog.Info().Msgf("player: resumed playback of: %s", p.current.Path)
	default:
		return
	}
	p.sendEventLocked(Event{Type: EventStateChanged, Track: p.current, State: p.state})
}

// Stop halts playback and resets the clock. Safe to call repeatedly.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateStopped {
		return
	}
	p.stopLocked()
	p.sendEventLocked(Event{Type: EventStateChanged, Track: p.current, State: p.state})
}

// Seek moves playback by delta relative to the current position. The target
// is clamped to [0, duration-endGuard] so a forward seek cannot trip the
// completion detection. Silently ignored without a track, with an unknown
// duration, or while stopped.
func (p *Player) Seek(delta time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seekLocked(delta)
}

// SeekToFraction seeks to f of the track length, 0 meaning the start and 1
// the end. This backs position-bar style jumps.
func (p *Player) SeekToFraction(f float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || !p.current.HasDuration() || p.state == StateStopped {
		return nil
	}
	target := time.Duration(clamp01(f) * float64(p.current.Duration))
	return p.seekLocked(target - p.elapsedLocked(p.now()))
}

// Rewind steps back by the configured seek step.
func (p *Player) Rewind() error {
	return p.Seek(-p.config.SeekStep)
}

// FastForward steps forward by the configured seek step.
func (p *Player) FastForward() error {
	return p.Seek(p.config.SeekStep)
}

// Tick derives the current position without touching the engine transport.
// Done is only reported while playing: a paused track keeps the engine
// quiet without being finished.
func (p *Player) Tick(now time.Time) TickResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := TickResult{Elapsed: p.elapsedLocked(now)}
	if p.current != nil {
		res.Duration = p.current.Duration
	}
	if res.Duration > 0 {
		res.Progress = float64(res.Elapsed) / float64(res.Duration)
		if res.Progress > 1 {
			res.Progress = 1
		}
	}
	res.Done = p.state == StatePlaying && !p.engine.Busy()
	return res
}

// Finish applies the completion transition after a tick reported Done:
// advance through the playlist when one is loaded, otherwise stop. The tick
// that detected completion already reported elapsed at the full duration.
func (p *Player) Finish() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.list != nil && p.list.Len() > 0 {
		return p.advanceLocked()
	}
	if p.current != nil {
		p.sendEventLocked(Event{Type: EventTrackEnded, Track: p.current, State: p.state})
	}
	p.stopLocked()
	p.sendEventLocked(Event{Type: EventStateChanged, Track: p.current, State: p.state})
	return nil
}

// Advance moves to the next playlist entry, wrapping at the end, and starts
// it from the beginning. When the next entry fails to load the player is
// left as attempted and no further entries are tried; the user has to issue
// another next command.
func (p *Player) Advance() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.advanceLocked()
}

// SetVolume sets the playback volume as a fraction, clamped to [0, 1].
func (p *Player) SetVolume(f float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clamp01(f)
	p.engine.SetVolume(p.volume)
	zlog.Info().Msgf("player: set volume to %d%%", int(p.volume*100))
}

// Volume returns the last volume set.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CurrentTrack returns the currently loaded track.
func (p *Player) CurrentTrack() (*track.Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, false
	}
	return p.current, true
}

// HasPlaylist reports whether a non-empty folder playlist is loaded.
func (p *Player) HasPlaylist() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list != nil && p.list.Len() > 0
}

// PlaylistPosition returns the cursor index and length of the playlist,
// (0, 0) in single-file mode.
func (p *Player) PlaylistPosition() (index, length int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.list == nil {
		return 0, 0
	}
	return p.list.Index(), p.list.Len()
}

// Close stops playback and releases the event channel.
func (p *Player) Close() {
	p.cancel()
	p.Stop()
	close(p.eventCh)
}

// loadTrackLocked opens path on the engine and builds the track entity.
// On engine failure the current track reference is cleared so stale state
// cannot be acted upon. Must be called with the lock held.
func (p *Player) loadTrackLocked(path string) error {
	if err := p.engine.Load(path); err != nil {
		p.current = nil
		return errors.Wrapf(err, "failed to load %s", filepath.Base(path))
	}

	t := &track.Track{
		ID:   uuid.NewString(),
		Path: path,
	}
	t.Title, t.Artist, t.Album = tags.Read(path)

	if p.prober != nil {
		d, err := p.prober.Probe(path)
		if err != nil {
			zlog.Warn().Msgf("player: could not determine track length of %s: %v", path, err)
		} else {
			t.Duration = d
		}
	}

	p.current = t
	return nil
}

// playLocked restarts playback from position zero.
// Must be called with the lock held.
func (p *Player) playLocked() error {
	if p.current == nil {
		return ErrNoTrackLoaded
	}
	if err := p.engine.Play(0); err != nil {
		return errors.Wrapf(err, "failed to play %s", p.current.Label())
	}

	p.offset = 0
	p.segmentStart = p.now()
	p.state = StatePlaying

	zlog.Info().Msgf("player: started playing: %s", p.current.Path)
	p.sendEventLocked(Event{Type: EventTrackStarted, Track: p.current, State: p.state})
	return nil
}

// advanceLocked wraps the playlist cursor forward and plays the entry it
// lands on. Must be called with the lock held.
func (p *Player) advanceLocked() error {
	if p.list == nil || p.list.Len() == 0 {
		return ErrNoPlaylist
	}

	next := p.list.Advance()
	if p.current != nil {
		p.sendEventLocked(Event{Type: EventTrackEnded, Track: p.current, State: p.state})
	}

	// A failed load leaves the state flag as attempted and does not try the
	// entry after; the user advances manually.
	if err := p.loadTrackLocked(next); err != nil {
		return err
	}
	if err := p.engine.Play(0); err != nil {
		return errors.Wrapf(err, "failed to play %s", p.current.Label())
	}

	p.offset = 0
	p.segmentStart = p.now()
	p.state = StatePlaying

	zlog.Info().Msgf("player: playing next song: %s", next)
	p.sendEventLocked(Event{Type: EventTrackStarted, Track: p.current, State: p.state})
	return nil
}

// seekLocked applies a relative seek. Must be called with the lock held.
func (p *Player) seekLocked(delta time.Duration) error {
	if p.current == nil || !p.current.HasDuration() || p.state == StateStopped {
		return nil
	}

	target := p.elapsedLocked(p.now()) + delta
	if limit := p.current.Duration - p.config.EndGuard; target > limit {
		target = limit
	}
	if target < 0 {
		target = 0
	}

	wasPaused := p.state == StatePaused
	if err := p.engine.Play(target); err != nil {
		return errors.Wrapf(err, "failed to seek in %s", p.current.Label())
	}
	p.offset = target
	if wasPaused {
		p.engine.Pause()
		p.segmentStart = time.Time{}
		zlog.Info().Msgf("player: seeked (paused) to %.2fs in %s", target.Seconds(), p.current.Path)
	} else {
		p.segmentStart = p.now()
		zlog.Info().Msgf("player: seeked to %.2fs in %s", target.Seconds(), p.current.Path)
	}
	return nil
}

// stopLocked halts the engine and resets clock and state.
// Must be called with the lock held.
func (p *Player) stopLocked() {
	p.engine.Stop()
	p.resetClockLocked()
	p.state = StateStopped
	if p.current != nil {
		zlog.Info().Msgf("player: stopped playback of: %s", p.current.Path)
	}
}

// resetClockLocked clears the clock snapshot.
func (p *Player) resetClockLocked() {
	p.offset = 0
	p.segmentStart = time.Time{}
}

// elapsedLocked derives playback progress from the clock snapshot, clamped
// to the track duration when it is known. Must be called with the lock held.
func (p *Player) elapsedLocked(now time.Time) time.Duration {
	var elapsed time.Duration
	switch p.state {
	case StatePlaying:
		elapsed = p.offset + now.Sub(p.segmentStart)
	case StatePaused:
		elapsed = p.offset
	default:
		return 0
	}

	if elapsed < 0 {
		elapsed = 0
	}
	if p.current != nil && p.current.HasDuration() && elapsed > p.current.Duration {
		elapsed = p.current.Duration
	}
	return elapsed
}

// sendEventLocked sends an event without blocking.
// Must be called with the lock held.
func (p *Player) sendEventLocked(e Event) {
	select {
	case p.eventCh <- e:
		// Successfully sent
	case <-p.ctx.Done():
		// Player closed, don't send
	default:
		// Channel full, drop event
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
