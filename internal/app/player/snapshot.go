package player

import "time"

// TickResult is the outcome of a clock tick.
type TickResult struct {
	Elapsed  time.Duration
	Duration time.Duration // 0 when unknown
	Progress float64       // 0..1, stays 0 when the duration is unknown
	Done     bool          // Engine drained while playing; triggers auto-advance
}

// Snapshot is the render model handed to the UI shell: status fields plus
// the set of operations that are currently valid, mirroring control button
// enabled/disabled states.
type Snapshot struct {
	State      State
	TrackLabel string // Empty when nothing is loaded
	TrackPath  string
	Elapsed    time.Duration
	Duration   time.Duration
	Progress   float64
	Volume     float64

	CanPlay  bool
	CanPause bool
	CanStop  bool
	CanSeek  bool
	CanNext  bool
}

// Snapshot captures the current state for rendering.
func (p *Player) Snapshot(now time.Time) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		State:  p.state,
		Volume: p.volume,
	}
	if p.current != nil {
		s.TrackLabel = p.current.Label()
		s.TrackPath = p.current.Path
		s.Duration = p.current.Duration
	}
	s.Elapsed = p.elapsedLocked(now)
	if s.Duration > 0 {
		s.Progress = float64(s.Elapsed) / float64(s.Duration)
		if s.Progress > 1 {
			s.Progress = 1
		}
	}

	s.CanPlay = p.current != nil && p.state == StateStopped
	s.CanPause = p.state != StateStopped
	s.CanStop = p.state != StateStopped
	s.CanSeek = p.current != nil && p.current.HasDuration() && p.state != StateStopped
	s.CanNext = p.list != nil && p.list.Len() > 0
	return s
}
