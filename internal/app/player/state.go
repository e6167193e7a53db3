// Package player provides playback control over local mp3 files with a
// shuffled folder playlist.
package player

// State represents the playback state.
type State int

const (
	StateStopped State = iota // No playback, clock reset to zero
	StatePlaying              // Track is playing, segment clock running
	StatePaused               // Track is paused, elapsed frozen at the offset
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
