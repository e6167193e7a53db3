package player

import "github.com/hrko/mp3box/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackLoaded    EventType = iota // A track was loaded and is ready to play
	EventPlaylistLoaded                  // A folder playlist replaced the previous one
	EventTrackStarted                    // Playback started from the beginning of a track
	EventTrackEnded                      // The current track finished or was superseded
	EventStateChanged                    // Playback state changed (pause/resume/stop)
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackLoaded:
		return "track_loaded"
	case EventPlaylistLoaded:
		return "playlist_loaded"
	case EventTrackStarted:
		return "track_started"
	case EventTrackEnded:
		return "track_ended"
	case EventStateChanged:
		return "state_changed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type  EventType
	Track *track.Track // Track the event refers to (nil for some events)
	State State        // Playback state after the event
}
