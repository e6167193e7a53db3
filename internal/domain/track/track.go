// Package track provides the Track domain entity.
package track

import (
	"path/filepath"
	"time"
)

// Track represents a loaded audio file.
// A track lives from the load that created it until the next load or stop
// supersedes it.
type Track struct {
	ID       string        // Assigned at load time
	Path     string        // File path as given by the user or the folder scan
	Title    string        // ID3 title, file basename when untagged
	Artist   string        // ID3 artist
	Album    string        // ID3 album
	Duration time.Duration // Track duration, 0 when it could not be determined
}

// HasDuration reports whether the track length is known. Progress display
// and seeking are only available for tracks with a known duration.
func (t *Track) HasDuration() bool {
	return t.Duration > 0
}

// Label returns the display name used in status lines.
func (t *Track) Label() string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return filepath.Base(t.Path)
	}
}
