// Package playlist provides the shuffled folder playlist entity.
package playlist

import "math/rand"

// Playlist is an ordered sequence of file paths with a cursor into it.
// The order is randomized once at construction and never mutated afterwards;
// a playlist is only ever replaced or advanced.
type Playlist struct {
	paths []string
	index int
}

// NewShuffled builds a playlist from paths in randomized order.
// The caller supplies the rng so shuffles are deterministic in tests.
func NewShuffled(paths []string, rng *rand.Rand) *Playlist {
	shuffled := make([]string, len(paths))
	copy(shuffled, paths)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &Playlist{paths: shuffled}
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	return len(p.paths)
}

// Index returns the cursor position.
func (p *Playlist) Index() int {
	return p.index
}

// Current returns the path under the cursor.
func (p *Playlist) Current() string {
	return p.paths[p.index]
}

// Advance moves the cursor to the next entry, wrapping at the end, and
// returns the path it lands on. The playlist loops forever.
func (p *Playlist) Advance() string {
	p.index = (p.index + 1) % len(p.paths)
	return p.paths[p.index]
}

// Paths returns a copy of the entries in playback order.
func (p *Playlist) Paths() []string {
	out := make([]string, len(p.paths))
	copy(out, p.paths)
	return out
}
