package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrack_Label(t *testing.T) {
	tests := []struct {
		name     string
		track    Track
		expected string
	}{
		{
			name:     "artist and title",
			track:    Track{Path: "/music/x.mp3", Title: "Song", Artist: "Band"},
			expected: "Band - Song",
		},
		{
			name:     "title only",
			track:    Track{Path: "/music/x.mp3", Title: "Song"},
			expected: "Song",
		},
		{
			name:     "untagged falls back to basename",
			track:    Track{Path: "/music/x.mp3"},
			expected: "x.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.track.Label())
		})
	}
}

func TestTrack_HasDuration(t *testing.T) {
	assert.False(t, (&Track{}).HasDuration())
	assert.True(t, (&Track{Duration: 3 * time.Minute}).HasDuration())
}
