package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_FallsBackToBasename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Some Song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not an mp3"), 0644))

	title, artist, album := Read(path)
	assert.Equal(t, "Some Song", title)
	assert.Empty(t, artist)
	assert.Empty(t, album)
}

func TestRead_MissingFile(t *testing.T) {
	title, artist, album := Read("/nowhere/Track 01.mp3")
	assert.Equal(t, "Track 01", title)
	assert.Empty(t, artist)
	assert.Empty(t, album)
}
