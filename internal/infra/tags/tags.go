// Package tags reads ID3 metadata for display purposes.
package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	zlog "github.com/rs/zerolog/log"
)

// Read returns title, artist and album for path. Untagged or unreadable
// files fall back to the file basename as the title; Read never fails.
func Read(path string) (title, artist, album string) {
	title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return title, "", ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		zlog.Debug().Msgf("tags: no metadata in %s: %v", path, err)
		return title, "", ""
	}

	if m.Title() != "" {
		title = m.Title()
	}
	return title, m.Artist(), m.Album()
}
