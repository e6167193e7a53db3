// Package library scans the filesystem for playable audio files.
package library

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Ext is the only recognized audio file extension, compared case-insensitively.
const Ext = ".mp3"

// ErrEmptyDirectory indicates a folder scan found no playable files.
var ErrEmptyDirectory = errors.New("no mp3 files found in directory")

// IsAudioFile reports whether path carries the recognized audio extension.
func IsAudioFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Scan lists the mp3 files directly inside dir, in directory order.
// One directory level only; subdirectories are not descended into.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directory %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsAudioFile(e.Name()) {
			continue
		}
		full := filepath.Join(dir, e.Name())
		zlog.Debug().Msgf("library: found file: %s", full)
		paths = append(paths, full)
	}

	if len(paths) == 0 {
		return nil, errors.Wrapf(ErrEmptyDirectory, "scan of %s", dir)
	}
	return paths, nil
}
