package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/hrko/mp3box/internal/app/player"
)

const barWidth = 24

// statusLine renders the full status readout for the status command.
func statusLine(s player.Snapshot) string {
	switch {
	case s.TrackLabel == "":
		return "Stopped"
	case s.State == player.StateStopped:
		return fmt.Sprintf("Loaded %s", s.TrackLabel)
	case s.Duration > 0:
		return fmt.Sprintf("%s %s [%s / %s] %s %d%%",
			stateWord(s.State), s.TrackLabel,
			formatClock(s.Elapsed), formatClock(s.Duration),
			progressBar(s.Progress, barWidth), int(s.Volume*100))
	default:
		// Unknown duration: no progress bar, elapsed only
		return fmt.Sprintf("%s %s [%s] %d%%",
			stateWord(s.State), s.TrackLabel, formatClock(s.Elapsed), int(s.Volume*100))
	}
}

// transportLine renders the compact readout embedded in the prompt.
func transportLine(s player.Snapshot) string {
	mark := ">"
	if s.State == player.StatePaused {
		mark = "||"
	}
	if s.Duration > 0 {
		return fmt.Sprintf("%s %s/%s", mark, formatClock(s.Elapsed), formatClock(s.Duration))
	}
	return fmt.Sprintf("%s %s", mark, formatClock(s.Elapsed))
}

// progressBar renders fraction as a fixed-width bar.
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// formatClock renders a duration as MM:SS.
func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func stateWord(s player.State) string {
	if s == player.StatePaused {
		return "Paused"
	}
	return "Playing"
}
