// Package console implements the interactive shell that drives the player.
//
// The shell is the UI collaborator of the player core: it maps typed
// commands onto player operations and renders state snapshots. A ticker
// goroutine polls Tick on a fixed period and applies the completion
// transition, which is what auto-advances a folder playlist.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	zlog "github.com/rs/zerolog/log"

	"github.com/hrko/mp3box/internal/app/player"
)

const prompt = "mp3box> "

// Shell is the interactive console front-end.
type Shell struct {
	player *player.Player
	tick   time.Duration
	rl     *readline.Instance
	out    io.Writer
}

// New creates a shell around the given player.
func New(p *player.Player, tickInterval time.Duration) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("load"),
			readline.PcItem("folder"),
			readline.PcItem("play"),
			readline.PcItem("pause"),
			readline.PcItem("stop"),
			readline.PcItem("next"),
			readline.PcItem("ff"),
			readline.PcItem("rw"),
			readline.PcItem("seek"),
			readline.PcItem("pos"),
			readline.PcItem("vol"),
			readline.PcItem("status"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, err
	}
	return &Shell{
		player: p,
		tick:   tickInterval,
		rl:     rl,
		out:    rl.Stdout(),
	}, nil
}

// Run processes commands until quit or EOF.
func (s *Shell) Run() error {
	done := make(chan struct{})
	go s.tickLoop(done)
	go s.eventLoop(done)
	defer close(done)

	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := s.dispatch(strings.Fields(strings.TrimSpace(line))); quit {
			return nil
		}
	}
}

// Close releases the terminal.
func (s *Shell) Close() {
	s.rl.Close()
}

// dispatch runs one command line. Returns true when the shell should exit.
func (s *Shell) dispatch(fields []string) bool {
	if len(fields) == 0 {
		return false
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "load":
		if len(args) != 1 {
			s.usage("load FILE")
			return false
		}
		if err := s.player.LoadSingle(args[0]); err != nil {
			s.notice(err)
			return false
		}
		s.printStatus()

	case "folder":
		if len(args) != 1 {
			s.usage("folder DIR")
			return false
		}
		if err := s.player.LoadFolder(args[0]); err != nil {
			s.notice(err)
			return false
		}
		_, n := s.player.PlaylistPosition()
		fmt.Fprintf(s.out, "Playlist: %d tracks, shuffled\n", n)

	case "play":
		if err := s.player.Play(); err != nil {
			s.notice(err)
		}

	case "pause":
		s.player.TogglePause()
		s.printStatus()

	case "stop":
		s.player.Stop()
		s.printStatus()

	case "next":
		if err := s.player.Advance(); err != nil {
			s.notice(err)
		}

	case "ff":
		if err := s.player.FastForward(); err != nil {
			s.notice(err)
		}
		s.printStatus()

	case "rw":
		if err := s.player.Rewind(); err != nil {
			s.notice(err)
		}
		s.printStatus()

	case "seek":
		if len(args) != 1 {
			s.usage("seek SECONDS (relative, may be negative)")
			return false
		}
		sec, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			s.usage("seek SECONDS (relative, may be negative)")
			return false
		}
		if err := s.player.Seek(time.Duration(sec * float64(time.Second))); err != nil {
			s.notice(err)
		}
		s.printStatus()

	case "pos":
		if len(args) != 1 {
			s.usage("pos PERCENT (0-100)")
			return false
		}
		pct, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			s.usage("pos PERCENT (0-100)")
			return false
		}
		if err := s.player.SeekToFraction(pct / 100); err != nil {
			s.notice(err)
		}
		s.printStatus()

	case "vol":
		if len(args) != 1 {
			s.usage("vol PERCENT (0-100)")
			return false
		}
		pct, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			s.usage("vol PERCENT (0-100)")
			return false
		}
		s.player.SetVolume(pct / 100)

	case "status":
		s.printStatus()

	case "help":
		s.printHelp()

	case "quit", "exit":
		return true

	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

// tickLoop polls the player clock, repaints the prompt and applies the
// completion transition when a track runs out.
func (s *Shell) tickLoop(done <-chan struct{}) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			res := s.player.Tick(now)
			s.repaintPrompt(now)
			if res.Done {
				if err := s.player.Finish(); err != nil {
					zlog.Error().Msgf("console: auto-advance failed: %v", err)
					s.notice(err)
				}
			}
		}
	}
}

// eventLoop prints user-visible notices for track transitions.
func (s *Shell) eventLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case e, ok := <-s.player.Events():
			if !ok {
				return
			}
			zlog.Debug().Msgf("console: event %s (state=%s)", e.Type, e.State)
			if e.Type == player.EventTrackStarted && e.Track != nil {
				fmt.Fprintf(s.out, "Now playing: %s\n", e.Track.Label())
			}
		}
	}
}

// repaintPrompt keeps a compact transport readout in front of the prompt
// while a track is playing or paused.
func (s *Shell) repaintPrompt(now time.Time) {
	snap := s.player.Snapshot(now)
	if snap.State == player.StateStopped {
		s.rl.SetPrompt(prompt)
		return
	}
	s.rl.SetPrompt(fmt.Sprintf("[%s] %s", transportLine(snap), prompt))
	s.rl.Refresh()
}

func (s *Shell) printStatus() {
	fmt.Fprintln(s.out, statusLine(s.player.Snapshot(time.Now())))
}

func (s *Shell) notice(err error) {
	fmt.Fprintf(s.out, "error: %v\n", err)
}

func (s *Shell) usage(u string) {
	fmt.Fprintf(s.out, "usage: %s\n", u)
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  load FILE     load a single mp3 file (does not start playback)
  folder DIR    load a folder as a shuffled playlist and start playing
  play          play the loaded track from the beginning
  pause         toggle pause/resume
  stop          stop playback
  next          skip to the next playlist entry
  ff / rw       fast-forward / rewind by the configured step
  seek SECONDS  relative seek, negative to go back
  pos PERCENT   jump to a position in the track (0-100)
  vol PERCENT   set volume (0-100)
  status        show the current player status
  quit          exit
`)
}
