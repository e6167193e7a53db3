// Package main provides the mp3box entry point.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/hrko/mp3box/internal/app/player"
	"github.com/hrko/mp3box/internal/infra/audio"
	"github.com/hrko/mp3box/internal/infra/config"
	"github.com/hrko/mp3box/internal/infra/logger"
	"github.com/hrko/mp3box/internal/infra/probe"
	"github.com/hrko/mp3box/internal/ui/console"
)

var (
	app        = kingpin.New("mp3box", "Shuffled local mp3 player")
	configPath = app.Flag("config", "Path to config file").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()
	target     = app.Arg("target", "MP3 file or folder to load on startup").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config
	var cfg *config.Config
	var err error
	if *configPath != "" {
		zlog.Info().Msgf("Loading config from %s", *configPath)
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Player error: %v", err)
		os.Exit(1)
	}
}

// run executes the main player logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	prober, err := probe.NewFromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create duration prober")
	}
	zlog.Info().Msgf("Using %q duration prober", prober.Name())

	engine := audio.New()
	defer engine.Close()

	p := player.New(engine, prober, player.Config{
		SeekStep:      cfg.SeekStep(),
		EndGuard:      cfg.EndGuard(),
		InitialVolume: cfg.Player.InitialVolume,
	})
	defer p.Close()

	// Preload from the CLI argument or the configured music directory.
	// Failures here are notices, not fatal: the shell is still usable.
	switch {
	case *target != "":
		if err := loadTarget(p, *target); err != nil {
			zlog.Warn().Msgf("Failed to load %s: %v", *target, err)
		}
	case cfg.Library.MusicDir != "":
		if err := p.LoadFolder(cfg.Library.MusicDir); err != nil {
			zlog.Warn().Msgf("Failed to load music dir %s: %v", cfg.Library.MusicDir, err)
		}
	}

	executeHooks(cfg.Hooks.OnStarted, "on_started")
	defer executeHooks(cfg.Hooks.OnStopped, "on_stopped")

	shell, err := console.New(p, cfg.TickInterval())
	if err != nil {
		return errors.Wrap(err, "failed to open console")
	}
	defer shell.Close()

	return shell.Run()
}

// loadTarget loads a startup argument as either a folder playlist or a
// single file.
func loadTarget(p *player.Player, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return errors.Wrap(err, "failed to stat target")
	}
	if info.IsDir() {
		return p.LoadFolder(target)
	}
	return p.LoadSingle(target)
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
