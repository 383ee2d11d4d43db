// dungeoncore is a turn-based dungeon crawl on a grid.
// Usage: dungeoncore [flags] [game_directory]
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/nathoo/dungeoncore/cli"
	"github.com/nathoo/dungeoncore/config"
	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/state"
	"github.com/nathoo/dungeoncore/loader"
	"github.com/nathoo/dungeoncore/logger"
	"github.com/nathoo/dungeoncore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	fs := pflag.NewFlagSet("dungeoncore", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dungeoncore [flags] [game_directory]\n")
		fs.PrintDefaults()
	}
	showVersion := fs.Bool("version", false, "print version and exit")
	plain := fs.Bool("plain", false, "line-based play instead of the full-screen UI")
	trace := fs.Bool("trace", false, "print outcome traces after each command")
	scriptFile := fs.String("script", "", "play commands from a file")
	configFile := fs.StringP("config", "c", "", "YAML config file")
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("dungeoncore %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if fs.NArg() > 0 && !fs.Changed("dir") {
		_ = fs.Set("dir", fs.Arg(0))
	}

	cfg, err := config.Load(*configFile, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fullScreen := *scriptFile == "" && !*plain && isatty.IsTerminal(os.Stdout.Fd())
	closeLog, err := setupLogging(cfg.Log, fullScreen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	eng, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	// Script mode: read commands from the file and echo them.
	if *scriptFile != "" {
		f, err := os.Open(*scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			closeLog()
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = *trace
		c.Run()
		return
	}

	if !fullScreen {
		c := cli.New(eng)
		c.Trace = *trace
		c.Run()
		return
	}

	if err := tui.Run(eng); err != nil {
		logger.Log.WithError(err).Error("ui stopped")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// setupLogging sends logs to log.file, or to stderr in line mode. The
// full-screen UI owns the terminal, so without a file its logs are dropped.
func setupLogging(lc config.LogConfig, fullScreen bool) (func() error, error) {
	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	if lc.File != "" || fullScreen {
		w, c, err := logger.OpenFile(lc.File)
		if err != nil {
			return nil, err
		}
		out, closer = w, c
	}
	logger.Init(lc.Level, lc.Format, out)
	return closer, nil
}

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	defs, err := loader.Load(loader.Paths{
		Dir:      cfg.Game.Dir,
		Map:      cfg.Game.Map,
		Monsters: cfg.Game.Monsters,
		Items:    cfg.Game.Items,
		Width:    cfg.Game.Width,
		Height:   cfg.Game.Height,
	})
	if err != nil {
		return nil, err
	}
	world, err := state.NewWorld(defs, cfg.Player.Def())
	if err != nil {
		return nil, err
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Log.WithFields(logrus.Fields{"seed": seed, "dir": cfg.Game.Dir}).Debug("starting game")

	return engine.New(world, engine.Rules{
		Reach:       cfg.Rules.Reach,
		RangedReach: cfg.Rules.RangedReach,
		Sight:       cfg.Rules.Sight,
		LogSize:     cfg.Rules.LogSize,
	}, engine.NewRNG(seed)), nil
}
