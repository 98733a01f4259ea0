// Command topdown plays a scene in the terminal, seen from above.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/thirdperson/config"
	"github.com/milk9111/thirdperson/logger"
	"github.com/milk9111/thirdperson/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		// Interactive runs may have discarded logs, so the failure goes
		// to stderr here.
		logger.New(logger.Config{}).Error("topdown", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("topdown", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a yaml config file")
	sceneName := fs.String("scene", "", "scene name in levels/ (defaults to the config scene)")
	ticks := fs.Int("ticks", 0, "run this many steps headless and print the final status")
	logPath := fs.String("log", "", "log file; interactive runs discard logs without one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}

	logCfg := logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logCfg.Output = f
	case *ticks <= 0:
		// The terminal belongs to tcell.
		logCfg.Output = io.Discard
	}
	logger.Init(logCfg)

	if *ticks > 0 {
		return headless(cfg, *ticks)
	}
	return interactive(cfg)
}

func interactive(cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	runner, err := tui.NewRunner(screen, cfg.Scene)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", cfg.Scene, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runner.Run(ctx, cfg.Tick.FixedHz, 0); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.For("topdown").Info("bye", "scene", runner.Scene().Name)
	return nil
}

// headless steps the scene on a simulated screen without waiting on a clock.
func headless(cfg *config.Config, ticks int) error {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetSize(80, 32)

	runner, err := tui.NewRunner(screen, cfg.Scene)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", cfg.Scene, err)
	}
	dt := cfg.FixedStep()
	for i := 0; i < ticks; i++ {
		runner.Tick(dt)
	}
	runner.Draw()

	logger.For("topdown").Info("done",
		"scene", runner.Scene().Name,
		"ticks", ticks,
		"status", tui.Status(runner.Scene().World),
	)
	return nil
}
