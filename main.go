package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/thirdperson/config"
	"github.com/milk9111/thirdperson/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	sceneName := flag.String("scene", "", "scene name in levels/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "enable debug overlay")
	watch := flag.Bool("watch", false, "reload the scene when prefabs or levels change on disk")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.Config{}).Error("load config", "err", err)
		os.Exit(1)
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	if *debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	if *watch {
		cfg.HotReload.Enabled = true
	}

	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log := logger.For("main")

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Tick.TPS)

	game, err := NewGame(cfg)
	if err != nil {
		log.Error("start game", "err", err)
		os.Exit(1)
	}

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		log.Error("run game", "err", err)
		os.Exit(1)
	}
}
