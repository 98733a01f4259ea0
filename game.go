package main

import (
	"errors"
	"image"
	"image/color"
	"log/slog"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/thirdperson/config"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/system"
	"github.com/milk9111/thirdperson/logger"
	"github.com/milk9111/thirdperson/prefabs"
	"github.com/milk9111/thirdperson/scene"
)

var errQuit = errors.New("quit")

type sceneChange struct {
	name   string
	reload bool
}

// Game owns the loaded scene. Simulation runs on a fixed step; the late
// pipeline runs once per frame after it.
type Game struct {
	cfg *config.Config
	log *slog.Logger

	scene   *scene.Scene
	history *scene.History
	input   *system.InputSystem
	render  *system.RenderSystem
	unbind  func()

	hud    *HUD
	pause  *ebitenui.UI
	paused bool
	quit   bool

	watcher *prefabs.Watcher

	pending     *sceneChange
	accumulator float64
	frames      int
}

func NewGame(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		log:     logger.For("game"),
		history: scene.NewHistory(cfg.Scene),
		render:  system.NewRenderSystem(cfg.Debug),
	}

	jump := jumpButtonRect(cfg.Window.Width, cfg.Window.Height)
	g.input = system.NewInputSystem(system.InputSettings{
		MouseSensitivity: cfg.Input.MouseSensitivity,
		StickLookScale:   cfg.Input.StickLookScale,
		StickDeadzone:    cfg.Input.StickDeadzone,
		JumpButton:       jump,
		ScreenWidth:      cfg.Window.Width,
	})
	g.hud = NewHUD(jump)
	g.pause = NewPauseUI(g)

	if err := g.loadScene(g.history.Plan(cfg.Scene, false)); err != nil {
		return nil, err
	}

	if cfg.HotReload.Enabled {
		w, err := prefabs.NewWatcher(cfg.HotReload.Dirs...)
		if err != nil {
			g.log.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
			g.log.Info("watching for changes", "dirs", cfg.HotReload.Dirs)
		}
	}

	return g, nil
}

func (g *Game) loadScene(change scene.Change) error {
	sc, err := scene.Load(change.Target, g.requestScene)
	if err != nil {
		return err
	}

	if g.unbind != nil {
		g.unbind()
	}
	g.scene = sc
	g.history.Commit(change)
	g.accumulator = 0
	g.unbind = g.hud.Bind(sc.World, sc.Name)

	g.log.Info("scene loaded", "scene", sc.Name, "entities", len(ecs.Entities(sc.World)))
	return nil
}

func (g *Game) requestScene(name string, reload bool) {
	g.pending = &sceneChange{name: name, reload: reload}
}

// applyPending swaps scenes between frames so no system sees a half-built
// world.
func (g *Game) applyPending() {
	req := g.pending
	if req == nil {
		return
	}
	g.pending = nil

	change := g.history.Plan(req.name, req.reload)
	if err := g.loadScene(change); err != nil {
		g.log.Error("scene change failed", "from", g.history.Current(), "to", change.Target, "err", err)
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Info("file changed", "path", name)
			changed = true
			continue
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("watch error", "err", err)
			continue
		default:
		}
		break
	}
	if changed && g.pending == nil {
		g.requestScene("", true)
	}
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		g.close()
		return errQuit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pause.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.log.Info("debug overlay", "enabled", g.render.ToggleDebug())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.requestScene("", true)
	}

	g.drainWatcher()
	g.input.Update(g.scene.World)

	step := g.cfg.FixedStep()
	g.accumulator += 1 / float64(ebiten.TPS())
	steps := 0
	for g.accumulator >= step && g.pending == nil {
		if steps == g.cfg.Tick.MaxSteps {
			g.log.Debug("dropping simulation backlog", "seconds", g.accumulator)
			g.accumulator = 0
			break
		}
		g.scene.Fixed.Step(g.scene.World, step)
		g.accumulator -= step
		steps++
	}

	g.scene.Late.Update(g.scene.World)
	g.hud.Update(1 / float64(ebiten.TPS()))
	g.applyPending()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x18, G: 0x1c, B: 0x24, A: 0xff})
	g.render.Draw(g.scene.World, screen)
	g.hud.Draw(screen)
	if g.paused {
		g.pause.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) close() {
	if g.unbind != nil {
		g.unbind()
		g.unbind = nil
	}
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn("close watcher", "err", err)
		}
		g.watcher = nil
	}
}

func jumpButtonRect(width, height int) image.Rectangle {
	const size, margin = 96, 32
	return image.Rect(width-margin-size, height-margin-size, width-margin, height-margin)
}
