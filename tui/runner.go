package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/logger"
	"github.com/milk9111/thirdperson/scene"
)

// Terminals only report key presses, so a direction stays held for this
// many ticks after its last repeat.
const holdTicks = 12

type request struct {
	name   string
	reload bool
}

// Runner drives a scene headless and shows it on a tcell screen.
type Runner struct {
	screen  tcell.Screen
	log     *slog.Logger
	history *scene.History
	scene   *scene.Scene
	pending *request

	moveX, moveY float64
	held         int
	jump         bool
	sprint       bool
}

func NewRunner(screen tcell.Screen, start string) (*Runner, error) {
	r := &Runner{
		screen:  screen,
		log:     logger.For("tui"),
		history: scene.NewHistory(start),
	}
	if err := r.load(r.history.Plan(start, false)); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) Scene() *scene.Scene { return r.scene }

func (r *Runner) load(change scene.Change) error {
	sc, err := scene.Load(change.Target, func(name string, reload bool) {
		r.pending = &request{name: name, reload: reload}
	})
	if err != nil {
		return err
	}
	r.scene = sc
	r.history.Commit(change)
	r.log.Info("scene loaded", "scene", sc.Name)
	return nil
}

// HandleKey applies a key press. It reports whether the runner should stop.
func (r *Runner) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		r.press(0, 1)
	case tcell.KeyDown:
		r.press(0, -1)
	case tcell.KeyLeft:
		r.press(-1, 0)
	case tcell.KeyRight:
		r.press(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'w':
			r.press(0, 1)
		case 's':
			r.press(0, -1)
		case 'a':
			r.press(-1, 0)
		case 'd':
			r.press(1, 0)
		case ' ':
			r.jump = true
		case 'f':
			r.sprint = !r.sprint
		case 'r':
			r.pending = &request{reload: true}
		}
	}
	return false
}

func (r *Runner) press(x, y float64) {
	r.moveX, r.moveY = x, y
	r.held = holdTicks
}

// Tick writes the key state into the player's input, steps the scene and
// swaps scenes when one was requested.
func (r *Runner) Tick(dt float64) {
	w := r.scene.World
	if r.held > 0 {
		r.held--
	} else {
		r.moveX, r.moveY = 0, 0
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.MoveX, in.MoveY = r.moveX, r.moveY
		in.LookX, in.LookY = 0, 0
		in.Sprint = r.sprint
		if r.jump {
			in.JumpPressed = true
		}
	})
	r.jump = false

	r.scene.Step(dt)

	if req := r.pending; req != nil {
		r.pending = nil
		change := r.history.Plan(req.name, req.reload)
		if err := r.load(change); err != nil {
			r.log.Error("scene change failed", "to", change.Target, "err", err)
		}
	}
}

func (r *Runner) Draw() {
	Draw(r.screen, r.scene.World)
	r.screen.Show()
}

// Run ticks at hz until ctx is done, a quit key arrives or maxTicks steps
// ran (0 means no limit).
func (r *Runner) Run(ctx context.Context, hz, maxTicks int) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	dt := 1 / float64(hz)
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	for ticks := 0; maxTicks <= 0 || ticks < maxTicks; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if r.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				r.screen.Sync()
			}
		case <-ticker.C:
			r.Tick(dt)
			r.Draw()
			ticks++
		}
	}
	return nil
}
