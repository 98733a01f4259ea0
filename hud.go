package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"golang.org/x/image/font/basicfont"
)

const toastDuration = 2.0

// hudState is what the HUD shows, fed by world events.
type hudState struct {
	scene      string
	health     int
	maxHealth  int
	toast      string
	toastTimer float64
}

func (s *hudState) onHealth(evt ecs.HealthChanged) {
	s.health = evt.Current
	s.maxHealth = evt.Max
}

func (s *hudState) onCollected(evt ecs.Collected) {
	name := evt.Name
	if name == "" {
		name = "item"
	}
	s.toast = fmt.Sprintf("Collected %s", name)
	s.toastTimer = toastDuration
}

func (s *hudState) tick(dt float64) {
	if s.toastTimer <= 0 {
		return
	}
	s.toastTimer -= dt
	if s.toastTimer <= 0 {
		s.toast = ""
		s.toastTimer = 0
	}
}

func (s *hudState) healthLabel() string {
	if s.maxHealth <= 0 {
		return ""
	}
	return fmt.Sprintf("HP %d/%d", s.health, s.maxHealth)
}

// HUD draws the health bar, scene name, pickup toast and the touch jump
// button.
type HUD struct {
	state hudState

	ui    *ebitenui.UI
	bar   *widget.ProgressBar
	hp    *widget.Text
	scene *widget.Text
	toast *widget.Text
}

func NewHUD(jumpButton image.Rectangle) *HUD {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	h := &HUD{}

	h.bar = widget.NewProgressBar(
		widget.ProgressBarOpts.WidgetOpts(widget.WidgetOpts.MinSize(200, 14)),
		widget.ProgressBarOpts.Images(
			&widget.ProgressBarImage{Idle: imageui.NewNineSliceColor(color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff})},
			&widget.ProgressBarImage{Idle: imageui.NewNineSliceColor(color.NRGBA{R: 0xe0, G: 0x40, B: 0x50, A: 0xff})},
		),
		widget.ProgressBarOpts.Values(0, 1, 1),
	)
	h.hp = widget.NewText(widget.TextOpts.Text("", &face, white))
	h.scene = widget.NewText(widget.TextOpts.Text("", &face, white))
	h.toast = widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xff, G: 0xe0, B: 0x66, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
			HorizontalPosition: widget.AnchorLayoutPositionCenter,
			VerticalPosition:   widget.AnchorLayoutPositionStart,
			Padding:            &widget.Insets{Top: 48},
		})),
	)

	status := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
			HorizontalPosition: widget.AnchorLayoutPositionStart,
			VerticalPosition:   widget.AnchorLayoutPositionStart,
			Padding:            &widget.Insets{Top: 16, Left: 16},
		})),
	)
	status.AddChild(h.bar)
	status.AddChild(h.hp)
	status.AddChild(h.scene)

	jump := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewBorderedNineSliceColor(
			color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x30},
			color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x90},
			2,
		)),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(jumpButton.Dx(), jumpButton.Dy()),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
				Padding:            &widget.Insets{Right: 32, Bottom: 32},
			}),
		),
	)
	jump.AddChild(widget.NewText(
		widget.TextOpts.Text("JUMP", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
			HorizontalPosition: widget.AnchorLayoutPositionCenter,
			VerticalPosition:   widget.AnchorLayoutPositionCenter,
		})),
	))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(status)
	root.AddChild(h.toast)
	root.AddChild(jump)

	h.ui = &ebitenui.UI{Container: root}
	return h
}

// Bind resets the HUD for a new world and returns the unsubscribe func.
func (h *HUD) Bind(w *ecs.World, scene string) func() {
	h.state = hudState{scene: scene}

	offHealth := w.Subscribe(ecs.EventHealthChanged, func(evt ecs.Event) {
		data, ok := evt.Data.(ecs.HealthChanged)
		if !ok || !ecs.Has(w, data.Entity, component.PlayerTagComponent.Kind()) {
			return
		}
		h.state.onHealth(data)
	})
	offCollected := w.Subscribe(ecs.EventCollected, func(evt ecs.Event) {
		if data, ok := evt.Data.(ecs.Collected); ok {
			h.state.onCollected(data)
		}
	})

	return func() {
		offHealth()
		offCollected()
	}
}

func (h *HUD) Update(dt float64) {
	h.state.tick(dt)

	if h.state.maxHealth > 0 {
		h.bar.Max = h.state.maxHealth
		h.bar.SetCurrent(h.state.health)
	}
	h.hp.Label = h.state.healthLabel()
	h.scene.Label = h.state.scene
	h.toast.Label = h.state.toast

	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.ui.Draw(screen)
}
