// Package tui draws a scene from above in a terminal.
package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const (
	GlyphPlayer = '@'
	GlyphEnemy  = 'E'
	GlyphBody   = 'o'
	GlyphPickup = '*'
	GlyphPortal = 'O'
	GlyphHazard = '^'
	GlyphGround = '#'
	GlyphLow    = '.'
)

var (
	groundStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	lowStyle    = tcell.StyleDefault.Foreground(tcell.Color(240))
	hazardStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	pickupStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	portalStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	enemyStyle  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	bodyStyle   = tcell.StyleDefault.Foreground(tcell.Color(51))
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorLightGray)
)

// view maps the level's XZ bounds onto the screen, leaving the last row
// for status. +Z points up.
type view struct {
	minX, maxZ float64
	scaleX     float64
	scaleZ     float64
	cols, rows int
}

func newView(b *component.LevelBounds, cols, rows int) (view, bool) {
	if b == nil || b.Width() <= 0 || b.Depth() <= 0 || cols <= 0 || rows <= 0 {
		return view{}, false
	}
	return view{
		minX:   b.MinX,
		maxZ:   b.MaxZ,
		scaleX: float64(cols) / b.Width(),
		scaleZ: float64(rows) / b.Depth(),
		cols:   cols,
		rows:   rows,
	}, true
}

func (v view) cell(x, z float64) (int, int, bool) {
	col := int(math.Floor((x - v.minX) * v.scaleX))
	row := int(math.Floor((v.maxZ - z) * v.scaleZ))
	if col < 0 || col >= v.cols || row < 0 || row >= v.rows {
		return 0, 0, false
	}
	return col, row, true
}

func (v view) fill(screen tcell.Screen, minX, minZ, maxX, maxZ float64, glyph rune, style tcell.Style) {
	c0 := int(math.Floor((minX - v.minX) * v.scaleX))
	c1 := int(math.Ceil((maxX-v.minX)*v.scaleX)) - 1
	r0 := int(math.Floor((v.maxZ - maxZ) * v.scaleZ))
	r1 := int(math.Ceil((v.maxZ-minZ)*v.scaleZ)) - 1
	for r := max(r0, 0); r <= min(r1, v.rows-1); r++ {
		for c := max(c0, 0); c <= min(c1, v.cols-1); c++ {
			screen.SetContent(c, r, glyph, nil, style)
		}
	}
}

// Draw renders w onto screen. It does not call Show.
func Draw(screen tcell.Screen, w *ecs.World) {
	screen.Clear()
	width, height := screen.Size()

	be, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		drawText(screen, 0, 0, "no level bounds", statusStyle)
		return
	}
	bounds, _ := ecs.Get(w, be, component.LevelBoundsComponent.Kind())
	v, ok := newView(bounds, width, height-1)
	if !ok {
		return
	}

	// Ground first, so everything else draws over it.
	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, t *component.Transform) {
		if col.Layer&component.LayerGround == 0 || col.Trigger {
			return
		}
		glyph, style := GlyphGround, groundStyle
		if t.Y+col.OffsetY+col.Height <= 0 {
			glyph, style = GlyphLow, lowStyle
		}
		v.fill(screen, t.X-col.Width/2, t.Z-col.Depth/2, t.X+col.Width/2, t.Z+col.Depth/2, glyph, style)
	})

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, t *component.Transform) {
		var glyph rune
		var style tcell.Style
		switch {
		case ecs.Has(w, e, component.ScenePortalComponent.Kind()):
			glyph, style = GlyphPortal, portalStyle
		case col.Layer&component.LayerHazard != 0:
			glyph, style = GlyphHazard, hazardStyle
		case col.Layer&component.LayerPickup != 0:
			glyph, style = GlyphPickup, pickupStyle
		default:
			return
		}
		if c, r, ok := v.cell(t.X, t.Z); ok {
			screen.SetContent(c, r, glyph, nil, style)
		}
	})

	ecs.ForEach2(w, component.VelocityComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Velocity, t *component.Transform) {
		if c, r, ok := v.cell(t.X, t.Z); ok {
			screen.SetContent(c, r, GlyphBody, nil, bodyStyle)
		}
	})

	ecs.ForEach2(w, component.EnemyTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.EnemyTag, t *component.Transform) {
		if c, r, ok := v.cell(t.X, t.Z); ok {
			screen.SetContent(c, r, GlyphEnemy, nil, enemyStyle)
		}
	})

	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, t *component.Transform) {
		if c, r, ok := v.cell(t.X, t.Z); ok {
			screen.SetContent(c, r, GlyphPlayer, nil, playerStyle)
		}
	})

	drawText(screen, 0, height-1, Status(w), statusStyle)
}

// Status is the one-line summary under the map.
func Status(w *ecs.World) string {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return "no player"
	}
	line := ""
	if h, ok := ecs.Get(w, player, component.HealthComponent.Kind()); ok {
		line += fmt.Sprintf("HP %d/%d  ", h.Current, h.Max)
	}
	if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		line += fmt.Sprintf("pos %.1f %.1f %.1f  ", t.X, t.Y, t.Z)
	}
	if m, ok := ecs.Get(w, player, component.MotionComponent.Kind()); ok {
		line += fmt.Sprintf("speed %.2f grounded %v", m.Speed, m.Grounded)
	}
	return line
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
