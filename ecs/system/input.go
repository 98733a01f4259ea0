package system

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

type InputSettings struct {
	MouseSensitivity float64
	StickLookScale   float64
	StickDeadzone    float64
	// JumpButton is the on-screen jump button in screen pixels.
	JumpButton  image.Rectangle
	ScreenWidth int
}

// InputSystem samples ebiten devices once per frame and writes the
// snapshot into every Input component.
type InputSystem struct {
	settings InputSettings

	lastCursor image.Point
	hasCursor  bool

	lookTouch    ebiten.TouchID
	hasLookTouch bool
	lastTouch    image.Point

	touchIDs []ebiten.TouchID
}

func NewInputSystem(settings InputSettings) *InputSystem {
	return &InputSystem{settings: settings}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}

	moveX, moveY := keyboardMove()
	lookX, lookY := i.mouseLook()
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	sprint := ebiten.IsKeyPressed(ebiten.KeyShiftLeft)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if sx, sy := applyDeadzone(lx, -ly, i.settings.StickDeadzone); sx != 0 || sy != 0 {
			moveX, moveY = sx, sy
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if sx, sy := applyDeadzone(rx, -ry, i.settings.StickDeadzone); sx != 0 || sy != 0 {
			lookX += sx * i.settings.StickLookScale
			lookY += sy * i.settings.StickLookScale
		}

		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		sprint = sprint || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopLeft)
	}

	tx, ty, tapped := i.touchInput()
	lookX += tx
	lookY += ty
	jump = jump || tapped

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		jump = jump || image.Pt(x, y).In(i.settings.JumpButton)
	}

	moveX, moveY = clampMove(moveX, moveY)

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.MoveX = moveX
		in.MoveY = moveY
		in.LookX = lookX
		in.LookY = lookY
		in.Sprint = sprint
		// latched until the controller consumes it
		in.JumpPressed = in.JumpPressed || jump
	})
}

func keyboardMove() (float64, float64) {
	x, y := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		x -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		x += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		y -= 1
	}
	return x, y
}

// mouseLook returns the cursor delta while the right button is held or the
// cursor is captured. Screen Y grows downward, look Y grows upward.
func (i *InputSystem) mouseLook() (float64, float64) {
	x, y := ebiten.CursorPosition()
	cur := image.Pt(x, y)
	prev, had := i.lastCursor, i.hasCursor
	i.lastCursor, i.hasCursor = cur, true

	active := ebiten.CursorMode() == ebiten.CursorModeCaptured || ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if !active || !had || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		return 0, 0
	}
	d := cur.Sub(prev)
	s := i.settings.MouseSensitivity
	return float64(d.X) * s, -float64(d.Y) * s
}

// touchInput tracks one look drag in the right half of the screen and
// reports taps on the jump button.
func (i *InputSystem) touchInput() (lookX, lookY float64, jump bool) {
	i.touchIDs = inpututil.AppendJustPressedTouchIDs(i.touchIDs[:0])
	for _, id := range i.touchIDs {
		x, y := ebiten.TouchPosition(id)
		p := image.Pt(x, y)
		if p.In(i.settings.JumpButton) {
			jump = true
			continue
		}
		if !i.hasLookTouch && inLookZone(p, i.settings.ScreenWidth) {
			i.lookTouch, i.hasLookTouch = id, true
			i.lastTouch = p
		}
	}

	if !i.hasLookTouch {
		return 0, 0, jump
	}
	if inpututil.IsTouchJustReleased(i.lookTouch) {
		i.hasLookTouch = false
		return 0, 0, jump
	}

	x, y := ebiten.TouchPosition(i.lookTouch)
	p := image.Pt(x, y)
	d := p.Sub(i.lastTouch)
	i.lastTouch = p
	s := i.settings.MouseSensitivity
	return float64(d.X) * s, -float64(d.Y) * s, jump
}

func inLookZone(p image.Point, screenWidth int) bool {
	return screenWidth > 0 && p.X >= screenWidth/2
}

func applyDeadzone(x, y, deadzone float64) (float64, float64) {
	if math.Hypot(x, y) <= deadzone {
		return 0, 0
	}
	return x, y
}

// clampMove keeps the move vector inside the unit circle.
func clampMove(x, y float64) (float64, float64) {
	m := math.Hypot(x, y)
	if m <= 1 {
		return x, y
	}
	return x / m, y / m
}
