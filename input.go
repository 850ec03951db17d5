package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the viewer's key state for one frame.
type Input struct {
	// CreateTable is true on the frame C was pressed.
	CreateTable bool
	// Start is true on the frame S was pressed.
	Start bool
	// Throw is true on the frame Space or the left mouse button was pressed.
	Throw bool
	// TurnX and TurnY are -1, 0 or +1 while an arrow key is held.
	TurnX float64
	TurnY float64
	// NextView cycles the projection.
	NextView bool
	// ToggleOverlay shows or hides the physics debug overlay.
	ToggleOverlay bool
	// Pause freezes the simulation.
	Pause bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and mouse.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	i.CreateTable = inpututil.IsKeyJustPressed(ebiten.KeyC)
	i.Start = inpututil.IsKeyJustPressed(ebiten.KeyS)
	i.Throw = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	i.NextView = inpututil.IsKeyJustPressed(ebiten.KeyV)
	i.ToggleOverlay = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.Pause = inpututil.IsKeyJustPressed(ebiten.KeyP)

	var tx, ty float64
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		tx += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		tx -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		ty += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		ty -= 1
	}

	// Gamepad: the right bottom button throws, the left stick aims.
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom) {
			i.Throw = true
		}
		if inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight) {
			i.Start = true
		}
		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx < -0.3 || lx > 0.3 {
			tx = -lx
		}
		if ly < -0.3 || ly > 0.3 {
			ty = -ly
		}
	}

	i.TurnX = tx
	i.TurnY = ty
}
