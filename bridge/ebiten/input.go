//go:build !headless

package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/manicakes/progearhal/sim"
)

// Default keyboard layout for player 1. Player 2 plays on the first
// connected gamepad.
//
//	arrows      joystick
//	Z X C V     A B C D
//	Enter       Start
//	RShift      Select
//	5 / 6       coin slots
//	9           service
var p1Keys = struct {
	up, down, left, right ebiten.Key
	a, b, c, d            ebiten.Key
	start, sel            ebiten.Key
}{
	up: ebiten.KeyArrowUp, down: ebiten.KeyArrowDown,
	left: ebiten.KeyArrowLeft, right: ebiten.KeyArrowRight,
	a: ebiten.KeyZ, b: ebiten.KeyX, c: ebiten.KeyC, d: ebiten.KeyV,
	start: ebiten.KeyEnter, sel: ebiten.KeyShiftRight,
}

// pollInput samples the host keyboard and gamepads and drives the
// console's raw input lines. Runs once per Update tick, before the
// HAL's own frame sampling.
func pollInput(console *sim.Console) {
	console.SetP1(
		ebiten.IsKeyPressed(p1Keys.up),
		ebiten.IsKeyPressed(p1Keys.down),
		ebiten.IsKeyPressed(p1Keys.left),
		ebiten.IsKeyPressed(p1Keys.right),
		ebiten.IsKeyPressed(p1Keys.a),
		ebiten.IsKeyPressed(p1Keys.b),
		ebiten.IsKeyPressed(p1Keys.c),
		ebiten.IsKeyPressed(p1Keys.d),
	)
	console.SetStartSelect(0,
		ebiten.IsKeyPressed(p1Keys.start),
		ebiten.IsKeyPressed(p1Keys.sel),
	)

	console.SetSystemLines(
		ebiten.IsKeyPressed(ebiten.KeyDigit5),
		ebiten.IsKeyPressed(ebiten.KeyDigit6),
		ebiten.IsKeyPressed(ebiten.KeyDigit9),
	)

	pollGamepad(console)
}

func pollGamepad(console *sim.Console) {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		console.SetP2(false, false, false, false, false, false, false, false)
		return
	}
	id := ids[0]

	pressed := func(b ebiten.StandardGamepadButton) bool {
		return ebiten.IsStandardGamepadButtonPressed(id, b)
	}

	console.SetP2(
		pressed(ebiten.StandardGamepadButtonLeftTop),
		pressed(ebiten.StandardGamepadButtonLeftBottom),
		pressed(ebiten.StandardGamepadButtonLeftLeft),
		pressed(ebiten.StandardGamepadButtonLeftRight),
		pressed(ebiten.StandardGamepadButtonRightBottom),
		pressed(ebiten.StandardGamepadButtonRightRight),
		pressed(ebiten.StandardGamepadButtonRightLeft),
		pressed(ebiten.StandardGamepadButtonRightTop),
	)
	console.SetStartSelect(1,
		pressed(ebiten.StandardGamepadButtonCenterRight),
		pressed(ebiten.StandardGamepadButtonCenterLeft),
	)
}
