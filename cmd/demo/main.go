//go:build !headless

// Command demo runs a small interactive scene on the simulated
// console: a zoomable sprite chain moved with the joystick, a text
// HUD on the fix layer, and sound effects on the action buttons.
package main

import (
	"flag"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/manicakes/progearhal/bridge/ebiten"
	"github.com/manicakes/progearhal/hal"
)

const (
	chainFirst = 0
	chainCols  = 4
	chainRows  = 4

	fontBase = 0x0200
	hudPal   = 0
)

type demo struct {
	x, y  int16
	zoom  uint8
	track uint8
}

func (d *demo) frame(h *hal.HAL) {
	d.x += int16(h.Input.AxisX(0)) * 2
	d.y += int16(h.Input.AxisY(0)) * 2

	pressed := h.Input.Pressed(0)
	if pressed&hal.BtnA != 0 {
		h.Audio.PlaySfx(1)
	}
	if pressed&hal.BtnB != 0 {
		h.Audio.PlaySfxPan(2, hal.PanLeft)
	}
	if pressed&hal.BtnC != 0 {
		h.Audio.PlaySfxPan(2, hal.PanRight)
	}
	if pressed&hal.BtnD != 0 {
		if d.zoom > 4 {
			d.zoom -= 4
		} else {
			d.zoom = 16
		}
		hShrink := uint16(d.zoom)*16 - 1
		h.Sprites.SetShrinkSmooth(chainFirst, chainCols, hShrink<<8|0x00FF)
	}
	if pressed&hal.BtnStart != 0 {
		if h.Audio.MusicPlaying() {
			h.Audio.PauseMusic()
		} else if h.Audio.MusicPaused() {
			h.Audio.ResumeMusic()
		} else {
			h.Audio.PlayMusic(d.track)
		}
	}

	h.Sprites.PositionChainY(chainFirst, chainCols, d.y, chainRows)
	h.Sprites.PositionChainX(chainFirst, chainCols, d.x, d.zoom)

	h.Fix.Text(1, 1, "PROGEAR HAL DEMO", hudPal, fontBase)
	if h.Input.Held(0)&hal.BtnA != 0 {
		h.Fix.Text(1, 3, "SFX", hudPal, fontBase)
	} else {
		h.Fix.Clear(1, 3, 3, 1)
	}
}

// setupScene uploads tiles and palettes and lays out the sprite chain
// once, before the frame loop starts.
func setupScene(g *ebiten.Game) {
	h := g.HAL()

	h.Palette.SetBackdrop(hal.RGB(2, 2, 8))
	h.Palette.Set(1, []uint16{
		0, hal.RGB(31, 8, 8), hal.RGB(8, 31, 8), hal.RGB(8, 8, 31),
		hal.RGB(31, 31, 8), hal.RGB(31, 8, 31), hal.RGB(8, 31, 31),
		hal.RGB(24, 24, 24), hal.RGB(12, 12, 12), hal.RGB(31, 16, 0),
		hal.RGB(0, 16, 31), hal.RGB(16, 31, 0), hal.RGB(31, 0, 16),
		hal.RGB(16, 0, 31), hal.RGB(0, 31, 16), hal.RGB(31, 31, 31),
	})
	h.Palette.Set(hudPal, []uint16{
		0, hal.RGB(31, 31, 31), hal.RGB(0, 0, 0), hal.RGB(16, 16, 16),
	})

	attr := hal.TileAttr(1, false, false)
	for col := uint16(0); col < chainCols; col++ {
		t := h.Sprites.BeginTiles(chainFirst + col)
		for row := 0; row < chainRows; row++ {
			t.WriteRaw(uint16(row)*chainCols+col+1, attr)
		}
		t.PadTo32()
	}
	h.Sprites.SetShrink(chainFirst, chainCols, hal.ShrinkNone)
}

func main() {
	scale := flag.Int("scale", 3, "window scale factor")
	mute := flag.Bool("mute", false, "disable audio output")
	mvs := flag.Bool("mvs", false, "run as an arcade cabinet")
	flag.Parse()

	logger := log.NewWithConfig(log.DefaultConfig())

	d := &demo{x: 140, y: 90, zoom: 16}

	err := func() error {
		var audio *ebiten.AudioPlayer
		if !*mute {
			var err error
			audio, err = ebiten.NewAudioPlayer()
			if err != nil {
				return err
			}
			defer audio.Close()
		}

		game := ebiten.NewGame(d.frame, audio)
		game.Console().SetMVS(*mvs)
		setupScene(game)

		return ebiten.RunWindow("ProGear HAL demo", *scale, game)
	}()
	if err != nil {
		logger.Error("Demo exited", log.Err(err))
		os.Exit(1)
	}
}
