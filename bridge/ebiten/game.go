//go:build !headless

// Package ebiten hosts the simulated console in an Ebiten window:
// framebuffer scaling, keyboard and gamepad input, and audio output.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/manicakes/progearhal/hal"
	"github.com/manicakes/progearhal/sim"
)

// FrameFunc is the per-frame game callback. It runs after the HAL's
// FrameStart, so input records are fresh and the frame arena is empty.
type FrameFunc func(h *hal.HAL)

// Game runs the HAL frame loop against a simulated console inside the
// Ebiten main loop.
type Game struct {
	console  *sim.Console
	renderer *sim.Renderer
	hal      *hal.HAL
	frame    FrameFunc
	audio    *AudioPlayer

	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
}

// NewGame builds the full stack: console, renderer, HAL and audio
// output. The audio player is optional; pass nil to run silent.
func NewGame(frame FrameFunc, audio *AudioPlayer) *Game {
	console := sim.NewConsole()
	g := &Game{
		console:  console,
		renderer: sim.NewRenderer(console),
		hal:      hal.New(console),
		frame:    frame,
		audio:    audio,
	}
	g.hal.Init()
	return g
}

// Console exposes the simulated hardware for setup (DIPs, memory
// card, tile artwork via Renderer).
func (g *Game) Console() *sim.Console {
	return g.console
}

// Renderer exposes the framebuffer renderer for tile uploads.
func (g *Game) Renderer() *sim.Renderer {
	return g.renderer
}

// HAL exposes the hardware services for setup outside the frame loop.
func (g *Game) HAL() *hal.HAL {
	return g.hal
}

func (g *Game) Update() error {
	pollInput(g.console)

	// Ebiten's Update is the frame boundary, so the vblank flag is
	// raised here rather than by a raster interrupt.
	g.console.SetVBlank()
	g.hal.FrameStart()

	if g.frame != nil {
		g.frame(g.hal)
	}

	if g.audio != nil {
		g.audio.Queue(g.console.Audio().RenderFrame())
		g.console.Audio().ResetCapture()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.offscreen == nil {
		g.offscreen = ebiten.NewImage(sim.ScreenWidth, sim.ScreenHeight)
	}

	frame := g.renderer.RenderFrame()
	g.offscreen.WritePixels(frame.Pix)

	// Scale to fit the window, preserving aspect ratio, centered.
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(sim.ScreenWidth)
	nativeH := float64(sim.ScreenHeight)

	scale := float64(screenW) / nativeW
	if s := float64(screenH) / nativeH; s < scale {
		scale = s
	}

	offsetX := (float64(screenW) - nativeW*scale) / 2
	offsetY := (float64(screenH) - nativeH*scale) / 2

	g.drawOpts = ebiten.DrawImageOptions{}
	g.drawOpts.GeoM.Scale(scale, scale)
	g.drawOpts.GeoM.Translate(offsetX, offsetY)
	g.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(g.offscreen, &g.drawOpts)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Return window size so Draw controls the scaling.
	return outsideWidth, outsideHeight
}

// RunWindow opens a window for an already-constructed game and drives
// its loop until the window closes. Use this when the scene needs
// setup (tiles, palettes, DIPs) before the first frame.
func RunWindow(title string, scale int, g *Game) error {
	if scale < 1 {
		scale = 1
	}
	ebiten.SetWindowSize(sim.ScreenWidth*scale, sim.ScreenHeight*scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(g)
}

// Run is the one-call variant: build the stack, open the window, loop.
func Run(title string, scale int, frame FrameFunc, withAudio bool) error {
	var audio *AudioPlayer
	if withAudio {
		var err error
		audio, err = NewAudioPlayer()
		if err != nil {
			return err
		}
		defer audio.Close()
	}
	return RunWindow(title, scale, NewGame(frame, audio))
}
