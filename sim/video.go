package sim

import (
	"image"
	"image/color"

	"github.com/manicakes/progearhal/hal"
)

const (
	ScreenWidth  = 320
	ScreenHeight = 224
)

// Renderer draws the console's sprite and fix tables into an RGBA
// framebuffer. Rendering works from the register file alone, so
// whatever the HAL wrote is exactly what shows up.
//
// Tile artwork comes from SetTile / SetFixTile. Tiles with no uploaded
// artwork render a procedural pattern so sprite placement is visible
// without a full asset pipeline.
type Renderer struct {
	console     *Console
	framebuffer *image.RGBA

	tiles    map[uint16][]uint8 // 16x16 palette indices per sprite tile
	fixTiles map[uint16][]uint8 // 8x8 palette indices per fix tile
}

func NewRenderer(console *Console) *Renderer {
	return &Renderer{
		console:     console,
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
		tiles:       make(map[uint16][]uint8),
		fixTiles:    make(map[uint16][]uint8),
	}
}

// SetTile uploads sprite tile artwork: 256 palette indices, row-major
// 16x16. Index 0 is transparent.
func (r *Renderer) SetTile(tile uint16, pixels []uint8) {
	if len(pixels) != 256 {
		return
	}
	data := make([]uint8, 256)
	copy(data, pixels)
	r.tiles[tile] = data
}

// SetFixTile uploads fix tile artwork: 64 palette indices, row-major
// 8x8. Index 0 is transparent.
func (r *Renderer) SetFixTile(tile uint16, pixels []uint8) {
	if len(pixels) != 64 {
		return
	}
	data := make([]uint8, 64)
	copy(data, pixels)
	r.fixTiles[tile] = data
}

// tilePixel returns the palette index of one sprite tile pixel.
func (r *Renderer) tilePixel(tile uint16, x, y int) uint8 {
	if data, ok := r.tiles[tile]; ok {
		return data[y*16+x]
	}
	// Procedural fallback: a checker keyed off the tile index, with a
	// solid border so tile boundaries are visible
	if x == 0 || y == 0 || x == 15 || y == 15 {
		return 15
	}
	return uint8((x/2^y/2)+int(tile))&0x07 + 1
}

func (r *Renderer) fixPixel(tile uint16, x, y int) uint8 {
	if data, ok := r.fixTiles[tile]; ok {
		return data[y*8+x]
	}
	if x == 0 || y == 7 {
		return 0
	}
	return 15
}

// ColorToRGBA converts a packed palette word to a displayable color.
// The format spreads each channel's low bit into bits 14-12 and its
// high nibble into the low twelve bits; bit 15 halves the intensity.
func ColorToRGBA(c uint16) color.RGBA {
	r5 := uint8(c>>8&0x0F)<<1 | uint8(c>>14&0x01)
	g5 := uint8(c>>4&0x0F)<<1 | uint8(c>>13&0x01)
	b5 := uint8(c&0x0F)<<1 | uint8(c>>12&0x01)

	// 5-bit to 8-bit with bit replication
	r8 := r5<<3 | r5>>2
	g8 := g5<<3 | g5>>2
	b8 := b5<<3 | b5>>2

	if c&0x8000 != 0 {
		r8 >>= 1
		g8 >>= 1
		b8 >>= 1
	}
	return color.RGBA{R: r8, G: g8, B: b8, A: 0xFF}
}

// RenderFrame decodes the SCB tables and the fix layer into the
// framebuffer and returns it. The returned image is reused by the next
// call.
func (r *Renderer) RenderFrame() *image.RGBA {
	r.fillBackdrop()
	r.renderSprites()
	r.renderFix()
	return r.framebuffer
}

// Framebuffer returns the current frame without re-rendering.
func (r *Renderer) Framebuffer() *image.RGBA {
	return r.framebuffer
}

func (r *Renderer) fillBackdrop() {
	backdrop := ColorToRGBA(r.console.Read16(hal.PalRAMBackdrop))
	pix := r.framebuffer.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = backdrop.R
		pix[i+1] = backdrop.G
		pix[i+2] = backdrop.B
		pix[i+3] = 0xFF
	}
}

func (r *Renderer) renderSprites() {
	// Chain state: sticky slots inherit Y and height from the last
	// non-sticky slot.
	var chainY int
	var chainHeight int

	for slot := uint16(0); slot < hal.SpriteMax; slot++ {
		scb3 := r.console.VRAMWord(hal.SCB3Base + slot)

		if scb3&hal.SCB3Sticky != 0 {
			// Inherit from the chain head
		} else {
			chainHeight = int(scb3 & 0x3F)
			hwY := int(scb3 >> 7)
			chainY = (496 - hwY) & 0x1FF
		}

		if chainHeight == 0 {
			continue
		}
		height := chainHeight
		if height > hal.SpriteMaxHeight {
			height = hal.SpriteMaxHeight
		}

		x := int(r.console.VRAMWord(hal.SCB4Base+slot) >> 7)
		shrink := r.console.VRAMWord(hal.SCB2Base + slot)
		hShrink := int(shrink >> 8 & 0x0F)
		vShrink := int(shrink & 0xFF)

		r.renderSpriteColumn(slot, x, chainY, height, hShrink, vShrink)
	}
}

// renderSpriteColumn draws one hardware sprite: a 16-pixel-wide column
// of up to 32 tiles, scaled down by the shrink values.
func (r *Renderer) renderSpriteColumn(slot uint16, x, y, height, hShrink, vShrink int) {
	width := hShrink + 1                        // 1..16 pixels
	pxHeight := height * 16 * (vShrink + 1) / 256 // scaled total height
	scb1 := hal.SCB1Base + slot*hal.SCB1SpriteSize

	for py := 0; py < pxHeight; py++ {
		srcY := py * 256 / (vShrink + 1)
		row := srcY / 16
		if row >= height {
			break
		}
		rowY := srcY % 16

		tile := r.console.VRAMWord(scb1 + uint16(row)*hal.SCB1WordsPerTile)
		attr := r.console.VRAMWord(scb1 + uint16(row)*hal.SCB1WordsPerTile + 1)
		palette := uint8(attr >> hal.AttrPaletteShift)

		ty := rowY
		if attr&hal.AttrVFlip != 0 {
			ty = 15 - rowY
		}

		screenY := (y + py) & 0x1FF
		if screenY >= ScreenHeight {
			continue
		}

		for px := 0; px < width; px++ {
			tx := px * 16 / width
			if attr&hal.AttrHFlip != 0 {
				tx = 15 - tx
			}

			index := r.tilePixel(tile, tx, ty)
			if index == 0 {
				continue
			}

			screenX := (x + px) & 0x1FF
			if screenX >= ScreenWidth {
				continue
			}
			r.framebuffer.SetRGBA(screenX, screenY, r.paletteColor(palette, index))
		}
	}
}

func (r *Renderer) renderFix() {
	for fx := uint16(0); fx < hal.FixWidth; fx++ {
		for fy := uint16(0); fy < hal.FixHeight; fy++ {
			word := r.console.VRAMWord(hal.FixBase + fx*32 + fy)
			tile := word & 0x0FFF
			if tile == 0 {
				continue
			}
			palette := uint8(word >> 12)

			baseX := int(fx) * 8
			baseY := int(fy) * 8
			for py := 0; py < 8; py++ {
				if baseY+py >= ScreenHeight {
					break
				}
				for px := 0; px < 8; px++ {
					index := r.fixPixel(tile, px, py)
					if index == 0 {
						continue
					}
					r.framebuffer.SetRGBA(baseX+px, baseY+py, r.paletteColor(palette, index))
				}
			}
		}
	}
}

func (r *Renderer) paletteColor(palette, index uint8) color.RGBA {
	return ColorToRGBA(r.console.PaletteColor(palette, int(index)))
}
