package hal

// Fix layer: a 40x32 grid of 8x8 tiles drawn above all sprites, used
// for HUDs and text. Fix VRAM is column-major:
//
//	address = FixBase + x*32 + y
//
// so writing a horizontal run uses auto-increment 32 (one column per
// write). Each tile is one word: [15-12] palette | [11-0] tile index.

const (
	FixBase   = 0x7000
	FixWidth  = 40
	FixHeight = 32
)

// packFixTile builds a fix tile word.
func packFixTile(tile uint16, palette uint8) uint16 {
	return uint16(palette)<<12 | tile&0x0FFF
}

// Fix renders the fix layer through the VRAM sequencer.
type Fix struct {
	vram *VRAM
}

func NewFix(vram *VRAM) *Fix {
	return &Fix{vram: vram}
}

func fixAddr(x, y uint8) uint16 {
	return FixBase + uint16(x)<<5 + uint16(y)
}

// Put writes a single fix tile. Out-of-range coordinates are ignored.
func (f *Fix) Put(x, y uint8, tile uint16, palette uint8) {
	if x >= FixWidth || y >= FixHeight {
		return
	}
	w := f.vram.Open(fixAddr(x, y), 1)
	w.Write(packFixTile(tile, palette))
	w.Close()
}

// Clear zero-fills a rectangle of fix tiles, row by row.
func (f *Fix) Clear(x, y, width, height uint8) {
	if x >= FixWidth || y >= FixHeight || width == 0 || height == 0 {
		return
	}
	count := int(width)
	if int(x)+count > FixWidth {
		count = FixWidth - int(x)
	}
	for row := uint8(0); row < height && y+row < FixHeight; row++ {
		w := f.vram.Open(fixAddr(x, y+row), 32)
		w.Clear(count)
		w.Close()
	}
}

// ClearAll zero-fills the whole fix layer.
func (f *Fix) ClearAll() {
	w := f.vram.Open(FixBase, 1)
	w.Clear(FixWidth * FixHeight)
	w.Close()
}

// Row writes a run of tiles left to right with a shared palette.
func (f *Fix) Row(x, y uint8, tiles []uint16, palette uint8) {
	if x >= FixWidth || y >= FixHeight || len(tiles) == 0 {
		return
	}
	w := f.vram.Open(fixAddr(x, y), 32)
	for i := 0; i < len(tiles) && int(x)+i < FixWidth; i++ {
		w.Write(packFixTile(tiles[i], palette))
	}
	w.Close()
}

// Text writes a string as fix tiles, mapping each byte to
// fontBase + byte. Returns the number of tiles written; the run stops
// at the right edge of the layer.
func (f *Fix) Text(x, y uint8, text string, palette uint8, fontBase uint16) int {
	if x >= FixWidth || y >= FixHeight || text == "" {
		return 0
	}
	w := f.vram.Open(fixAddr(x, y), 32)
	count := 0
	for i := 0; i < len(text) && x < FixWidth; i++ {
		w.Write(packFixTile(fontBase+uint16(text[i]), palette))
		x++
		count++
	}
	w.Close()
	return count
}
