package hal

// Sprite control blocks (SCB):
//
// Every hardware sprite slot is described by four VRAM tables:
//   SCB1 (0x0000): tile index + attribute word per row, 32 rows, 64
//                  words per sprite
//   SCB2 (0x8000): shrink value, 1 word per sprite
//                  [11-8] H-shrink (4-bit)  [7-0] V-shrink (8-bit)
//   SCB3 (0x8200): [15-7] Y position  [6] sticky  [5-0] height in tiles
//   SCB4 (0x8400): [15-7] X position
//
// A chain of adjacent slots renders as one tall logical sprite: the
// first slot carries the Y position and height, every following slot
// carries only the sticky bit and inherits both. X is independent per
// column.
//
// Coordinates are inverted on this hardware: hardware Y 496 is the top
// of the screen and the value decreases as screen Y increases, wrapping
// at 512 (9-bit field).

const (
	SCB1Base = 0x0000
	SCB2Base = 0x8000
	SCB3Base = 0x8200
	SCB4Base = 0x8400

	// SCB1 layout: 64 words per sprite (32 tile rows x 2 words)
	SCB1SpriteSize   = 64
	SCB1WordsPerTile = 2

	SpriteMax       = 381
	SpriteMaxHeight = 32

	// Sticky bit: sprite inherits Y and height from the previous slot
	SCB3Sticky = 0x40

	// Full-size shrink value (H = 15, V = 255)
	ShrinkNone = 0x0FFF

	// SCB1 attribute word bits
	AttrPaletteShift = 8
	AttrHFlip        = 0x01
	AttrVFlip        = 0x02
)

// ScreenToHardwareY converts a screen Y coordinate (0 = top) to the
// 9-bit hardware Y value.
func ScreenToHardwareY(screenY int16) uint16 {
	return uint16(496-screenY) & 0x1FF
}

// PackSCB3 builds the SCB3 word for a sprite: hardware Y in bits 15-7,
// height in tiles in bits 5-0.
func PackSCB3(screenY int16, height uint8) uint16 {
	return ScreenToHardwareY(screenY)<<7 | uint16(height&0x3F)
}

// PackSCB4 builds the SCB4 word: 9-bit X position in bits 15-7.
func PackSCB4(screenX int16) uint16 {
	return uint16(screenX&0x1FF) << 7
}

// TileAttr builds an SCB1 attribute word from a palette index and flip
// flags.
func TileAttr(palette uint8, hFlip, vFlip bool) uint16 {
	attr := uint16(palette) << AttrPaletteShift
	if hFlip {
		attr |= AttrHFlip
	}
	if vFlip {
		attr |= AttrVFlip
	}
	return attr
}

// AdjustedHeight returns how many tile rows are visible after vertical
// shrink, so callers can skip writing rows that will not be drawn.
// vShrink 255 = full size. The result is clamped to [1, 32].
func AdjustedHeight(rows, vShrink uint8) uint8 {
	// Ceiling division: (rows * vShrink + 254) / 255
	adjusted := (uint16(rows)*uint16(vShrink) + 254) / 255
	if adjusted < 1 {
		adjusted = 1
	}
	if adjusted > SpriteMaxHeight {
		adjusted = SpriteMaxHeight
	}
	return uint8(adjusted)
}

// Sprites renders sprite control blocks through the VRAM sequencer.
// Out-of-range slot indices are clamped or ignored rather than
// signaled: skipping one draw call beats aborting a frame.
type Sprites struct {
	vram *VRAM
}

func NewSprites(vram *VRAM) *Sprites {
	return &Sprites{vram: vram}
}

// clampRange limits [first, first+count) to the sprite pool. Returns
// the adjusted count, 0 if the range is entirely out of bounds.
func clampRange(first uint16, count int) int {
	if first >= SpriteMax || count <= 0 {
		return 0
	}
	if int(first)+count > SpriteMax {
		count = SpriteMax - int(first)
	}
	return count
}

// WriteTileColumn writes (tile, attr) pairs for one sprite column, then
// zero-fills the remaining rows up to 32. The padding matters: stale
// tile data past the written rows reappears if the sprite is later
// drawn taller.
func (s *Sprites) WriteTileColumn(slot uint16, tiles, attrs []uint16) {
	if slot >= SpriteMax {
		return
	}
	rows := len(tiles)
	if len(attrs) < rows {
		rows = len(attrs)
	}
	if rows > SpriteMaxHeight {
		rows = SpriteMaxHeight
	}

	w := s.vram.Open(SCB1Base+slot*SCB1SpriteSize, 1)
	for row := 0; row < rows; row++ {
		w.Write(tiles[row])
		w.Write(attrs[row])
	}
	w.Clear((SpriteMaxHeight - rows) * SCB1WordsPerTile)
	w.Close()
}

// WriteTile writes a single tile/attribute pair, bypassing the bulk
// path. More efficient than WriteTileColumn for one-row updates.
func (s *Sprites) WriteTile(slot uint16, row uint8, tile, attr uint16) {
	if slot >= SpriteMax || row >= SpriteMaxHeight {
		return
	}
	addr := SCB1Base + slot*SCB1SpriteSize + uint16(row)*SCB1WordsPerTile
	w := s.vram.Open(addr, 1)
	w.Write(tile)
	w.Write(attr)
	w.Close()
}

// SetShrink fills a range of SCB2 entries with one shrink value.
func (s *Sprites) SetShrink(first uint16, count int, shrink uint16) {
	count = clampRange(first, count)
	if count == 0 {
		return
	}
	w := s.vram.Open(SCB2Base+first, 1)
	w.Fill(shrink, count)
	w.Close()
}

// SetShrinkSmooth distributes a full 8-bit horizontal shrink across a
// chain. The hardware only has a 4-bit H-shrink per sprite; varying the
// per-column value by error accumulation approximates the full
// precision so wide scaled sprites shrink smoothly instead of in
// 1/16 steps.
func (s *Sprites) SetShrinkSmooth(first uint16, count int, shrink uint16) {
	count = clampRange(first, count)
	if count == 0 {
		return
	}

	hShrink := uint8(shrink >> 8) // full 8-bit horizontal
	vShrink := uint8(shrink)

	w := s.vram.Open(SCB2Base+first, 1)
	if count == 1 {
		w.Write(uint16(hShrink>>4)<<8 | uint16(vShrink))
		w.Close()
		return
	}

	base := hShrink >> 4   // integer part (0-15)
	frac := hShrink & 0x0F // fractional part, in 1/16ths
	err := 8               // start centered so rounding is unbiased

	for i := 0; i < count; i++ {
		h := base
		err += int(frac)
		if err >= 16 {
			err -= 16
			if h < 15 {
				h++
			}
		}
		w.Write(uint16(h)<<8 | uint16(vShrink))
	}
	w.Close()
}

// PositionY writes one sprite's SCB3 entry.
func (s *Sprites) PositionY(slot uint16, screenY int16, height uint8) {
	if slot >= SpriteMax {
		return
	}
	w := s.vram.Open(SCB3Base+slot, 1)
	w.Write(PackSCB3(screenY, height))
	w.Close()
}

// PositionChainY positions a chain: the first slot gets the packed
// Y/height word, every remaining slot gets only the sticky marker so
// the hardware keeps it vertically aligned with the first.
func (s *Sprites) PositionChainY(first uint16, count int, screenY int16, height uint8) {
	count = clampRange(first, count)
	if count == 0 {
		return
	}
	w := s.vram.Open(SCB3Base+first, 1)
	w.Write(PackSCB3(screenY, height))
	w.Fill(SCB3Sticky, count-1)
	w.Close()
}

// PositionYUniform gives every slot in the range its own identical
// Y/height word. Unlike a chain, each slot stays independently
// positionable afterwards.
func (s *Sprites) PositionYUniform(first uint16, count int, screenY int16, height uint8) {
	count = clampRange(first, count)
	if count == 0 {
		return
	}
	w := s.vram.Open(SCB3Base+first, 1)
	w.Fill(PackSCB3(screenY, height), count)
	w.Close()
}

// PositionX writes one sprite's SCB4 entry.
func (s *Sprites) PositionX(slot uint16, screenX int16) {
	if slot >= SpriteMax {
		return
	}
	w := s.vram.Open(SCB4Base+slot, 1)
	w.Write(PackSCB4(screenX))
	w.Close()
}

// PositionChainX writes X positions for a chain of count columns.
// Column i sits at x + i*16*zoom/16; zoom 16 is 100% scale, so at full
// size the columns tile seamlessly 16 pixels apart.
func (s *Sprites) PositionChainX(first uint16, count int, screenX int16, zoom uint8) {
	count = clampRange(first, count)
	if count == 0 {
		return
	}
	w := s.vram.Open(SCB4Base+first, 1)
	for col := 0; col < count; col++ {
		colX := screenX + int16(col*16*int(zoom)>>4)
		w.Write(PackSCB4(colX))
	}
	w.Close()
}

// PositionXSpaced writes X positions at a fixed spacing. Used for
// grids and strips where the columns are not zoom-coupled.
func (s *Sprites) PositionXSpaced(first uint16, count int, baseX, spacing int16) {
	count = clampRange(first, count)
	if count == 0 {
		return
	}
	w := s.vram.Open(SCB4Base+first, 1)
	x := baseX
	for col := 0; col < count; col++ {
		w.Write(PackSCB4(x))
		x += spacing
	}
	w.Close()
}

// Hide zero-fills the SCB3 entries for a range of slots. Height 0 makes
// the hardware skip the slot entirely.
func (s *Sprites) Hide(first uint16, count int) {
	count = clampRange(first, count)
	if count == 0 {
		return
	}
	w := s.vram.Open(SCB3Base+first, 1)
	w.Clear(count)
	w.Close()
}

// HideAll hides every sprite slot.
func (s *Sprites) HideAll() {
	s.Hide(0, SpriteMax)
}

// BeginTiles opens a batched SCB1 session for one sprite column. The
// returned session keeps the sequencer open across many single-row
// writes, avoiding per-row address setup in hot loops.
func (s *Sprites) BeginTiles(slot uint16) *TileSession {
	if slot >= SpriteMax {
		slot = SpriteMax - 1
	}
	return &TileSession{
		w: s.vram.Open(SCB1Base+slot*SCB1SpriteSize, 1),
	}
}

// TileSession is an open SCB1 tile-column write session. Rows are
// written top to bottom; PadTo32 clears whatever was not written.
type TileSession struct {
	w    *VRAMSession
	rows int
}

// Write writes one tile row with a packed attribute built from the
// palette and flip flags.
func (t *TileSession) Write(tile uint16, palette uint8, hFlip, vFlip bool) {
	t.WriteRaw(tile, TileAttr(palette, hFlip, vFlip))
}

// WriteRaw writes one tile row with a caller-supplied attribute word.
func (t *TileSession) WriteRaw(tile, attr uint16) {
	t.w.Write(tile)
	t.w.Write(attr)
	t.rows++
}

// WriteEmpty writes one blank row.
func (t *TileSession) WriteEmpty() {
	t.WriteRaw(0, 0)
}

// PadTo32 zero-fills the rows not yet written, up to the 32-row
// maximum, and closes the session.
func (t *TileSession) PadTo32() {
	if t.rows < SpriteMaxHeight {
		t.w.Clear((SpriteMaxHeight - t.rows) * SCB1WordsPerTile)
	}
	t.w.Close()
}

// Close closes the session without padding.
func (t *TileSession) Close() {
	t.w.Close()
}

// BeginX opens a batched SCB4 session starting at the given slot, for
// per-frame loops that reposition many columns in sequence.
func (s *Sprites) BeginX(first uint16) *XSession {
	if first >= SpriteMax {
		first = SpriteMax - 1
	}
	return &XSession{w: s.vram.Open(SCB4Base+first, 1)}
}

// XSession is an open SCB4 write session.
type XSession struct {
	w *VRAMSession
}

// Next writes the next column's X position.
func (x *XSession) Next(screenX int16) {
	x.w.Write(PackSCB4(screenX))
}

// Close closes the session.
func (x *XSession) Close() {
	x.w.Close()
}
