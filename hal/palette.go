package hal

// Palette RAM access. Each palette is 16 words of packed color; the
// backdrop color sits at the very last word of the second bank.
//
// Color format: bit 15 is the dark bit (halves intensity), bits 14-12
// carry the least significant bit of each channel, bits 11-8, 7-4 and
// 3-0 the upper four bits of red, green and blue.

const (
	PaletteSize  = 16
	PaletteCount = 256
)

// Dark bit. Set on color 0 by Clear so a cleared palette reads as
// reserved rather than bright black.
const ColorDark = 0x8000

// RGB packs 5-bit channel values into the hardware color format.
func RGB(r, g, b uint8) uint16 {
	return uint16(r&0x01)<<14 | uint16(g&0x01)<<13 | uint16(b&0x01)<<12 |
		uint16(r>>1)<<8 | uint16(g>>1)<<4 | uint16(b>>1)
}

type Palette struct {
	bus Bus
}

func NewPalette(bus Bus) *Palette {
	return &Palette{bus: bus}
}

func paletteAddr(index uint8, entry int) uint32 {
	return PalRAMBase + (uint32(index)*PaletteSize+uint32(entry))*2
}

// Set writes one 16-entry palette. Short slices leave the remaining
// entries untouched; extra entries are ignored.
func (p *Palette) Set(index uint8, colors []uint16) {
	n := len(colors)
	if n > PaletteSize {
		n = PaletteSize
	}
	for i := 0; i < n; i++ {
		p.bus.Write16(paletteAddr(index, i), colors[i])
	}
}

// Backup reads one palette back into the given buffer, which must hold
// at least 16 entries.
func (p *Palette) Backup(index uint8, dst []uint16) {
	n := len(dst)
	if n > PaletteSize {
		n = PaletteSize
	}
	for i := 0; i < n; i++ {
		dst[i] = p.bus.Read16(paletteAddr(index, i))
	}
}

// Restore is Set under a name that pairs with Backup.
func (p *Palette) Restore(index uint8, colors []uint16) {
	p.Set(index, colors)
}

// Copy duplicates one palette into another slot via palette RAM.
func (p *Palette) Copy(dst, src uint8) {
	if dst == src {
		return
	}
	for i := 0; i < PaletteSize; i++ {
		p.bus.Write16(paletteAddr(dst, i), p.bus.Read16(paletteAddr(src, i)))
	}
}

// Fill sets all 16 entries of a palette to one color.
func (p *Palette) Fill(index uint8, color uint16) {
	for i := 0; i < PaletteSize; i++ {
		p.bus.Write16(paletteAddr(index, i), color)
	}
}

// Clear zeroes a palette, leaving the dark bit set on color 0.
func (p *Palette) Clear(index uint8) {
	p.bus.Write16(paletteAddr(index, 0), ColorDark)
	for i := 1; i < PaletteSize; i++ {
		p.bus.Write16(paletteAddr(index, i), 0)
	}
}

// SetBackdrop sets the color shown where nothing else is drawn.
func (p *Palette) SetBackdrop(color uint16) {
	p.bus.Write16(PalRAMBackdrop, color)
}

// Backdrop reads the current backdrop color.
func (p *Palette) Backdrop() uint16 {
	return p.bus.Read16(PalRAMBackdrop)
}
