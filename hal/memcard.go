package hal

// Memory card access. The card occupies only the even bytes of its
// address window, so logical offset n maps to bus address base + n*2.

// MemcardSize is the usable capacity in bytes.
const MemcardSize = 0x800

// memcardSignature marks a formatted card.
var memcardSignature = []byte("NEO-GEO")

type Memcard struct {
	bus Bus
}

func NewMemcard(bus Bus) *Memcard {
	return &Memcard{bus: bus}
}

// Present reports whether a card is inserted. The status lines are
// active-low.
func (m *Memcard) Present() bool {
	return m.bus.Read8(RegCardStatus)&0x01 == 0
}

// WriteProtected reports the card's write protect switch.
func (m *Memcard) WriteProtected() bool {
	return m.bus.Read8(RegCardStatus)&0x02 == 0
}

// ReadByte reads one logical byte. An absent card and out-of-range
// offsets read 0xFF, matching an open bus.
func (m *Memcard) ReadByte(offset uint16) uint8 {
	if !m.Present() || offset >= MemcardSize {
		return 0xFF
	}
	return m.bus.Read8(MemcardBase + uint32(offset)*2)
}

// WriteByte writes one logical byte. Out-of-range offsets are ignored.
func (m *Memcard) WriteByte(offset uint16, value uint8) {
	if offset >= MemcardSize {
		return
	}
	m.bus.Write8(MemcardBase+uint32(offset)*2, value)
}

// Read copies card contents into dst starting at offset, clamped to
// the card size. Returns the number of bytes read, 0 when the card is
// absent.
func (m *Memcard) Read(offset uint16, dst []byte) int {
	if !m.Present() {
		return 0
	}
	if offset >= MemcardSize {
		return 0
	}
	n := len(dst)
	if int(offset)+n > MemcardSize {
		n = MemcardSize - int(offset)
	}
	for i := 0; i < n; i++ {
		dst[i] = m.bus.Read8(MemcardBase + (uint32(offset)+uint32(i))*2)
	}
	return n
}

// Write copies src onto the card starting at offset, clamped to the
// card size. Returns the number of bytes written, 0 when the card is
// absent or protected.
func (m *Memcard) Write(offset uint16, src []byte) int {
	if !m.Present() || m.WriteProtected() {
		return 0
	}
	if offset >= MemcardSize {
		return 0
	}
	n := len(src)
	if int(offset)+n > MemcardSize {
		n = MemcardSize - int(offset)
	}
	for i := 0; i < n; i++ {
		m.bus.Write8(MemcardBase+(uint32(offset)+uint32(i))*2, src[i])
	}
	return n
}

// Formatted reports whether the card carries the format signature.
func (m *Memcard) Formatted() bool {
	if !m.Present() {
		return false
	}
	for i, want := range memcardSignature {
		if m.ReadByte(uint16(i)) != want {
			return false
		}
	}
	return true
}

// Format writes the signature and zeroes the first 256 bytes of the
// card. Returns false when the card is absent or protected.
func (m *Memcard) Format() bool {
	if !m.Present() || m.WriteProtected() {
		return false
	}
	for i := 0; i < 256; i++ {
		m.WriteByte(uint16(i), 0)
	}
	for i, b := range memcardSignature {
		m.WriteByte(uint16(i), b)
	}
	return true
}

// Size returns the usable card capacity in bytes.
func (m *Memcard) Size() int {
	return MemcardSize
}
