package hal

// VRAM write protocol:
//
// The LSPC exposes video memory through three registers: an address
// register, a data port and a signed auto-increment. After each word
// written to the data port the device adds the auto-increment to the
// internal address. There is no bounds checking anywhere in the
// protocol - running past the end of a table silently wraps and
// produces visually wrong output, not an error.
//
// The device has a single internal cursor, so only one session may
// drive it at a time. Opening a session while another is mid-write
// corrupts both. Sessions returned by Open make the ordering explicit
// but do not (and cannot) enforce it.

// VRAMModDefault is the canonical auto-increment. Every call site
// assumes the modifier is 1 on entry, so sessions using a different
// step restore it on Close.
const VRAMModDefault = 1

// VRAM provides write sessions over the LSPC address/data/modifier
// registers.
type VRAM struct {
	bus Bus
}

func NewVRAM(bus Bus) *VRAM {
	return &VRAM{bus: bus}
}

// Open sets the VRAM address and auto-increment, establishing the write
// cursor. The address and step must both be set before the first data
// write; the returned session's writes hit the data port only.
func (v *VRAM) Open(addr uint16, step int16) *VRAMSession {
	v.bus.Write16(RegVRAMAddr, addr)
	v.bus.Write16(RegVRAMMod, uint16(step))
	return &VRAMSession{bus: v.bus, step: step}
}

// VRAMSession is one open write session. All writes go to the data
// port; the device advances the address by the session's step after
// each one.
type VRAMSession struct {
	bus  Bus
	step int16
}

// Write sends one word to the data port.
func (s *VRAMSession) Write(word uint16) {
	s.bus.Write16(RegVRAMData, word)
}

// Fill writes the same word count times. The device handles the address
// stepping, so no CPU-side address arithmetic is needed.
func (s *VRAMSession) Fill(word uint16, count int) {
	for i := 0; i < count; i++ {
		s.bus.Write16(RegVRAMData, word)
	}
}

// Clear zero-fills count words.
func (s *VRAMSession) Clear(count int) {
	s.Fill(0, count)
}

// Close restores the auto-increment to the canonical default if this
// session changed it. Call it when done with any non-default session.
func (s *VRAMSession) Close() {
	if s.step != VRAMModDefault {
		s.bus.Write16(RegVRAMMod, VRAMModDefault)
	}
}
