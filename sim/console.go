// Package sim is a software model of the console's register file. It
// implements hal.Bus so HAL code can run unmodified against it: the
// VRAM sequencer, palette RAM, input ports, memory card window and the
// sound latch all behave like the hardware, and the sound side is
// backed by a real Z80 core running a small polling driver.
package sim

import (
	"github.com/manicakes/progearhal/hal"
)

// Console is the simulated register file. The zero value is not
// usable; construct with NewConsole.
type Console struct {
	vram     [0x10000]uint16
	vramAddr uint16
	vramMod  int16

	// 256 palettes of 16 entries; the backdrop word is the last slot
	palram [0x1000]uint16

	// Raw port lines, active-low like the hardware
	p1, p2  uint8
	statusA uint8
	statusB uint8
	dips    uint8

	memcard       [hal.MemcardSize]uint8
	cardPresent   bool
	cardProtected bool

	// Sparse backing for work RAM bytes (BIOS flags and whatever else
	// the program touches)
	workram map[uint32]uint8

	audio *AudioUnit

	// When vblankEvery is N > 0, the vblank flag self-sets after N
	// reads while clear, standing in for the raster interrupt.
	vblankEvery int
	vblankReads int

	watchdogKicks int
	coinPulses    [2]int
}

var _ hal.Bus = (*Console)(nil)

func NewConsole() *Console {
	return &Console{
		p1:      0xFF,
		p2:      0xFF,
		statusA: 0xFF,
		statusB: 0xFF,
		dips:    0xFF,
		workram: make(map[uint32]uint8),
		audio:   NewAudioUnit(),
	}
}

// Audio exposes the sound side for sample capture and fault injection.
func (c *Console) Audio() *AudioUnit {
	return c.audio
}

func (c *Console) Read8(addr uint32) uint8 {
	switch addr {
	case hal.RegP1:
		return c.p1
	case hal.RegP2:
		return c.p2
	case hal.RegDipsw:
		return c.dips
	case hal.RegSound:
		return c.audio.ReadReply()
	case hal.RegStatusA:
		return c.statusA
	case hal.RegStatusB:
		return c.statusB
	case hal.RegCardStatus:
		status := uint8(0xFF)
		if c.cardPresent {
			status &^= 0x01
		}
		if c.cardProtected {
			status &^= 0x02
		}
		return status
	case hal.BIOSVBlankFlag:
		v := c.workram[addr]
		if v == 0 && c.vblankEvery > 0 {
			c.vblankReads++
			if c.vblankReads >= c.vblankEvery {
				c.vblankReads = 0
				c.workram[addr] = 1
				v = 1
			}
		}
		return v
	}

	if addr >= hal.MemcardBase && addr&1 == 0 {
		offset := (addr - hal.MemcardBase) / 2
		if c.cardPresent && offset < hal.MemcardSize {
			return c.memcard[offset]
		}
		return 0xFF
	}

	return c.workram[addr]
}

func (c *Console) Write8(addr uint32, value uint8) {
	switch addr {
	case hal.RegSound:
		c.audio.WriteCommand(value)
		return
	case hal.RegWatchdog:
		c.watchdogKicks++
		return
	case hal.RegCoinCounter:
		if value != 0 {
			c.coinPulses[0]++
		}
		return
	case hal.RegCoinCounter + 2:
		if value != 0 {
			c.coinPulses[1]++
		}
		return
	}

	if addr >= hal.MemcardBase && addr&1 == 0 {
		offset := (addr - hal.MemcardBase) / 2
		if offset < hal.MemcardSize && c.cardPresent && !c.cardProtected {
			c.memcard[offset] = value
		}
		return
	}

	c.workram[addr] = value
}

func (c *Console) Read16(addr uint32) uint16 {
	switch addr {
	case hal.RegVRAMAddr:
		return c.vramAddr
	case hal.RegVRAMMod:
		return uint16(c.vramMod)
	case hal.RegVRAMData:
		return c.vram[c.vramAddr]
	}
	if addr >= hal.PalRAMBase && addr <= hal.PalRAMBackdrop {
		return c.palram[(addr-hal.PalRAMBase)/2]
	}
	return uint16(c.workram[addr])<<8 | uint16(c.workram[addr+1])
}

func (c *Console) Write16(addr uint32, value uint16) {
	switch addr {
	case hal.RegVRAMAddr:
		c.vramAddr = value
		return
	case hal.RegVRAMMod:
		c.vramMod = int16(value)
		return
	case hal.RegVRAMData:
		c.vram[c.vramAddr] = value
		c.vramAddr += uint16(c.vramMod)
		return
	}
	if addr >= hal.PalRAMBase && addr <= hal.PalRAMBackdrop {
		c.palram[(addr-hal.PalRAMBase)/2] = value
		return
	}
	c.workram[addr] = uint8(value >> 8)
	c.workram[addr+1] = uint8(value)
}

// VRAMWord reads video memory directly, bypassing the sequencer.
func (c *Console) VRAMWord(addr uint16) uint16 {
	return c.vram[addr]
}

// PaletteColor reads a palette entry directly.
func (c *Console) PaletteColor(palette uint8, entry int) uint16 {
	return c.palram[int(palette)*hal.PaletteSize+entry]
}

// SetP1 drives player 1's joystick and action button lines.
func (c *Console) SetP1(up, down, left, right, a, b, btnC, d bool) {
	c.p1 = packJoystick(up, down, left, right, a, b, btnC, d)
}

// SetP2 drives player 2's joystick and action button lines.
func (c *Console) SetP2(up, down, left, right, a, b, btnC, d bool) {
	c.p2 = packJoystick(up, down, left, right, a, b, btnC, d)
}

func packJoystick(up, down, left, right, a, b, btnC, d bool) uint8 {
	lines := uint8(0xFF)
	if up {
		lines &^= 0x01
	}
	if down {
		lines &^= 0x02
	}
	if left {
		lines &^= 0x04
	}
	if right {
		lines &^= 0x08
	}
	if a {
		lines &^= 0x10
	}
	if b {
		lines &^= 0x20
	}
	if btnC {
		lines &^= 0x40
	}
	if d {
		lines &^= 0x80
	}
	return lines
}

// SetStartSelect drives one player's start and select lines.
func (c *Console) SetStartSelect(player int, start, sel bool) {
	shift := uint(0)
	if player == 1 {
		shift = 2
	}
	mask := uint8(0x03) << shift
	c.statusB |= mask
	if start {
		c.statusB &^= 0x01 << shift
	}
	if sel {
		c.statusB &^= 0x02 << shift
	}
}

// SetSystemLines drives the coin and service lines.
func (c *Console) SetSystemLines(coin1, coin2, service bool) {
	c.statusA = 0xFF
	if coin1 {
		c.statusA &^= 0x01
	}
	if coin2 {
		c.statusA &^= 0x02
	}
	if service {
		c.statusA &^= 0x04
	}
}

// SetDIP sets the cabinet DIP switches from an active-high mask.
func (c *Console) SetDIP(mask uint8) {
	c.dips = ^mask
}

// SetMVS selects arcade or home hardware identity.
func (c *Console) SetMVS(mvs bool) {
	if mvs {
		c.workram[hal.BIOSMVSFlag] = 1
	} else {
		c.workram[hal.BIOSMVSFlag] = 0
	}
}

// SetCountry sets the BIOS region byte.
func (c *Console) SetCountry(country uint8) {
	c.workram[hal.BIOSCountry] = country
}

// InsertCard makes a memory card visible on the status lines.
func (c *Console) InsertCard(writeProtected bool) {
	c.cardPresent = true
	c.cardProtected = writeProtected
}

// EjectCard removes the memory card.
func (c *Console) EjectCard() {
	c.cardPresent = false
}

// CardData exposes the raw card contents for test setup.
func (c *Console) CardData() []uint8 {
	return c.memcard[:]
}

// SetVBlank raises the vblank flag, as the raster interrupt would.
func (c *Console) SetVBlank() {
	c.workram[hal.BIOSVBlankFlag] = 1
}

// SetVBlankEvery makes the vblank flag self-set after every n reads
// while clear, so frame loops run without a real interrupt source.
// n = 0 disables the automatic flag.
func (c *Console) SetVBlankEvery(n int) {
	c.vblankEvery = n
	c.vblankReads = 0
}

// WatchdogKicks reports how many times the watchdog was pet.
func (c *Console) WatchdogKicks() int {
	return c.watchdogKicks
}

// CoinPulses reports how many times a coin counter was pulsed.
func (c *Console) CoinPulses(slot int) int {
	if slot < 0 || slot > 1 {
		return 0
	}
	return c.coinPulses[slot]
}
