package hal

// testBus is an in-memory register file that models the hardware
// behaviors the package depends on: the VRAM address/modifier cursor,
// the sound latch echo handshake and the vblank flag. Everything else
// is plain byte and word storage.
type testBus struct {
	mem8  map[uint32]uint8
	mem16 map[uint32]uint16

	// VRAM sequencer model
	vram     [0x10000]uint16
	vramAddr uint16
	vramMod  int16

	// Sound latch. When soundDead is set the coprocessor never
	// acknowledges; soundPolls counts reads of the latch in that mode.
	soundCommands []uint8
	soundEcho     uint8
	soundDead     bool
	soundPolls    int

	// When vblankAfter is N > 0, the vblank flag reads 0 for N reads
	// and then self-sets, standing in for the interrupt handler.
	vblankAfter int

	watchdogKicks int
}

func newTestBus() *testBus {
	b := &testBus{
		mem8:  make(map[uint32]uint8),
		mem16: make(map[uint32]uint16),
	}
	// Active-low ports idle high (nothing pressed, no card, DIPs off).
	b.mem8[RegP1] = 0xFF
	b.mem8[RegP2] = 0xFF
	b.mem8[RegStatusA] = 0xFF
	b.mem8[RegStatusB] = 0xFF
	b.mem8[RegDipsw] = 0xFF
	b.mem8[RegCardStatus] = 0xFF
	return b
}

func (b *testBus) Read8(addr uint32) uint8 {
	switch addr {
	case RegSound:
		if b.soundDead {
			b.soundPolls++
			return 0
		}
		return b.soundEcho
	case BIOSVBlankFlag:
		if b.mem8[addr] == 0 && b.vblankAfter > 0 {
			b.vblankAfter--
			if b.vblankAfter == 0 {
				b.mem8[addr] = 1
			}
		}
	}
	return b.mem8[addr]
}

func (b *testBus) Write8(addr uint32, value uint8) {
	switch addr {
	case RegSound:
		b.soundCommands = append(b.soundCommands, value)
		if !b.soundDead {
			b.soundEcho = value | 0x80
		}
		return
	case RegWatchdog:
		b.watchdogKicks++
		return
	}
	b.mem8[addr] = value
}

func (b *testBus) Read16(addr uint32) uint16 {
	switch addr {
	case RegVRAMAddr:
		return b.vramAddr
	case RegVRAMMod:
		return uint16(b.vramMod)
	case RegVRAMData:
		return b.vram[b.vramAddr]
	}
	return b.mem16[addr]
}

func (b *testBus) Write16(addr uint32, value uint16) {
	switch addr {
	case RegVRAMAddr:
		b.vramAddr = value
	case RegVRAMMod:
		b.vramMod = int16(value)
	case RegVRAMData:
		b.vram[b.vramAddr] = value
		b.vramAddr += uint16(b.vramMod)
	default:
		b.mem16[addr] = value
	}
}

// setHeld drives the raw input lines for one player from a canonical
// button mask, preserving the other player's STATUS_B bits.
func (b *testBus) setHeld(player uint8, held uint16) {
	var joy uint8
	if held&BtnUp != 0 {
		joy |= 0x01
	}
	if held&BtnDown != 0 {
		joy |= 0x02
	}
	if held&BtnLeft != 0 {
		joy |= 0x04
	}
	if held&BtnRight != 0 {
		joy |= 0x08
	}
	if held&BtnA != 0 {
		joy |= 0x10
	}
	if held&BtnB != 0 {
		joy |= 0x20
	}
	if held&BtnC != 0 {
		joy |= 0x40
	}
	if held&BtnD != 0 {
		joy |= 0x80
	}

	port := uint32(RegP1)
	statusShift := uint(0)
	if player == 1 {
		port = RegP2
		statusShift = 2
	}
	b.mem8[port] = ^joy

	var status uint8
	if held&BtnStart != 0 {
		status |= 0x01 << statusShift
	}
	if held&BtnSelect != 0 {
		status |= 0x02 << statusShift
	}
	mask := uint8(0x03) << statusShift
	b.mem8[RegStatusB] = (b.mem8[RegStatusB] | mask) &^ status
}

// setSystem drives the coin and service lines from a canonical mask.
func (b *testBus) setSystem(held uint16) {
	var lines uint8
	if held&SysCoin1 != 0 {
		lines |= 0x01
	}
	if held&SysCoin2 != 0 {
		lines |= 0x02
	}
	if held&SysService != 0 {
		lines |= 0x04
	}
	b.mem8[RegStatusA] = ^lines
}
