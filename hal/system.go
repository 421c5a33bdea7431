package hal

// System services: vblank synchronization, watchdog, cabinet queries
// and the MVS coin hardware.

// Country codes reported by the BIOS.
const (
	CountryJapan  = 0x00
	CountryUSA    = 0x01
	CountryEurope = 0x02
)

type System struct {
	bus Bus

	// Lockout outputs are write-only; mirror them so callers can query.
	lockout [2]bool
}

func NewSystem(bus Bus) *System {
	return &System{bus: bus}
}

// Init clears a possibly stale vblank flag so the first WaitVBlank
// waits for a real frame boundary.
func (s *System) Init() {
	s.bus.Write8(BIOSVBlankFlag, 0)
}

// WaitVBlank blocks until the interrupt handler sets the vblank flag,
// then consumes it. One call per frame gives frame-locked pacing.
func (s *System) WaitVBlank() {
	for s.bus.Read8(BIOSVBlankFlag) == 0 {
	}
	s.bus.Write8(BIOSVBlankFlag, 0)
}

// PollVBlank consumes the vblank flag if set and reports whether a
// frame boundary had occurred. Never blocks.
func (s *System) PollVBlank() bool {
	if s.bus.Read8(BIOSVBlankFlag) == 0 {
		return false
	}
	s.bus.Write8(BIOSVBlankFlag, 0)
	return true
}

// KickWatchdog pets the hardware watchdog. Must run at least once per
// frame or the board resets.
func (s *System) KickWatchdog() {
	s.bus.Write8(RegWatchdog, 0)
}

// IsMVS reports whether the program is running on arcade hardware
// rather than a home console.
func (s *System) IsMVS() bool {
	return s.bus.Read8(BIOSMVSFlag)&0x01 != 0
}

// Country returns the BIOS region code.
func (s *System) Country() uint8 {
	return s.bus.Read8(BIOSCountry)
}

// DIP reads one of the eight cabinet DIP switches. The lines are
// active-low; true means the switch is on. Out-of-range switches read
// false.
func (s *System) DIP(sw uint8) bool {
	if sw >= 8 {
		return false
	}
	return ^s.bus.Read8(RegDipsw)&(1<<sw) != 0
}

// DIPAll returns all eight switches as an active-high mask.
func (s *System) DIPAll() uint8 {
	return ^s.bus.Read8(RegDipsw)
}

// BumpCoinCounter pulses a mechanical coin counter. Slot is 0 or 1.
// No effect on home hardware.
func (s *System) BumpCoinCounter(slot uint8) {
	if slot >= 2 || !s.IsMVS() {
		return
	}
	s.bus.Write8(RegCoinCounter+uint32(slot)*2, 1)
	s.bus.Write8(RegCoinCounter+uint32(slot)*2, 0)
}

// SetCoinLockout engages or releases the coin return solenoid for a
// slot. No effect on home hardware.
func (s *System) SetCoinLockout(slot uint8, locked bool) {
	if slot >= 2 || !s.IsMVS() {
		return
	}
	v := uint8(0)
	if locked {
		v = 1
	}
	s.bus.Write8(RegCoinLockout+uint32(slot)*2, v)
	s.lockout[slot] = locked
}

// CoinLocked reports the last lockout state written for a slot.
func (s *System) CoinLocked(slot uint8) bool {
	if slot >= 2 {
		return false
	}
	return s.lockout[slot]
}
