// Package hal is the hardware abstraction layer for the ProGear console.
// It converts drawing, audio and input requests into the exact
// memory-mapped register sequences the hardware expects. All register
// access goes through the Bus interface so the same code can drive the
// real machine or a simulated register file.
package hal

// Bus is the hardware backend. The production backend maps these calls
// onto the console's memory-mapped registers; test backends substitute
// an in-memory register file with scripted responses.
//
// Addresses are the 24-bit physical addresses of the target. Word access
// is big-endian 16-bit as seen by the main CPU.
type Bus interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
}

// Hardware register map. Offsets are bit-exact to the target hardware.
const (
	// Player input ports (active-low: 0 = pressed)
	// Bit layout: [7] D  [6] C  [5] B  [4] A  [3] Right  [2] Left  [1] Down  [0] Up
	RegP1 = 0x300000 // Player 1 joystick + ABCD
	RegP2 = 0x340000 // Player 2 joystick + ABCD

	// 0x300001 reads DIP switches (active-low) and kicks the watchdog
	// on write. Same address, different direction.
	RegDipsw    = 0x300001
	RegWatchdog = 0x300001

	// Audio command/acknowledge latch. Write a command byte, then poll
	// until the sound CPU echoes it back with bit 7 set.
	RegSound = 0x320000

	// System status ports (active-low)
	// STATUS_A: [2] Service  [1] Coin 2  [0] Coin 1
	// STATUS_B: [3] P2 Select  [2] P2 Start  [1] P1 Select  [0] P1 Start
	RegStatusA = 0x320001
	RegStatusB = 0x380000

	// Memory card status: [0] card present  [1] write protect (active-low)
	RegCardStatus = 0x380021

	// Coin counter / lockout outputs (MVS cabinets only)
	RegCoinCounter = 0x3A0001
	RegCoinLockout = 0x3A0011

	// LSPC video registers: VRAM address, data port, address
	// auto-increment, mode. The three-register write protocol lives in
	// vram.go.
	RegVRAMAddr = 0x3C0000
	RegVRAMData = 0x3C0002
	RegVRAMMod  = 0x3C0004
	RegLSPCMode = 0x3C0006

	// Palette RAM: 256 palettes of 16 16-bit colors, plus a dedicated
	// backdrop color word at the end of the bank.
	PalRAMBase     = 0x400000
	PalRAMBackdrop = 0x401FFE

	// BIOS work RAM flags
	BIOSMVSFlag    = 0x10FD82 // 0 = AES (home), 1 = MVS (arcade)
	BIOSCountry    = 0x10FD83 // 0 = Japan, 1 = USA, 2 = Europe
	BIOSVBlankFlag = 0x10FD8E // set by the vblank interrupt handler

	// Memory card window. The card sits on the upper byte of a
	// word-wide bus, so logical byte n lives at MemcardBase + n*2.
	MemcardBase = 0x800000
)

// HAL bundles the hardware services over one backend. Construct it once
// at startup and pass it to whatever owns the frame loop.
type HAL struct {
	bus Bus

	VRAM    *VRAM
	Sprites *Sprites
	Fix     *Fix
	Audio   *Audio
	Input   *Input
	Palette *Palette
	System  *System
	Memcard *Memcard
	Arenas  *ArenaSet
}

// New creates the HAL over the given backend. No hardware access happens
// until Init or the individual services are used.
func New(bus Bus) *HAL {
	vram := NewVRAM(bus)
	return &HAL{
		bus:     bus,
		VRAM:    vram,
		Sprites: NewSprites(vram),
		Fix:     NewFix(vram),
		Audio:   NewAudio(bus),
		Input:   NewInput(bus),
		Palette: NewPalette(bus),
		System:  NewSystem(bus),
		Memcard: NewMemcard(bus),
		Arenas:  NewArenaSet(ArenaPersistentSize, ArenaSceneSize, ArenaFrameSize),
	}
}

// Init brings the hardware services to a known state: clears the vblank
// flag, hides all sprites, clears the fix layer, resets the sound CPU
// and samples an input baseline.
func (h *HAL) Init() {
	h.System.Init()
	h.Sprites.HideAll()
	h.Fix.ClearAll()
	h.Audio.Init()
	h.Input.Init()
}

// FrameStart is the per-frame entry hook: it blocks until vblank, kicks
// the watchdog, resets the frame arena and samples input. Drawing and
// audio for the new frame happen after it returns.
func (h *HAL) FrameStart() {
	h.System.WaitVBlank()
	h.System.KickWatchdog()
	h.Arenas.Frame.Reset()
	h.Input.Update()
}
