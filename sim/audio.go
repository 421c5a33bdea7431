package sim

import (
	"github.com/user-none/go-chip-sn76489"
	"github.com/user-none/go-chip-z80"
)

const (
	audioClockHz   = 4000000
	audioRate      = 48000
	samplesPerTick = audioRate / 60
)

// soundDriver is the program the simulated sound CPU runs: poll the
// command latch, echo any nonzero command back with bit 7 set, repeat.
//
//	loop:  IN   A,(0)
//	       OR   A
//	       JR   Z,loop
//	       OR   0x80
//	       OUT  (0),A
//	       JR   loop
var soundDriver = []uint8{
	0xDB, 0x00, // IN A,(0)
	0xB7,       // OR A
	0x28, 0xFB, // JR Z,-5
	0xF6, 0x80, // OR 0x80
	0xD3, 0x00, // OUT (0),A
	0x18, 0xF5, // JR -11
}

// AudioUnit models the sound side of the machine: a Z80 running the
// polling driver, a command/reply latch pair and a PSG that turns
// acknowledged commands into audible tones. Responsive can be cleared
// to freeze the CPU and exercise the main side's retry budget.
type AudioUnit struct {
	cpu *z80.CPU
	bus *soundBus
	psg *sn76489.SN76489

	// Responsive gates CPU stepping. When false the latch never
	// echoes, like a crashed or held-in-reset sound CPU.
	Responsive bool

	samples []float32
}

func NewAudioUnit() *AudioUnit {
	psg := sn76489.New(audioClockHz, audioRate, samplesPerTick*2, sn76489.Sega)
	bus := newSoundBus()
	a := &AudioUnit{
		cpu:        z80.New(bus),
		bus:        bus,
		psg:        psg,
		Responsive: true,
	}
	bus.onCommand = a.dispatch
	return a
}

// WriteCommand is the main-CPU side of the latch.
func (a *AudioUnit) WriteCommand(cmd uint8) {
	a.bus.cmdLatch = cmd
}

// ReadReply steps the sound CPU a little and returns the reply latch.
// The HAL polls this in a loop, so the driver gets its time slice from
// the poll itself.
func (a *AudioUnit) ReadReply() uint8 {
	if a.Responsive {
		a.cpu.StepCycles(64)
	}
	return a.bus.replyLatch
}

// LastCommand returns the most recent command the driver acknowledged,
// without the echo bit.
func (a *AudioUnit) LastCommand() uint8 {
	return a.bus.lastCommand
}

// CommandLog returns every command acknowledged so far, in order.
func (a *AudioUnit) CommandLog() []uint8 {
	return a.bus.commandLog
}

// dispatch turns an acknowledged command into PSG register writes so
// commands have audible consequences. The mapping is deliberately
// crude: effects get a tone on channel 0, music a lower tone on
// channel 1, stop commands silence their channels.
func (a *AudioUnit) dispatch(cmd uint8) {
	switch {
	case cmd == 0x03: // driver reset
		a.silenceAll()

	case cmd >= 0x10 && cmd <= 0x1F:
		a.tone(0, 0x100+uint16(cmd&0x0F)*0x20)
	case cmd >= 0x40 && cmd <= 0x4F:
		a.tone(0, 0x300+uint16(cmd&0x0F)*0x20)
	case cmd >= 0xC0: // panned effect variants
		a.tone(0, 0x100+uint16(cmd&0x0F)*0x20)

	case cmd >= 0x20 && cmd <= 0x2F:
		a.tone(1, 0x200+uint16(cmd&0x0F)*0x10)
	case cmd >= 0x50 && cmd <= 0x5F:
		a.tone(1, 0x280+uint16(cmd&0x0F)*0x10)

	case cmd == 0x30 || cmd == 0x31: // music stop / pause
		a.silence(1)
	case cmd == 0x32: // resume
		a.psg.Write(0x90 | 1<<5) // channel 1 volume back to max

	case cmd >= 0x60 && cmd <= 0x65: // per-channel stop
		a.silence(0)
	case cmd == 0x70:
		a.silenceAll()

	case cmd >= 0x80 && cmd <= 0x8F:
		// Master volume: PSG attenuation is inverted (0 = loud)
		att := 15 - cmd&0x0F
		a.psg.Write(0x90 | att)
	}
}

// tone sets a channel's frequency and opens its volume.
func (a *AudioUnit) tone(channel uint8, freq uint16) {
	a.psg.Write(0x80 | channel<<5 | uint8(freq&0x0F))
	a.psg.Write(uint8(freq >> 4 & 0x3F))
	a.psg.Write(0x90 | channel<<5)
}

func (a *AudioUnit) silence(channel uint8) {
	a.psg.Write(0x90 | channel<<5 | 0x0F)
}

func (a *AudioUnit) silenceAll() {
	for ch := uint8(0); ch < 4; ch++ {
		a.silence(ch)
	}
}

// RenderFrame generates one frame's worth of PSG output and appends it
// to the capture buffer. Returns the samples generated this call.
func (a *AudioUnit) RenderFrame() []float32 {
	a.psg.GenerateSamples(audioClockHz / 60)
	buffer, count := a.psg.GetBuffer()
	start := len(a.samples)
	a.samples = append(a.samples, buffer[:count]...)
	return a.samples[start:]
}

// Samples returns everything captured since the last ResetCapture.
func (a *AudioUnit) Samples() []float32 {
	return a.samples
}

// ResetCapture discards the capture buffer.
func (a *AudioUnit) ResetCapture() {
	a.samples = a.samples[:0]
}

// soundBus is the Z80's view of the sound side: the driver program in
// ROM, a little scratch RAM, and the latch pair on port 0.
type soundBus struct {
	ram [0x800]uint8

	cmdLatch   uint8
	replyLatch uint8

	lastCommand uint8
	commandLog  []uint8
	onCommand   func(uint8)
}

func newSoundBus() *soundBus {
	return &soundBus{}
}

func (b *soundBus) Fetch(addr uint16) uint8 { return b.Read(addr) }

func (b *soundBus) Read(addr uint16) uint8 {
	if int(addr) < len(soundDriver) {
		return soundDriver[addr]
	}
	if addr >= 0xF800 {
		return b.ram[addr-0xF800]
	}
	return 0xFF
}

func (b *soundBus) Write(addr uint16, val uint8) {
	if addr >= 0xF800 {
		b.ram[addr-0xF800] = val
	}
}

// In models the latch read side: reading consumes the pending command.
// The command is dispatched here, from the byte that was actually
// latched, since the echo is ambiguous for commands with bit 7 set.
func (b *soundBus) In(port uint16) uint8 {
	if port&0xFF == 0 {
		cmd := b.cmdLatch
		b.cmdLatch = 0
		if cmd != 0 {
			b.lastCommand = cmd
			b.commandLog = append(b.commandLog, cmd)
			if b.onCommand != nil {
				b.onCommand(cmd)
			}
		}
		return cmd
	}
	return 0xFF
}

func (b *soundBus) Out(port uint16, val uint8) {
	if port&0xFF == 0 {
		b.replyLatch = val
	}
}
