package sim

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// TestAudioUnit_Echo checks the raw latch handshake without the HAL.
func TestAudioUnit_Echo(t *testing.T) {
	unit := NewAudioUnit()

	unit.WriteCommand(0x15)
	reply := unit.ReadReply()
	assert.Equal(t, uint8(0x95), reply)

	// The reply latch holds its value across further polls
	assert.Equal(t, uint8(0x95), unit.ReadReply())
}

// TestAudioUnit_HighBitCommand checks that commands with bit 7 already
// set are still dispatched correctly.
func TestAudioUnit_HighBitCommand(t *testing.T) {
	unit := NewAudioUnit()

	unit.WriteCommand(0x8F) // volume command
	unit.ReadReply()
	assert.Equal(t, uint8(0x8F), unit.LastCommand())
}

// TestAudioUnit_Unresponsive checks that a frozen CPU never echoes.
func TestAudioUnit_Unresponsive(t *testing.T) {
	unit := NewAudioUnit()
	unit.Responsive = false

	unit.WriteCommand(0x15)
	for i := 0; i < 100; i++ {
		assert.Equal(t, uint8(0), unit.ReadReply())
	}

	// Thawing the CPU delivers the still-latched command
	unit.Responsive = true
	assert.Equal(t, uint8(0x95), unit.ReadReply())
}

// TestAudioUnit_CommandLog checks ordering across multiple commands.
func TestAudioUnit_CommandLog(t *testing.T) {
	unit := NewAudioUnit()

	for _, cmd := range []uint8{0x03, 0x12, 0x21, 0x70} {
		unit.WriteCommand(cmd)
		unit.ReadReply()
	}

	log := unit.CommandLog()
	assert.Equal(t, 4, len(log))
	assert.Equal(t, uint8(0x03), log[0])
	assert.Equal(t, uint8(0x12), log[1])
	assert.Equal(t, uint8(0x21), log[2])
	assert.Equal(t, uint8(0x70), log[3])
}

// TestAudioUnit_RenderFrame checks that the PSG produces a frame's
// worth of samples after a play command.
func TestAudioUnit_RenderFrame(t *testing.T) {
	unit := NewAudioUnit()

	unit.WriteCommand(0x12)
	unit.ReadReply()

	frame := unit.RenderFrame()
	assert.True(t, len(frame) > 0)
	assert.Equal(t, len(frame), len(unit.Samples()))

	unit.RenderFrame()
	assert.True(t, len(unit.Samples()) > len(frame))

	unit.ResetCapture()
	assert.Equal(t, 0, len(unit.Samples()))
}

// TestWriteWAV checks the capture encoder output.
func TestWriteWAV(t *testing.T) {
	unit := NewAudioUnit()
	unit.WriteCommand(0x12)
	unit.ReadReply()
	unit.RenderFrame()

	path := t.TempDir() + "/capture.wav"
	err := SaveWAV(path, unit.Samples(), audioRate)
	assert.NoError(t, err)
}
