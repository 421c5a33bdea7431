package hal

import "testing"

// TestPalette_SetAddresses tests word placement in palette RAM
func TestPalette_SetAddresses(t *testing.T) {
	bus := newTestBus()
	pal := NewPalette(bus)

	colors := make([]uint16, PaletteSize)
	for i := range colors {
		colors[i] = uint16(0x1000 + i)
	}
	pal.Set(3, colors)

	base := uint32(PalRAMBase + 3*PaletteSize*2)
	for i := 0; i < PaletteSize; i++ {
		addr := base + uint32(i)*2
		if got := bus.mem16[addr]; got != colors[i] {
			t.Errorf("entry %d: expected 0x%04X at 0x%06X, got 0x%04X", i, colors[i], addr, got)
		}
	}
}

// TestPalette_SetShortSlice tests that missing entries stay untouched
func TestPalette_SetShortSlice(t *testing.T) {
	bus := newTestBus()
	pal := NewPalette(bus)

	pal.Fill(0, 0xAAAA)
	pal.Set(0, []uint16{0x1111, 0x2222})

	if got := bus.mem16[PalRAMBase]; got != 0x1111 {
		t.Errorf("entry 0: expected 0x1111, got 0x%04X", got)
	}
	if got := bus.mem16[PalRAMBase+4]; got != 0xAAAA {
		t.Errorf("entry 2 should be untouched, got 0x%04X", got)
	}
}

// TestPalette_BackupRestore tests the round trip through palette RAM
func TestPalette_BackupRestore(t *testing.T) {
	bus := newTestBus()
	pal := NewPalette(bus)

	colors := make([]uint16, PaletteSize)
	for i := range colors {
		colors[i] = uint16(i * 0x111)
	}
	pal.Set(7, colors)

	var saved [PaletteSize]uint16
	pal.Backup(7, saved[:])

	pal.Fill(7, 0)
	pal.Restore(7, saved[:])

	for i := 0; i < PaletteSize; i++ {
		addr := uint32(PalRAMBase + (7*PaletteSize+i)*2)
		if got := bus.mem16[addr]; got != colors[i] {
			t.Errorf("restored entry %d: expected 0x%04X, got 0x%04X", i, colors[i], got)
		}
	}
}

// TestPalette_Copy tests palette duplication
func TestPalette_Copy(t *testing.T) {
	bus := newTestBus()
	pal := NewPalette(bus)

	pal.Fill(1, 0x7FFF)
	pal.Copy(2, 1)

	for i := 0; i < PaletteSize; i++ {
		addr := uint32(PalRAMBase + (2*PaletteSize+i)*2)
		if got := bus.mem16[addr]; got != 0x7FFF {
			t.Errorf("copied entry %d: expected 0x7FFF, got 0x%04X", i, got)
		}
	}
}

// TestPalette_ClearSetsDarkBit tests that color 0 of a cleared palette
// carries the dark bit
func TestPalette_ClearSetsDarkBit(t *testing.T) {
	bus := newTestBus()
	pal := NewPalette(bus)

	pal.Fill(4, 0x7FFF)
	pal.Clear(4)

	base := uint32(PalRAMBase + 4*PaletteSize*2)
	if got := bus.mem16[base]; got != ColorDark {
		t.Errorf("color 0: expected 0x%04X, got 0x%04X", uint16(ColorDark), got)
	}
	for i := 1; i < PaletteSize; i++ {
		if got := bus.mem16[base+uint32(i)*2]; got != 0 {
			t.Errorf("color %d: expected 0, got 0x%04X", i, got)
		}
	}
}

// TestPalette_Backdrop tests the dedicated backdrop word
func TestPalette_Backdrop(t *testing.T) {
	bus := newTestBus()
	pal := NewPalette(bus)

	pal.SetBackdrop(0x0F00)
	if got := bus.mem16[PalRAMBackdrop]; got != 0x0F00 {
		t.Errorf("backdrop word: expected 0x0F00, got 0x%04X", got)
	}
	if got := pal.Backdrop(); got != 0x0F00 {
		t.Errorf("Backdrop(): expected 0x0F00, got 0x%04X", got)
	}
}

// TestPalette_RGB tests the packed color format: LSBs in bits 14-12,
// upper nibbles in 11-0
func TestPalette_RGB(t *testing.T) {
	cases := []struct {
		r, g, b  uint8
		expected uint16
	}{
		{0, 0, 0, 0x0000},
		{31, 31, 31, 0x7FFF}, // all LSBs + all nibbles, dark bit clear
		{31, 0, 0, 0x4F00},
		{0, 31, 0, 0x20F0},
		{0, 0, 31, 0x100F},
		{30, 30, 30, 0x0FFF}, // even values have no LSB
	}

	for _, tc := range cases {
		if got := RGB(tc.r, tc.g, tc.b); got != tc.expected {
			t.Errorf("RGB(%d,%d,%d): expected 0x%04X, got 0x%04X", tc.r, tc.g, tc.b, tc.expected, got)
		}
	}
}
