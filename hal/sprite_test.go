package hal

import "testing"

// TestSprites_ScreenToHardwareY tests the inverted Y coordinate mapping
func TestSprites_ScreenToHardwareY(t *testing.T) {
	cases := []struct {
		screenY  int16
		expected uint16
	}{
		{0, 496},
		{16, 480},
		{223, 273},
		{496, 0},
		{-16, 0},   // 512 wraps to 0 in the 9-bit field
		{-17, 511}, // just past the wrap
	}

	for _, tc := range cases {
		if got := ScreenToHardwareY(tc.screenY); got != tc.expected {
			t.Errorf("ScreenToHardwareY(%d): expected %d, got %d", tc.screenY, tc.expected, got)
		}
	}
}

// TestSprites_ScreenToHardwareYInjective tests that every visible
// screen row maps to a distinct hardware value
func TestSprites_ScreenToHardwareYInjective(t *testing.T) {
	seen := make(map[uint16]int16)
	for y := int16(0); y < 224; y++ {
		hw := ScreenToHardwareY(y)
		if prev, ok := seen[hw]; ok {
			t.Errorf("screen Y %d and %d both map to hardware Y %d", prev, y, hw)
		}
		seen[hw] = y
	}
}

// TestSprites_PackSCB3 tests the Y/height word layout
func TestSprites_PackSCB3(t *testing.T) {
	// Screen Y 0 = hardware Y 496, height 32
	word := PackSCB3(0, 32)
	if word>>7 != 496 {
		t.Errorf("SCB3 Y field: expected 496, got %d", word>>7)
	}
	if word&0x3F != 32 {
		t.Errorf("SCB3 height field: expected 32, got %d", word&0x3F)
	}
	if word&SCB3Sticky != 0 {
		t.Error("SCB3 sticky bit should not be set by PackSCB3")
	}
}

// TestSprites_PackSCB4 tests the X word layout including negative X
func TestSprites_PackSCB4(t *testing.T) {
	if got := PackSCB4(100); got != 100<<7 {
		t.Errorf("PackSCB4(100): expected 0x%04X, got 0x%04X", 100<<7, got)
	}
	// -8 in the 9-bit field is 504
	if got := PackSCB4(-8); got != 504<<7 {
		t.Errorf("PackSCB4(-8): expected 0x%04X, got 0x%04X", 504<<7, got)
	}
}

// TestSprites_AdjustedHeight tests visible row count under V-shrink
func TestSprites_AdjustedHeight(t *testing.T) {
	cases := []struct {
		rows, vShrink, expected uint8
	}{
		{32, 255, 32}, // full size
		{32, 128, 17}, // ceil(32*128/255)
		{16, 255, 16},
		{1, 1, 1},  // never below 1
		{32, 0, 1}, // fully shrunk still occupies one row
		{8, 64, 3}, // ceil(8*64/255) = ceil(2.007)
	}

	for _, tc := range cases {
		if got := AdjustedHeight(tc.rows, tc.vShrink); got != tc.expected {
			t.Errorf("AdjustedHeight(%d, %d): expected %d, got %d", tc.rows, tc.vShrink, tc.expected, got)
		}
	}
}

// TestSprites_HideZeroesEntry tests that hiding clears the full SCB3
// word so the height reads 0
func TestSprites_HideZeroesEntry(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	s.PositionY(5, 100, 32)
	if bus.vram[SCB3Base+5] == 0 {
		t.Fatal("PositionY should have written a nonzero SCB3 word")
	}

	s.Hide(5, 1)
	if bus.vram[SCB3Base+5] != 0 {
		t.Errorf("hidden SCB3: expected 0, got 0x%04X", bus.vram[SCB3Base+5])
	}
}

// TestSprites_HideAll tests that every slot's SCB3 entry is cleared
func TestSprites_HideAll(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	for slot := uint16(0); slot < SpriteMax; slot++ {
		bus.vram[SCB3Base+slot] = 0xFFFF
	}
	s.HideAll()

	for slot := uint16(0); slot < SpriteMax; slot++ {
		if bus.vram[SCB3Base+slot] != 0 {
			t.Errorf("slot %d SCB3 after HideAll: expected 0, got 0x%04X", slot, bus.vram[SCB3Base+slot])
			break
		}
	}
}

// TestSprites_PositionChainY tests the sticky-bit chain encoding
func TestSprites_PositionChainY(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	s.PositionChainY(10, 4, 50, 3)

	expected := PackSCB3(50, 3)
	if bus.vram[SCB3Base+10] != expected {
		t.Errorf("chain head SCB3: expected 0x%04X, got 0x%04X", expected, bus.vram[SCB3Base+10])
	}
	for i := uint16(1); i < 4; i++ {
		if bus.vram[SCB3Base+10+i] != SCB3Sticky {
			t.Errorf("chain slot %d: expected sticky word 0x%04X, got 0x%04X", 10+i, uint16(SCB3Sticky), bus.vram[SCB3Base+10+i])
		}
	}
}

// TestSprites_PositionChainX tests column spacing at full and half zoom
func TestSprites_PositionChainX(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	// Full size: columns land 16 pixels apart
	s.PositionChainX(0, 3, 100, 16)
	for i, wantX := range []int16{100, 116, 132} {
		got := bus.vram[SCB4Base+uint16(i)] >> 7
		if got != uint16(wantX)&0x1FF {
			t.Errorf("zoom 16 column %d: expected X=%d, got %d", i, wantX, got)
		}
	}

	// Half size: columns land 8 pixels apart
	s.PositionChainX(0, 3, 100, 8)
	for i, wantX := range []int16{100, 108, 116} {
		got := bus.vram[SCB4Base+uint16(i)] >> 7
		if got != uint16(wantX)&0x1FF {
			t.Errorf("zoom 8 column %d: expected X=%d, got %d", i, wantX, got)
		}
	}
}

// TestSprites_PositionXSpaced tests fixed-spacing column layout
func TestSprites_PositionXSpaced(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	s.PositionXSpaced(20, 3, 40, 24)
	for i, wantX := range []int16{40, 64, 88} {
		got := bus.vram[SCB4Base+20+uint16(i)] >> 7
		if got != uint16(wantX)&0x1FF {
			t.Errorf("spaced column %d: expected X=%d, got %d", i, wantX, got)
		}
	}
}

// TestSprites_WriteTileColumnPadsTo32 tests that unwritten rows are
// zeroed so stale tiles cannot reappear
func TestSprites_WriteTileColumnPadsTo32(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	// Dirty the whole SCB1 block for slot 0 first
	for i := uint16(0); i < SCB1SpriteSize; i++ {
		bus.vram[SCB1Base+i] = 0xFFFF
	}

	tiles := []uint16{0x0100, 0x0101}
	attrs := []uint16{TileAttr(2, false, false), TileAttr(2, false, false)}
	s.WriteTileColumn(0, tiles, attrs)

	if bus.vram[0] != 0x0100 || bus.vram[1] != attrs[0] {
		t.Errorf("row 0: expected (0x0100, 0x%04X), got (0x%04X, 0x%04X)", attrs[0], bus.vram[0], bus.vram[1])
	}
	if bus.vram[2] != 0x0101 {
		t.Errorf("row 1 tile: expected 0x0101, got 0x%04X", bus.vram[2])
	}
	for i := uint16(4); i < SCB1SpriteSize; i++ {
		if bus.vram[i] != 0 {
			t.Errorf("padding word %d: expected 0, got 0x%04X", i, bus.vram[i])
			break
		}
	}
}

// TestSprites_WriteTile tests the single-row fast path addressing
func TestSprites_WriteTile(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	s.WriteTile(2, 5, 0x0234, 0x0300)

	addr := uint16(SCB1Base + 2*SCB1SpriteSize + 5*SCB1WordsPerTile)
	if bus.vram[addr] != 0x0234 {
		t.Errorf("tile word: expected 0x0234 at 0x%04X, got 0x%04X", addr, bus.vram[addr])
	}
	if bus.vram[addr+1] != 0x0300 {
		t.Errorf("attr word: expected 0x0300, got 0x%04X", bus.vram[addr+1])
	}
}

// TestSprites_TileAttr tests the attribute word packing
func TestSprites_TileAttr(t *testing.T) {
	if got := TileAttr(3, false, false); got != 0x0300 {
		t.Errorf("TileAttr(3): expected 0x0300, got 0x%04X", got)
	}
	if got := TileAttr(0, true, false); got != AttrHFlip {
		t.Errorf("TileAttr hflip: expected 0x%04X, got 0x%04X", uint16(AttrHFlip), got)
	}
	if got := TileAttr(15, true, true); got != 0x0F03 {
		t.Errorf("TileAttr(15, flips): expected 0x0F03, got 0x%04X", got)
	}
}

// TestSprites_SetShrink tests the SCB2 bulk fill
func TestSprites_SetShrink(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	s.SetShrink(0, 4, ShrinkNone)
	for i := uint16(0); i < 4; i++ {
		if bus.vram[SCB2Base+i] != ShrinkNone {
			t.Errorf("SCB2 slot %d: expected 0x%04X, got 0x%04X", i, uint16(ShrinkNone), bus.vram[SCB2Base+i])
		}
	}
}

// TestSprites_SetShrinkSmooth tests error-accumulated H-shrink
// distribution across a chain
func TestSprites_SetShrinkSmooth(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	// hShrink 0x88 = 8.5 in 1/16ths; over 4 columns the values should
	// alternate 9/8 and total 34
	s.SetShrinkSmooth(0, 4, 0x88FF)

	total := 0
	for i := uint16(0); i < 4; i++ {
		word := bus.vram[SCB2Base+i]
		h := int(word >> 8)
		if word&0xFF != 0xFF {
			t.Errorf("column %d V-shrink: expected 0xFF, got 0x%02X", i, word&0xFF)
		}
		if h != 8 && h != 9 {
			t.Errorf("column %d H-shrink: expected 8 or 9, got %d", i, h)
		}
		total += h
	}
	if total != 34 {
		t.Errorf("H-shrink total: expected 34, got %d", total)
	}

	// Full size stays exactly 15 everywhere
	s.SetShrinkSmooth(0, 4, 0x0FFF|0xF000)
	for i := uint16(0); i < 4; i++ {
		if h := bus.vram[SCB2Base+i] >> 8; h != 15 {
			t.Errorf("full-size column %d: expected H=15, got %d", i, h)
		}
	}
}

// TestSprites_ClampRange tests that out-of-pool ranges are trimmed
// instead of wrapping into other tables
func TestSprites_ClampRange(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	// Slot 380 is the last valid slot; a 5-slot hide from there must
	// touch only one entry
	bus.vram[SCB3Base+380] = 0xFFFF
	bus.vram[SCB3Base+381] = 0xABCD
	s.Hide(380, 5)

	if bus.vram[SCB3Base+380] != 0 {
		t.Errorf("slot 380: expected 0, got 0x%04X", bus.vram[SCB3Base+380])
	}
	if bus.vram[SCB3Base+381] != 0xABCD {
		t.Errorf("slot 381 should be untouched, got 0x%04X", bus.vram[SCB3Base+381])
	}

	// Entirely out of range does nothing
	s.PositionY(SpriteMax, 10, 1)
	if bus.vram[SCB3Base+SpriteMax] != 0xABCD {
		t.Error("out-of-range PositionY should be ignored")
	}
}

// TestSprites_TileSession tests the batched SCB1 session
func TestSprites_TileSession(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	ts := s.BeginTiles(1)
	ts.Write(0x0010, 1, false, false)
	ts.WriteEmpty()
	ts.WriteRaw(0x0012, 0x0200)
	ts.PadTo32()

	base := uint16(SCB1Base + 1*SCB1SpriteSize)
	if bus.vram[base] != 0x0010 || bus.vram[base+1] != 0x0100 {
		t.Errorf("row 0: expected (0x0010, 0x0100), got (0x%04X, 0x%04X)", bus.vram[base], bus.vram[base+1])
	}
	if bus.vram[base+2] != 0 || bus.vram[base+3] != 0 {
		t.Error("row 1 should be empty")
	}
	if bus.vram[base+4] != 0x0012 || bus.vram[base+5] != 0x0200 {
		t.Errorf("row 2: expected (0x0012, 0x0200), got (0x%04X, 0x%04X)", bus.vram[base+4], bus.vram[base+5])
	}
	// Padding reaches the end of the 64-word block
	if bus.vram[base+SCB1SpriteSize-1] != 0 {
		t.Error("final padding word should be 0")
	}
	if bus.vramMod != VRAMModDefault {
		t.Errorf("modifier after PadTo32: expected %d, got %d", VRAMModDefault, bus.vramMod)
	}
}

// TestSprites_XSession tests the batched SCB4 session
func TestSprites_XSession(t *testing.T) {
	bus := newTestBus()
	s := NewSprites(NewVRAM(bus))

	xs := s.BeginX(7)
	xs.Next(10)
	xs.Next(26)
	xs.Close()

	if got := bus.vram[SCB4Base+7] >> 7; got != 10 {
		t.Errorf("column 0: expected X=10, got %d", got)
	}
	if got := bus.vram[SCB4Base+8] >> 7; got != 26 {
		t.Errorf("column 1: expected X=26, got %d", got)
	}
}
