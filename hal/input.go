package hal

// Input sampling: the controller ports are active-low raw lines. Once
// per frame Update takes a single hardware snapshot per controller,
// inverts it into the canonical active-high masks below, and derives
// the edge states from exactly that snapshot. pressed and released are
// never computed from a mix of stale and fresh reads.

// Canonical button masks (processed, active-high).
const (
	BtnUp     = 0x0001
	BtnDown   = 0x0002
	BtnLeft   = 0x0004
	BtnRight  = 0x0008
	BtnA      = 0x0010
	BtnB      = 0x0020
	BtnC      = 0x0040
	BtnD      = 0x0080
	BtnStart  = 0x0100
	BtnSelect = 0x0200
)

// System line masks (coin slots, service button).
const (
	SysCoin1   = 0x0001
	SysCoin2   = 0x0002
	SysService = 0x0004
)

// The ten individually tracked buttons, in hold-counter slot order.
var buttonBits = [...]uint16{
	BtnUp, BtnDown, BtnLeft, BtnRight, BtnA,
	BtnB, BtnC, BtnD, BtnStart, BtnSelect,
}

const numButtons = len(buttonBits)

const numPlayers = 2

type buttonState struct {
	current  uint16
	previous uint16
	pressed  uint16
	released uint16

	// Per tracked button: frames held so far (saturating), and the
	// final hold count captured on the tick the release edge fires.
	holdFrames    [numButtons]uint16
	releaseFrames [numButtons]uint16
}

func (b *buttonState) update(raw uint16) {
	b.previous = b.current
	b.current = raw
	b.pressed = b.current &^ b.previous
	b.released = ^b.current & b.previous
}

// Input is the per-frame controller sampling state machine. Update
// writes the button records exactly once per tick; they may be read
// freely afterward.
type Input struct {
	bus     Bus
	players [numPlayers]buttonState
	system  buttonState
}

func NewInput(bus Bus) *Input {
	return &Input{bus: bus}
}

// readPlayer samples one controller's raw lines and packs them into the
// canonical mask layout.
func (in *Input) readPlayer(player uint8) uint16 {
	var result uint16

	port := uint32(RegP1)
	if player == 1 {
		port = RegP2
	}
	joy := ^in.bus.Read8(port) // invert: 0 = released, 1 = pressed

	if joy&0x01 != 0 {
		result |= BtnUp
	}
	if joy&0x02 != 0 {
		result |= BtnDown
	}
	if joy&0x04 != 0 {
		result |= BtnLeft
	}
	if joy&0x08 != 0 {
		result |= BtnRight
	}
	if joy&0x10 != 0 {
		result |= BtnA
	}
	if joy&0x20 != 0 {
		result |= BtnB
	}
	if joy&0x40 != 0 {
		result |= BtnC
	}
	if joy&0x80 != 0 {
		result |= BtnD
	}

	// Start and select live on STATUS_B, also active-low
	status := ^in.bus.Read8(RegStatusB)
	if player == 0 {
		if status&0x01 != 0 {
			result |= BtnStart
		}
		if status&0x02 != 0 {
			result |= BtnSelect
		}
	} else {
		if status&0x04 != 0 {
			result |= BtnStart
		}
		if status&0x08 != 0 {
			result |= BtnSelect
		}
	}

	return result
}

// readSystem samples the coin and service lines.
func (in *Input) readSystem() uint16 {
	var result uint16

	status := ^in.bus.Read8(RegStatusA) // active-low

	if status&0x01 != 0 {
		result |= SysCoin1
	}
	if status&0x02 != 0 {
		result |= SysCoin2
	}
	if status&0x04 != 0 {
		result |= SysService
	}

	return result
}

// Init seeds the state from one snapshot so buttons held across
// startup do not register as pressed on the first frame.
func (in *Input) Init() {
	for p := uint8(0); p < numPlayers; p++ {
		initial := in.readPlayer(p)
		state := &in.players[p]
		state.current = initial
		state.previous = initial
		state.pressed = 0
		state.released = 0
		state.holdFrames = [numButtons]uint16{}
		state.releaseFrames = [numButtons]uint16{}
	}

	sysInitial := in.readSystem()
	in.system.current = sysInitial
	in.system.previous = sysInitial
	in.system.pressed = 0
	in.system.released = 0
}

// Update samples the hardware and recomputes all button records. Call
// once per frame, before any input queries.
func (in *Input) Update() {
	for p := uint8(0); p < numPlayers; p++ {
		state := &in.players[p]
		state.update(in.readPlayer(p))

		for i, btn := range buttonBits {
			if state.current&btn != 0 {
				if state.holdFrames[i] < 0xFFFF {
					state.holdFrames[i]++
				}
			} else {
				if state.released&btn != 0 {
					state.releaseFrames[i] = state.holdFrames[i]
				} else {
					state.releaseFrames[i] = 0
				}
				state.holdFrames[i] = 0
			}
		}
	}

	in.system.update(in.readSystem())
}

// Held returns the currently held button mask. Invalid player ids
// return 0.
func (in *Input) Held(player uint8) uint16 {
	if player >= numPlayers {
		return 0
	}
	return in.players[player].current
}

// Pressed returns the buttons that transitioned to held this tick.
func (in *Input) Pressed(player uint8) uint16 {
	if player >= numPlayers {
		return 0
	}
	return in.players[player].pressed
}

// Released returns the buttons that transitioned to released this tick.
func (in *Input) Released(player uint8) uint16 {
	if player >= numPlayers {
		return 0
	}
	return in.players[player].released
}

// AxisX reduces the direction buttons to -1 (left), 0 or +1 (right).
// Both directions held cancel to 0.
func (in *Input) AxisX(player uint8) int8 {
	if player >= numPlayers {
		return 0
	}
	state := in.players[player].current
	var x int8
	if state&BtnLeft != 0 {
		x--
	}
	if state&BtnRight != 0 {
		x++
	}
	return x
}

// AxisY reduces the direction buttons to -1 (up), 0 or +1 (down).
func (in *Input) AxisY(player uint8) int8 {
	if player >= numPlayers {
		return 0
	}
	state := in.players[player].current
	var y int8
	if state&BtnUp != 0 {
		y--
	}
	if state&BtnDown != 0 {
		y++
	}
	return y
}

// buttonIndex maps a single tracked button bit to its counter slot, or
// -1 for anything that is not exactly one tracked button.
func buttonIndex(button uint16) int {
	for i, btn := range buttonBits {
		if button == btn {
			return i
		}
	}
	return -1
}

// HeldFrames returns how many consecutive ticks a button has been
// held, saturating at 0xFFFF. The button argument must be exactly one
// tracked button bit.
func (in *Input) HeldFrames(player uint8, button uint16) uint16 {
	if player >= numPlayers {
		return 0
	}
	idx := buttonIndex(button)
	if idx < 0 {
		return 0
	}
	return in.players[player].holdFrames[idx]
}

// ReleasedFrames returns how long a button had been held when it was
// released. Only meaningful on the tick the release edge fires: an
// idle tick clears the count, but a re-press retains the old value
// until the next release.
func (in *Input) ReleasedFrames(player uint8, button uint16) uint16 {
	if player >= numPlayers {
		return 0
	}
	idx := buttonIndex(button)
	if idx < 0 {
		return 0
	}
	return in.players[player].releaseFrames[idx]
}

// SystemHeld returns the current coin/service line mask.
func (in *Input) SystemHeld() uint16 {
	return in.system.current
}

// SystemPressed returns the coin/service lines that went active this
// tick.
func (in *Input) SystemPressed() uint16 {
	return in.system.pressed
}
