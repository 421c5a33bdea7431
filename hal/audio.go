package hal

// Audio link: the sound hardware runs on its own CPU, reachable only
// through the one-byte command latch at RegSound. Writing a command and
// polling until the sound CPU echoes it back with bit 7 set is the
// whole protocol; acknowledgement confirms receipt, not completion.
//
// Command codes must match the sound driver.
const (
	CmdNop        = 0x00
	CmdSlotSwitch = 0x01
	CmdEyecatcher = 0x02
	CmdReset      = 0x03

	// SFX, center pan: 0x10-0x1F = SFX 0-15, 0x40-0x4F = SFX 16-31
	CmdSfxBase    = 0x10
	CmdSfxExtBase = 0x40

	// Music: 0x20-0x2F = tracks 0-15, 0x50-0x5F = tracks 16-31
	CmdMusicBase    = 0x20
	CmdMusicExtBase = 0x50

	CmdMusicStop   = 0x30
	CmdMusicPause  = 0x31
	CmdMusicResume = 0x32

	// Stop a single SFX channel: 0x60-0x65
	CmdSfxStopBase = 0x60

	CmdStopAll = 0x70

	// Master volume: 0x80-0x8F = volume 0-15
	CmdVolumeBase = 0x80

	// SFX with stereo pan: 0xC0/0xD0 for SFX 0-15 left/right,
	// 0xE0/0xF0 for SFX 16-31
	CmdSfxLeftBase     = 0xC0
	CmdSfxRightBase    = 0xD0
	CmdSfxExtLeftBase  = 0xE0
	CmdSfxExtRightBase = 0xF0
)

// Audio limits.
const (
	MaxSfx      = 32
	MaxMusic    = 32
	MaxChannels = 6
	MaxVolume   = 15

	// NoMusic is the "no track" sentinel for CurrentMusic.
	NoMusic = 0xFF
)

// ackRetryBudget bounds the synchronous handshake. When it runs out the
// command is silently dropped; the sound CPU may or may not have seen
// it.
const ackRetryBudget = 0xFFFF

// Pan selects the stereo position of a sound effect.
type Pan uint8

const (
	PanCenter Pan = iota
	PanLeft
	PanRight
)

// Audio drives the sound CPU over the command latch. The struct mirrors
// the last commands issued from this side; it is not ground truth for
// the sound CPU's internal state.
type Audio struct {
	bus Bus

	currentMusic  uint8
	musicPaused   bool
	masterVolume  uint8
	channelVolume [MaxChannels]uint8
	musicVolume   uint8
}

func NewAudio(bus Bus) *Audio {
	a := &Audio{
		bus:          bus,
		currentMusic: NoMusic,
		masterVolume: MaxVolume,
		musicVolume:  255,
	}
	for i := range a.channelVolume {
		a.channelVolume[i] = 31
	}
	return a
}

// SendCommand writes a command to the latch and polls until the sound
// CPU echoes it with bit 7 set, or until the retry budget runs out.
// Returns whether the command was acknowledged; exhaustion is not an
// error, the command is simply dropped.
func (a *Audio) SendCommand(cmd uint8) bool {
	a.bus.Write8(RegSound, cmd)

	want := cmd | 0x80
	for i := 0; i < ackRetryBudget; i++ {
		if a.bus.Read8(RegSound) == want {
			return true
		}
	}
	return false
}

// SendCommandAsync writes a command without waiting for the echo. Used
// for latency-sensitive effects where an occasional dropped command is
// acceptable.
func (a *Audio) SendCommandAsync(cmd uint8) {
	a.bus.Write8(RegSound, cmd)
}

// Init resets the sound driver and restores the default master volume.
func (a *Audio) Init() {
	a.SendCommand(CmdReset)
	a.masterVolume = MaxVolume
	a.SetVolume(a.masterVolume)
	a.currentMusic = NoMusic
	a.musicPaused = false
}

// PlaySfx plays a sound effect with center pan. Out-of-range indices
// are ignored.
func (a *Audio) PlaySfx(index uint8) {
	a.PlaySfxPan(index, PanCenter)
}

// PlaySfxPan plays a sound effect with the given stereo pan.
func (a *Audio) PlaySfxPan(index uint8, pan Pan) {
	if index >= MaxSfx {
		return
	}

	var cmd uint8
	if index < 16 {
		switch pan {
		case PanLeft:
			cmd = CmdSfxLeftBase + index
		case PanRight:
			cmd = CmdSfxRightBase + index
		default:
			cmd = CmdSfxBase + index
		}
	} else {
		idx := index - 16
		switch pan {
		case PanLeft:
			cmd = CmdSfxExtLeftBase + idx
		case PanRight:
			cmd = CmdSfxExtRightBase + idx
		default:
			cmd = CmdSfxExtBase + idx
		}
	}
	a.SendCommand(cmd)
}

// StopChannel stops one SFX channel.
func (a *Audio) StopChannel(channel uint8) {
	if channel >= MaxChannels {
		return
	}
	a.SendCommand(CmdSfxStopBase + channel)
}

// StopAllSfx stops every SFX channel, leaving music alone.
func (a *Audio) StopAllSfx() {
	for ch := uint8(0); ch < MaxChannels; ch++ {
		a.SendCommand(CmdSfxStopBase + ch)
	}
}

// PlayMusic starts a music track (loops until stopped). Out-of-range
// indices are ignored.
func (a *Audio) PlayMusic(index uint8) {
	if index >= MaxMusic {
		return
	}

	a.currentMusic = index
	a.musicPaused = false

	if index < 16 {
		a.SendCommand(CmdMusicBase + index)
	} else {
		a.SendCommand(CmdMusicExtBase + (index - 16))
	}
}

// StopMusic stops music playback.
func (a *Audio) StopMusic() {
	a.SendCommand(CmdMusicStop)
	a.currentMusic = NoMusic
	a.musicPaused = false
}

// PauseMusic pauses the current track. No-op unless a track is
// playing, so repeated calls are harmless.
func (a *Audio) PauseMusic() {
	if a.currentMusic != NoMusic && !a.musicPaused {
		a.SendCommand(CmdMusicPause)
		a.musicPaused = true
	}
}

// ResumeMusic resumes a paused track. No-op unless paused.
func (a *Audio) ResumeMusic() {
	if a.musicPaused {
		a.SendCommand(CmdMusicResume)
		a.musicPaused = false
	}
}

// MusicPlaying reports whether a track is playing and not paused.
func (a *Audio) MusicPlaying() bool {
	return a.currentMusic != NoMusic && !a.musicPaused
}

// MusicPaused reports whether the current track is paused.
func (a *Audio) MusicPaused() bool {
	return a.musicPaused
}

// CurrentMusic returns the current track index, or NoMusic.
func (a *Audio) CurrentMusic() uint8 {
	return a.currentMusic
}

// SetVolume sets the master volume (0-15, clamped).
func (a *Audio) SetVolume(volume uint8) {
	if volume > MaxVolume {
		volume = MaxVolume
	}
	a.masterVolume = volume
	a.SendCommand(CmdVolumeBase + volume)
}

// Volume returns the last master volume set from this side.
func (a *Audio) Volume() uint8 {
	return a.masterVolume
}

// StopAll stops everything: music and all SFX channels.
func (a *Audio) StopAll() {
	a.SendCommand(CmdStopAll)
	a.currentMusic = NoMusic
	a.musicPaused = false
}

// SetChannelVolume records a per-channel volume (0-31, clamped).
//
// The command protocol has no per-channel volume opcode yet, so the
// value is tracked locally and no command is sent. A future sound
// driver update could add commands 0x66-0x6B for this.
func (a *Audio) SetChannelVolume(channel, volume uint8) {
	if channel >= MaxChannels {
		return
	}
	if volume > 31 {
		volume = 31
	}
	a.channelVolume[channel] = volume
}

// ChannelVolume returns the recorded per-channel volume.
func (a *Audio) ChannelVolume(channel uint8) uint8 {
	if channel >= MaxChannels {
		return 0
	}
	return a.channelVolume[channel]
}

// SetMusicVolume records the music volume. Like SetChannelVolume this
// is tracking only; the protocol has no opcode for it yet.
func (a *Audio) SetMusicVolume(volume uint8) {
	a.musicVolume = volume
}

// MusicVolume returns the recorded music volume.
func (a *Audio) MusicVolume() uint8 {
	return a.musicVolume
}
