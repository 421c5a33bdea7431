//go:build !headless

package ebiten

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const audioSampleRate = 48000

// AudioPlayer pushes the simulated PSG output to the host audio
// device. Samples are queued from the frame loop and drained by oto's
// reader goroutine; underruns play silence instead of blocking.
type AudioPlayer struct {
	ctx    *oto.Context
	player *oto.Player

	mu   sync.Mutex
	ring []float32
}

// audioInitOnce ensures the oto context is created only once per
// process, as required by the library.
var (
	audioInitOnce sync.Once
	audioCtx      *oto.Context
	audioCtxErr   error
)

// NewAudioPlayer opens the host audio device for mono float32 output.
func NewAudioPlayer() (*AudioPlayer, error) {
	audioInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   audioSampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			audioCtxErr = err
			return
		}
		<-ready
		audioCtx = ctx
	})
	if audioCtxErr != nil {
		return nil, audioCtxErr
	}

	a := &AudioPlayer{ctx: audioCtx}
	a.player = audioCtx.NewPlayer(a)
	a.player.Play()
	return a, nil
}

// Queue appends one frame's worth of samples for playback.
func (a *AudioPlayer) Queue(samples []float32) {
	if len(samples) == 0 {
		return
	}
	a.mu.Lock()
	// Bound the backlog so a stalled device cannot grow the ring
	// without limit; drop the oldest samples.
	a.ring = append(a.ring, samples...)
	if len(a.ring) > audioSampleRate/2 {
		a.ring = a.ring[len(a.ring)-audioSampleRate/2:]
	}
	a.mu.Unlock()
}

// Read is the oto pull side: drain queued samples, pad with silence.
func (a *AudioPlayer) Read(p []byte) (int, error) {
	numSamples := len(p) / 4

	a.mu.Lock()
	n := numSamples
	if n > len(a.ring) {
		n = len(a.ring)
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(a.ring[i]))
	}
	a.ring = a.ring[n:]
	a.mu.Unlock()

	for i := n; i < numSamples; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], 0)
	}
	return numSamples * 4, nil
}

// Close stops playback.
func (a *AudioPlayer) Close() {
	if a.player != nil {
		a.player.Close()
		a.player = nil
	}
}
