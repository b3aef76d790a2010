// Package oto adapts the mixdown audio interfaces to the oto output
// device. Oto pulls: the device calls Read on its source, so the engine's
// render path runs on oto's real-time goroutine.
package oto

import (
	"fmt"

	"github.com/ebitengine/oto/v3"

	"mixdown"
)

type OtoContext struct {
	context *oto.Context
}

type OtoOutput struct {
	player *oto.Player
}

// NewContext acquires the default output device. The returned error wraps
// mixdown.ErrEngineUnavailable so callers can keep editing features alive
// when there is no audio device.
func NewContext() (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   mixdown.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mixdown.ErrEngineUnavailable, err)
	}
	<-ready
	return &OtoContext{context: context}, nil
}

func (c *OtoContext) Play(source mixdown.AudioSource) (mixdown.AudioOutput, error) {
	player := c.context.NewPlayer(&sourceReader{source: source})
	player.Play()
	return &OtoOutput{player: player}, nil
}

func (c *OtoContext) Close() error {
	// oto contexts cannot be closed, only suspended.
	return c.context.Suspend()
}

func (o *OtoOutput) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// sourceReader converts the pull interface oto expects (bytes) to the
// frame-oriented AudioSource. Reads that are not frame-aligned keep the
// remainder for the next call.
type sourceReader struct {
	source  mixdown.AudioSource
	frames  mixdown.AudioBuffer
	pending []byte
}

const bytesPerFrame = 4 // 2 channels x 16 bits

func (r *sourceReader) Read(p []byte) (int, error) {
	total := 0
	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		p = p[n:]
		total += n
	}
	for len(p) > 0 {
		want := (len(p) + bytesPerFrame - 1) / bytesPerFrame
		if want > mixdown.QuantumFrames {
			want = mixdown.QuantumFrames
		}
		if cap(r.frames) < want {
			r.frames = make(mixdown.AudioBuffer, want)
		}
		n, err := r.source.ReadAudio(r.frames[:want])
		if err != nil {
			return total, err
		}
		raw := framesTo16BitLE(r.frames[:n], nil)
		copied := copy(p, raw)
		p = p[copied:]
		total += copied
		if copied < len(raw) {
			r.pending = append(r.pending[:0], raw[copied:]...)
		}
	}
	return total, nil
}
