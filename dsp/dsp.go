// Package dsp implements the per-track and master-bus processing stages of
// the mixing engine: gain, equal-power panning, a 3-band equalizer, a peak
// limiter and block peak/RMS metering. All stages process stereo float32
// frames in place and keep their state across blocks.
package dsp

import (
	"math"

	"mixdown"
)

// Gain is a plain linear gain stage. The engine commits value changes only
// at quantum boundaries, which is what keeps fader moves click-free; the
// stage itself just multiplies.
type Gain struct {
	Level float32
}

func (g *Gain) Process(buf mixdown.AudioBuffer) {
	for i := range buf {
		buf[i][0] *= g.Level
		buf[i][1] *= g.Level
	}
}

// Pan is an equal-power stereo panner. Position -1 is hard left, 0 center,
// +1 hard right.
type Pan struct {
	left, right float32
}

func NewPan() *Pan {
	p := &Pan{}
	p.SetPosition(0)
	return p
}

func (p *Pan) SetPosition(position float64) {
	position = mixdown.Clamp(position, -1, 1)
	angle := (position + 1) * math.Pi / 4
	p.left = float32(math.Cos(angle))
	p.right = float32(math.Sin(angle))
}

func (p *Pan) Process(buf mixdown.AudioBuffer) {
	for i := range buf {
		buf[i][0] *= p.left
		buf[i][1] *= p.right
	}
}
