package dsp

import (
	"math"

	"github.com/viterin/vek/vek32"

	"mixdown"
)

// Level is one metering measurement over a block, both values in [0,1]
// linear scale (1 = full scale).
type Level struct {
	Peak float32
	RMS  float32
}

// Meter computes block peak/RMS from a metering tap. It reuses its scratch
// buffers across calls so measuring allocates nothing in steady state.
type Meter struct {
	tmp  []float32
	tmp2 []float32
}

// Measure returns the peak and RMS level of buf. An empty buffer measures
// as silence.
func (m *Meter) Measure(buf mixdown.AudioBuffer) Level {
	if len(buf) == 0 {
		return Level{}
	}
	n := len(buf) * 2
	if cap(m.tmp) < n {
		m.tmp = make([]float32, n)
		m.tmp2 = make([]float32, n)
	}
	x := m.tmp[:n]
	for i, frame := range buf {
		x[i*2] = frame[0]
		x[i*2+1] = frame[1]
	}
	vek32.Abs_Inplace(x)
	peak := vek32.Max(x)
	squares := vek32.Mul_Into(m.tmp2[:n], x, x)
	rms := float32(math.Sqrt(float64(vek32.Mean(squares))))
	return Level{
		Peak: clamp01(peak),
		RMS:  clamp01(rms),
	}
}

func clamp01(v float32) float32 {
	if v != v || v < 0 { // NaN guards the meter, not the signal path
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
