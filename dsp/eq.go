package dsp

import (
	"math"

	"mixdown"
)

// EQ band corner/center frequencies, chosen to match the usual low/mid/high
// split of a mixer channel strip.
const (
	eqLowFreq  = 200
	eqMidFreq  = 1000
	eqHighFreq = 4000
	eqMidQ     = 0.7
)

// biquad is a single second-order IIR section in direct form 1, stereo.
type biquad struct {
	b0, b1, b2, a1, a2 float32
	x1, x2, y1, y2     [2]float32
}

func (f *biquad) process(buf mixdown.AudioBuffer) {
	for i := range buf {
		for c := 0; c < 2; c++ {
			x := buf[i][c]
			y := f.b0*x + f.b1*f.x1[c] + f.b2*f.x2[c] - f.a1*f.y1[c] - f.a2*f.y2[c]
			f.x2[c] = f.x1[c]
			f.x1[c] = x
			f.y2[c] = f.y1[c]
			f.y1[c] = y
			buf[i][c] = y
		}
	}
}

func (f *biquad) set(b0, b1, b2, a0, a1, a2 float64) {
	f.b0 = float32(b0 / a0)
	f.b1 = float32(b1 / a0)
	f.b2 = float32(b2 / a0)
	f.a1 = float32(a1 / a0)
	f.a2 = float32(a2 / a0)
}

func lowShelf(f *biquad, freq, gainDB float64) {
	a := math.Pow(10, gainDB/40)
	w := 2 * math.Pi * freq / mixdown.SampleRate
	cw, sw := math.Cos(w), math.Sin(w)
	alpha := sw / 2 * math.Sqrt2
	beta := 2 * math.Sqrt(a) * alpha
	f.set(
		a*((a+1)-(a-1)*cw+beta),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-beta),
		(a+1)+(a-1)*cw+beta,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-beta,
	)
}

func highShelf(f *biquad, freq, gainDB float64) {
	a := math.Pow(10, gainDB/40)
	w := 2 * math.Pi * freq / mixdown.SampleRate
	cw, sw := math.Cos(w), math.Sin(w)
	alpha := sw / 2 * math.Sqrt2
	beta := 2 * math.Sqrt(a) * alpha
	f.set(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

func peaking(f *biquad, freq, q, gainDB float64) {
	a := math.Pow(10, gainDB/40)
	w := 2 * math.Pi * freq / mixdown.SampleRate
	cw, sw := math.Cos(w), math.Sin(w)
	alpha := sw / (2 * q)
	f.set(
		1+alpha*a,
		-2*cw,
		1-alpha*a,
		1+alpha/a,
		-2*cw,
		1-alpha/a,
	)
}

// ThreeBandEQ is a low shelf at 200 Hz, a peaking mid at 1 kHz and a high
// shelf at 4 kHz in series. Gains are in decibels; 0/0/0 is flat (but the
// sections still run, so switching a band to 0 dB is click-free).
type ThreeBandEQ struct {
	low, mid, high biquad
}

// EQGains is one parameter update for all three bands.
type EQGains struct {
	Low, Mid, High float64 // dB
}

func NewThreeBandEQ() *ThreeBandEQ {
	eq := &ThreeBandEQ{}
	eq.SetGains(EQGains{})
	return eq
}

func (eq *ThreeBandEQ) SetGains(g EQGains) {
	lowShelf(&eq.low, eqLowFreq, mixdown.Clamp(g.Low, -24, 24))
	peaking(&eq.mid, eqMidFreq, eqMidQ, mixdown.Clamp(g.Mid, -24, 24))
	highShelf(&eq.high, eqHighFreq, mixdown.Clamp(g.High, -24, 24))
}

func (eq *ThreeBandEQ) Process(buf mixdown.AudioBuffer) {
	eq.low.process(buf)
	eq.mid.process(buf)
	eq.high.process(buf)
}
