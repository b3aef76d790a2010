package engine

import (
	"mixdown"

	"mixdown/dsp"
)

// chain is the render-side signal path of one track: region-resolved source
// read -> gain -> pan -> 3-band EQ -> meter tap -> sum into master. It is
// owned by the Mixer goroutine after being attached; the control side only
// ever talks to it through messages.
type chain struct {
	id      mixdown.TrackID
	src     mixdown.AudioBuffer
	regions []mixdown.Region

	gain  dsp.Gain
	pan   *dsp.Pan
	eq    *dsp.ThreeBandEQ
	meter dsp.Meter
	level dsp.Level

	playing bool
	pos     int64 // timeline position in frames while playing

	scratch mixdown.AudioBuffer
}

func newChain(id mixdown.TrackID, src mixdown.AudioBuffer) *chain {
	return &chain{
		id:   id,
		src:  src,
		gain: dsp.Gain{Level: 1},
		pan:  dsp.NewPan(),
		eq:   dsp.NewThreeBandEQ(),
	}
}

func (c *chain) start(offsetFrames int64) {
	// restarting an already-playing chain just moves the position; there is
	// never more than one playback instance per track
	c.pos = offsetFrames
	c.playing = true
}

func (c *chain) stop() {
	c.playing = false
	c.level = dsp.Level{}
}

// render mixes one quantum of this chain into out. chains is the mixer's
// arena, needed to resolve paste regions against their source track's
// audio.
func (c *chain) render(out mixdown.AudioBuffer, chains map[mixdown.TrackID]*chain) {
	n := len(out)
	if cap(c.scratch) < n {
		c.scratch = make(mixdown.AudioBuffer, n)
	}
	scratch := c.scratch[:n]
	for i := range scratch {
		t := float64(c.pos+int64(i)) / mixdown.SampleRate
		scratch[i] = c.sampleAt(t, chains)
	}
	c.gain.Process(scratch)
	c.pan.Process(scratch)
	c.eq.Process(scratch)
	c.level = c.meter.Measure(scratch)
	for i := range out {
		out[i][0] += scratch[i][0]
		out[i][1] += scratch[i][1]
	}
	c.pos += int64(n)
}

// sampleAt resolves the region annotations for one timeline instant.
// Regions are checked newest-first so the most recent edit covering the
// instant wins.
func (c *chain) sampleAt(t float64, chains map[mixdown.TrackID]*chain) [2]float32 {
	for i := len(c.regions) - 1; i >= 0; i-- {
		r := &c.regions[i]
		if t < r.Start || t >= r.End {
			continue
		}
		switch r.Kind {
		case mixdown.RegionCut, mixdown.RegionDelete:
			return [2]float32{}
		case mixdown.RegionPaste:
			if r.Source == nil {
				return [2]float32{}
			}
			src, ok := chains[r.Source.Track]
			if !ok {
				// clipboard source track was removed; the annotation
				// survives but its audio is unresolvable
				return [2]float32{}
			}
			return frameAt(src.src, r.Source.Start+(t-r.Start))
		}
	}
	return frameAt(c.src, t)
}

func frameAt(src mixdown.AudioBuffer, t float64) [2]float32 {
	idx := int(t * mixdown.SampleRate)
	if idx < 0 || idx >= len(src) {
		return [2]float32{}
	}
	return src[idx]
}

// masterChain is the summing bus every track feeds into: gain -> 3-band EQ
// -> limiter, then the device.
type masterChain struct {
	gain    dsp.Gain
	eq      *dsp.ThreeBandEQ
	limiter *dsp.Limiter
	meter   dsp.Meter
	level   dsp.Level
}

func newMasterChain() *masterChain {
	return &masterChain{
		gain:    dsp.Gain{Level: 1},
		eq:      dsp.NewThreeBandEQ(),
		limiter: dsp.NewLimiter(0.98),
	}
}

func (m *masterChain) process(buf mixdown.AudioBuffer) {
	m.gain.Process(buf)
	m.eq.Process(buf)
	m.limiter.Process(buf)
	m.level = m.meter.Measure(buf)
}
