package dsp

import (
	"math"

	"mixdown"
)

// Limiter is the master-bus peak limiter: an envelope follower with fast
// attack and slow release, pulling gain down whenever the envelope exceeds
// the ceiling. A final hard clip guards against single-sample overshoot
// during the attack.
type Limiter struct {
	Ceiling float32

	envelope                  float32
	attackAlpha, releaseAlpha float32
}

const (
	limiterAttack  = 2e-3 // seconds
	limiterRelease = 0.2
)

func NewLimiter(ceiling float32) *Limiter {
	return &Limiter{
		Ceiling:      ceiling,
		attackAlpha:  1 - float32(math.Exp(-1.0/(limiterAttack*mixdown.SampleRate))),
		releaseAlpha: 1 - float32(math.Exp(-1.0/(limiterRelease*mixdown.SampleRate))),
	}
}

func (l *Limiter) Process(buf mixdown.AudioBuffer) {
	for i := range buf {
		peak := abs32(buf[i][0])
		if r := abs32(buf[i][1]); r > peak {
			peak = r
		}
		alpha := l.releaseAlpha
		if peak > l.envelope {
			alpha = l.attackAlpha
		}
		l.envelope += (peak - l.envelope) * alpha
		gain := float32(1)
		if l.envelope > l.Ceiling {
			gain = l.Ceiling / l.envelope
		}
		for c := 0; c < 2; c++ {
			v := buf[i][c] * gain
			if v > l.Ceiling {
				v = l.Ceiling
			} else if v < -l.Ceiling {
				v = -l.Ceiling
			}
			buf[i][c] = v
		}
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
