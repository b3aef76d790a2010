package oto

import (
	"math"

	"mixdown"
)

// framesTo16BitLE converts stereo frames to interleaved 16-bit little-endian
// samples, appending to dst. Out-of-range samples are clipped; the limiter
// upstream makes that rare.
func framesTo16BitLE(frames mixdown.AudioBuffer, dst []byte) []byte {
	for _, frame := range frames {
		for c := 0; c < 2; c++ {
			v := frame[c]
			var s int16
			if v <= -1.0 {
				s = -math.MaxInt16
			} else if v >= 1.0 {
				s = math.MaxInt16
			} else {
				s = int16(v * math.MaxInt16)
			}
			dst = append(dst, byte(s), byte(s>>8))
		}
	}
	return dst
}
