package decode

import (
	"bytes"
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"

	"mixdown"
)

func decodeMP3(data []byte) (mixdown.AudioBuffer, int, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("opening mp3 stream: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, fmt.Errorf("reading mp3 samples: %w", err)
	}
	// go-mp3 always outputs 16-bit little-endian stereo.
	n := len(pcm) / 4
	frames := make(mixdown.AudioBuffer, n)
	for i := 0; i < n; i++ {
		left := int16(uint16(pcm[i*4]) | uint16(pcm[i*4+1])<<8)
		right := int16(uint16(pcm[i*4+2]) | uint16(pcm[i*4+3])<<8)
		frames[i] = [2]float32{float32(left) / 32768, float32(right) / 32768}
	}
	return frames, d.SampleRate(), nil
}
