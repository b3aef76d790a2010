package decode

import (
	"bytes"
	"fmt"

	"github.com/go-audio/wav"

	"mixdown"
)

func decodeWAV(data []byte) (mixdown.AudioBuffer, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading wav samples: %w", err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("wav file has no channels")
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	scale := float32(int64(1) << (bitDepth - 1))
	n := len(buf.Data) / channels
	frames := make(mixdown.AudioBuffer, n)
	for i := 0; i < n; i++ {
		left := float32(buf.Data[i*channels]) / scale
		right := left
		if channels > 1 {
			right = float32(buf.Data[i*channels+1]) / scale
		}
		frames[i] = [2]float32{left, right}
	}
	return frames, buf.Format.SampleRate, nil
}
