// Package decode turns track sources - files, URLs, raw byte streams or
// already-decoded buffers - into stereo float32 frames at the engine sample
// rate. WAV is decoded with go-audio/wav, MP3 with go-mp3; anything else is
// a DecodeError. Sources with a different sample rate are resampled with
// linear interpolation on load, so the mixer never deals with rate
// conversion.
package decode

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"mixdown"
)

// Source is a track source accepted by the registry. The concrete types
// below are the only implementations the engine recognizes; handing the
// registry anything else is a caller error (mixdown.ErrInvalidSource).
type Source interface {
	// SourceName identifies the source in errors and track names.
	SourceName() string
}

// FileSource reads and decodes a local audio file.
type FileSource struct {
	Path string
}

func (s FileSource) SourceName() string { return s.Path }

// ReaderSource decodes a raw byte stream, e.g. an upload buffer.
type ReaderSource struct {
	Name   string
	Reader io.Reader
}

func (s ReaderSource) SourceName() string { return s.Name }

// URLSource fetches a remote file over HTTP and decodes it.
type URLSource struct {
	URL string
}

func (s URLSource) SourceName() string { return s.URL }

// BufferSource wraps frames that are already decoded, e.g. stems handed
// over by a generation service. Frames must be at mixdown.SampleRate.
type BufferSource struct {
	Name   string
	Frames mixdown.AudioBuffer
}

func (s BufferSource) SourceName() string { return s.Name }

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Decode resolves src into stereo frames at mixdown.SampleRate. Decode
// failures come back as *mixdown.DecodeError naming the source; an
// unrecognized Source implementation comes back as
// mixdown.ErrInvalidSource.
func Decode(src Source) (mixdown.AudioBuffer, error) {
	switch s := src.(type) {
	case FileSource:
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, &mixdown.DecodeError{Source: s.Path, Err: err}
		}
		return decodeBytes(s.Path, data)
	case ReaderSource:
		data, err := io.ReadAll(s.Reader)
		if err != nil {
			return nil, &mixdown.DecodeError{Source: s.Name, Err: err}
		}
		return decodeBytes(s.Name, data)
	case URLSource:
		data, err := fetch(s.URL)
		if err != nil {
			return nil, &mixdown.DecodeError{Source: s.URL, Err: err}
		}
		return decodeBytes(s.URL, data)
	case BufferSource:
		if len(s.Frames) == 0 {
			return nil, &mixdown.DecodeError{Source: s.Name, Err: fmt.Errorf("empty buffer")}
		}
		frames := make(mixdown.AudioBuffer, len(s.Frames))
		copy(frames, s.Frames)
		return frames, nil
	}
	return nil, fmt.Errorf("%w: %T", mixdown.ErrInvalidSource, src)
}

func fetch(url string) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func decodeBytes(name string, data []byte) (mixdown.AudioBuffer, error) {
	var frames mixdown.AudioBuffer
	var rate int
	var err error
	if bytes.HasPrefix(data, []byte("RIFF")) {
		frames, rate, err = decodeWAV(data)
	} else {
		frames, rate, err = decodeMP3(data)
	}
	if err != nil {
		return nil, &mixdown.DecodeError{Source: name, Err: err}
	}
	if len(frames) == 0 {
		return nil, &mixdown.DecodeError{Source: name, Err: fmt.Errorf("no audio frames")}
	}
	if rate != mixdown.SampleRate {
		frames = resample(frames, rate, mixdown.SampleRate)
	}
	return frames, nil
}

// resample converts frames from one sample rate to another with linear
// interpolation. Good enough for stem playback; this is not a mastering
// path.
func resample(in mixdown.AudioBuffer, from, to int) mixdown.AudioBuffer {
	n := int(float64(len(in)) * float64(to) / float64(from))
	out := make(mixdown.AudioBuffer, n)
	ratio := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * ratio
		lo := int(pos)
		if lo >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(pos - float64(lo))
		for c := 0; c < 2; c++ {
			out[i][c] = in[lo][c]*(1-frac) + in[lo+1][c]*frac
		}
	}
	return out
}
