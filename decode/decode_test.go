package decode_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"mixdown"
	"mixdown/decode"
)

// writeTestWAV writes a 16-bit stereo wav with a short constant signal and
// returns its path.
func writeTestWAV(t *testing.T, rate, frames int, amplitude int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, rate, 16, 2, 1)
	data := make([]int, frames*2)
	for i := range data {
		data[i] = amplitude
	}
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeWAVFile(t *testing.T) {
	path := writeTestWAV(t, mixdown.SampleRate, 4410, 8192)
	frames, err := decode.Decode(decode.FileSource{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4410 {
		t.Fatalf("decoded %d frames, want 4410", len(frames))
	}
	want := float32(8192) / 32768
	if got := frames[100][0]; got < want-1e-3 || got > want+1e-3 {
		t.Errorf("sample = %v, want about %v", got, want)
	}
}

func TestDecodeResamplesToEngineRate(t *testing.T) {
	path := writeTestWAV(t, 22050, 2205, 1000) // 0.1 s at half rate
	frames, err := decode.Decode(decode.FileSource{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	want := mixdown.SampleRate / 10
	if len(frames) < want-5 || len(frames) > want+5 {
		t.Errorf("resampled to %d frames, want about %d", len(frames), want)
	}
}

func TestDecodeGarbageIsDecodeError(t *testing.T) {
	src := decode.ReaderSource{Name: "garbage", Reader: bytes.NewReader([]byte("not audio at all"))}
	_, err := decode.Decode(src)
	var derr *mixdown.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *mixdown.DecodeError", err)
	}
	if derr.Source != "garbage" {
		t.Errorf("DecodeError names %q, want the offending source", derr.Source)
	}
}

func TestDecodeURLSource(t *testing.T) {
	path := writeTestWAV(t, mixdown.SampleRate, 441, 1000)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()
	frames, err := decode.Decode(decode.URLSource{URL: server.URL + "/kick.wav"})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 441 {
		t.Errorf("decoded %d frames, want 441", len(frames))
	}
}

func TestDecodeUnreachableURL(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/missing.wav"
	server.Close() // connection refused from now on
	_, err := decode.Decode(decode.URLSource{URL: url})
	var derr *mixdown.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *mixdown.DecodeError for unreachable URL", err)
	}
}

func TestDecodeBufferSourceCopies(t *testing.T) {
	orig := mixdown.AudioBuffer{{0.1, 0.2}, {0.3, 0.4}}
	frames, err := decode.Decode(decode.BufferSource{Name: "stems", Frames: orig})
	if err != nil {
		t.Fatal(err)
	}
	frames[0][0] = 9
	if orig[0][0] != 0.1 {
		t.Errorf("decode shares memory with the caller's buffer")
	}
}

type bogusSource struct{}

func (bogusSource) SourceName() string { return "bogus" }

func TestDecodeUnknownSourceType(t *testing.T) {
	_, err := decode.Decode(bogusSource{})
	if !errors.Is(err, mixdown.ErrInvalidSource) {
		t.Fatalf("err = %v, want ErrInvalidSource", err)
	}
}
