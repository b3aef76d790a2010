package mixdown

// AudioBuffer is a slice of stereo sample frames at SampleRate.
type AudioBuffer [][2]float32

// Zero silences the buffer in place.
func (b AudioBuffer) Zero() {
	for i := range b {
		b[i] = [2]float32{}
	}
}

// AudioSource produces audio for an output device. The device pulls: ReadAudio
// fills buffer with up to len(buffer) frames and returns how many were
// written. It runs on the device's real-time path, so implementations must
// never block on the control thread.
type AudioSource interface {
	ReadAudio(buffer AudioBuffer) (n int, err error)
}

// AudioOutput is one running playback session on a device.
type AudioOutput interface {
	Close() error
}

// AudioContext is the host audio subsystem. Acquiring one can fail (no
// output device, permission denied); callers treat that as fatal for
// playback only.
type AudioContext interface {
	// Play starts pulling samples from source and playing them on the
	// default output device.
	Play(source AudioSource) (AudioOutput, error)
	Close() error
}
