package mixdown

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineUnavailable means the host audio subsystem could not be
	// acquired. Fatal for playback features; loading, editing and history
	// keep working against decoded buffers.
	ErrEngineUnavailable = errors.New("audio engine unavailable")

	// ErrInvalidSource means a load was given a source type the engine does
	// not recognize. This is a caller programming error.
	ErrInvalidSource = errors.New("unrecognized track source")

	// ErrInvalidSelection means cut/copy/delete was attempted without an
	// active, non-empty selection. The operation is a no-op.
	ErrInvalidSelection = errors.New("no active selection")

	// ErrInvalidClipboard means paste was attempted with an empty
	// clipboard. The operation is a no-op.
	ErrInvalidClipboard = errors.New("clipboard is empty")

	// ErrNoSuchTrack means an operation referenced a track id not present
	// in the registry.
	ErrNoSuchTrack = errors.New("no such track")
)

// DecodeError reports that a single source failed to decode. The track is
// simply not loaded; the registry is left unchanged.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %q: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
