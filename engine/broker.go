// Package engine is the live mixing engine: a control-thread Model owning
// tracks, transport, edits and history, and a Mixer running on the audio
// output's pull path. The two sides share nothing and communicate only
// through the Broker, so every control change commits at a processing
// quantum boundary.
package engine

import (
	"sync"
	"time"

	"mixdown"

	"mixdown/dsp"
)

type (
	// Broker is the centralized message hub between the Model (control
	// thread) and the Mixer (render path). Communication is one buffered
	// channel per recipient. Sends from the render path are always
	// non-blocking (TrySend), so the audio path can never deadlock on a
	// slow control thread. A sync.Pool recycles the level-report slices the
	// mixer pushes every quantum, to keep the render path allocation-free.
	Broker struct {
		ToMixer chan any
		ToModel chan MsgToModel

		levelsPool sync.Pool
	}

	// MsgToModel carries the mixer's per-quantum report plus infrequent
	// boxed payloads (decode completions). Levels is pooled; the model must
	// return it with PutLevels after reading.
	MsgToModel struct {
		Levels *[]TrackLevel
		Master dsp.Level

		Data any
	}

	// TrackLevel is one track's post-fader meter reading for the last
	// rendered quantum.
	TrackLevel struct {
		ID    mixdown.TrackID
		Level dsp.Level
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToMixer:    make(chan any, 1024),
		ToModel:    make(chan MsgToModel, 1024),
		levelsPool: sync.Pool{New: func() any { s := make([]TrackLevel, 0, 16); return &s }},
	}
}

// GetLevels borrows an empty level slice from the pool.
func (b *Broker) GetLevels() *[]TrackLevel {
	return b.levelsPool.Get().(*[]TrackLevel)
}

// PutLevels returns a level slice to the pool, resetting its length.
func (b *Broker) PutLevels(s *[]TrackLevel) {
	*s = (*s)[:0]
	b.levelsPool.Put(s)
}

// TrySend sends v to c unless the channel is full. Guaranteed non-blocking;
// returns false if the value was dropped.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value arrives or t elapses; ok is false on
// timeout or a closed channel.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
