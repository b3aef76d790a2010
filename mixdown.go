// Package mixdown contains the domain types of the mixing engine: tracks,
// regions, selections and the solo/mute audibility policy. The live engine
// built on top of these lives in the engine package.
package mixdown

import "github.com/google/uuid"

// SampleRate is the fixed engine sample rate; every decoded source is
// resampled to this on load.
const SampleRate = 44100

// QuantumFrames is the number of stereo frames the render path commits at a
// time. Parameter changes and other control messages take effect only at
// quantum boundaries.
const QuantumFrames = 1024

// TrackID identifies a track for the whole of its lifetime. Graph chains,
// clipboard entries and selections refer to tracks only through their ID.
type TrackID string

// NewTrackID returns a fresh unique track id.
func NewTrackID() TrackID {
	return TrackID(uuid.NewString())
}

// StemClass is a coarse classification of what a track contains. It only
// affects the default mixing parameters a new track gets.
type StemClass int

const (
	StemOther StemClass = iota
	StemDrums
	StemBass
	StemMelody
)

// DefaultVolume returns the default fader position for a freshly loaded
// track of this stem class.
func (c StemClass) DefaultVolume() float64 {
	switch c {
	case StemDrums:
		return 0.85
	case StemBass:
		return 0.8
	}
	return 0.75
}

func (c StemClass) String() string {
	switch c {
	case StemDrums:
		return "drums"
	case StemBass:
		return "bass"
	case StemMelody:
		return "melody"
	}
	return "other"
}

// ParseStemClass maps a stem class name to its value; unknown names map to
// StemOther.
func ParseStemClass(s string) StemClass {
	switch s {
	case "drums":
		return StemDrums
	case "bass":
		return StemBass
	case "melody":
		return StemMelody
	}
	return StemOther
}

// Track is one independently controllable audio source. It is a plain value
// owned by the control thread; the decoded sample buffer and the playback
// handle live in the engine's chain arena, keyed by ID, and are not part of
// a Track. Volume is always within [0,1] and Pan within [-1,1]; setters
// clamp rather than reject.
type Track struct {
	ID       TrackID
	Name     string
	Class    StemClass
	Volume   float64
	Pan      float64
	Muted    bool
	Soloed   bool
	Armed    bool
	Duration float64 // seconds, immutable once loaded
	Regions  []Region
}

func (t *Track) Copy() Track {
	regions := make([]Region, len(t.Regions))
	for i, r := range t.Regions {
		regions[i] = r.Copy()
	}
	ret := *t
	ret.Regions = regions
	return ret
}

// SetVolume clamps value to [0,1] and stores it.
func (t *Track) SetVolume(value float64) {
	t.Volume = Clamp(value, 0, 1)
}

// SetPan clamps value to [-1,1] and stores it.
func (t *Track) SetPan(value float64) {
	t.Pan = Clamp(value, -1, 1)
}

// Extent is how far into the timeline the track can produce audio: the
// source duration, or further if a paste region sticks out past the end.
func (t *Track) Extent() float64 {
	ret := t.Duration
	for _, r := range t.Regions {
		if r.Kind == RegionPaste && r.End > ret {
			ret = r.End
		}
	}
	return ret
}

// CopyTracks deep-copies a track list, for history snapshots.
func CopyTracks(tracks []Track) []Track {
	ret := make([]Track, len(tracks))
	for i := range tracks {
		ret[i] = tracks[i].Copy()
	}
	return ret
}

// Audible is the single solo/mute resolution point: a track sounds if it is
// not muted and either no track is soloed or it is soloed itself. Soloing
// never touches the stored Muted flags of other tracks, so unsoloing the
// last soloed track restores every track to exactly its own mute choice.
func Audible(t *Track, all []Track) bool {
	if t.Muted {
		return false
	}
	for i := range all {
		if all[i].Soloed {
			return t.Soloed
		}
	}
	return true
}

// Clamp limits value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
