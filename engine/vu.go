package engine

import (
	"mixdown"

	"mixdown/dsp"
)

// Level metering. The mixer pushes post-fader peak/RMS readings with every
// quantum; the model caches the latest. Sampling never blocks the playback
// path - a missed push just means the previous value is returned again.

// Sample returns the track's most recent post-fader level. Tracks that are
// muted, solo-suppressed or not playing report silence rather than stale
// values.
func (m *Model) Sample(id mixdown.TrackID) dsp.Level {
	idx := m.trackIndex(id)
	if idx < 0 {
		return dsp.Level{}
	}
	if !m.transport.playing || !mixdown.Audible(&m.tracks[idx], m.tracks) {
		return dsp.Level{}
	}
	return m.levels[id]
}

// MasterLevel returns the most recent master bus level.
func (m *Model) MasterLevel() dsp.Level {
	return m.masterLevel
}
