package engine

import (
	"mixdown"
)

// transport is the playback clock state. Stopped and Paused are both "not
// playing"; Paused remembers where to resume, Stop resets the position to
// the loop start (or zero). While playing, the timeline position is
// reckoned as device-clock-now minus startTime, so every track started
// within one control turn shares the same reference and stays aligned to
// within one quantum.
type transport struct {
	playing   bool
	startTime float64 // device clock time corresponding to timeline zero
	pausedAt  float64
	loop      *mixdown.LoopRegion
	tempo     float64
}

// Playing reports whether the transport is running.
func (m *Model) Playing() bool {
	return m.transport.playing
}

// CurrentTime returns the playback position in seconds. It only advances
// while playing.
func (m *Model) CurrentTime() float64 {
	if m.transport.playing {
		return m.mixer.Now() - m.transport.startTime
	}
	return m.transport.pausedAt
}

// TransportState snapshots the transport for a UI tick.
func (m *Model) TransportState() mixdown.TransportState {
	state := mixdown.TransportState{
		Playing:     m.transport.playing,
		CurrentTime: m.CurrentTime(),
		PausedAt:    m.transport.pausedAt,
		Tempo:       m.transport.tempo,
	}
	if m.transport.loop != nil {
		loop := *m.transport.loop
		state.Loop = &loop
	}
	return state
}

// Play resumes playback from the paused position. No-op when already
// playing; ErrEngineUnavailable when no output device was acquired.
func (m *Model) Play() error {
	return m.PlayFrom(m.transport.pausedAt)
}

// PlayFrom starts playback at the given position. Every currently audible
// track is issued its start command in this same synchronous turn, so all
// of them share one playbackStartTime reference.
func (m *Model) PlayFrom(seconds float64) error {
	if !m.playbackOK {
		return mixdown.ErrEngineUnavailable
	}
	if m.transport.playing {
		return nil
	}
	from := mixdown.Clamp(seconds, 0, m.maxExtent())
	m.transport.startTime = m.mixer.Now() - from
	m.transport.playing = true
	for i := range m.tracks {
		if mixdown.Audible(&m.tracks[i], m.tracks) {
			m.graph.Start(m.tracks[i].ID, from)
		}
	}
	return nil
}

// Pause freezes the position and stops every started track.
func (m *Model) Pause() error {
	if !m.transport.playing {
		return nil
	}
	m.transport.pausedAt = m.mixer.Now() - m.transport.startTime
	m.transport.playing = false
	m.graph.StopAll()
	return nil
}

// Stop pauses and resets the position to the loop start, or zero when no
// loop is set.
func (m *Model) Stop() error {
	if err := m.Pause(); err != nil {
		return err
	}
	m.transport.pausedAt = 0
	if m.transport.loop != nil {
		m.transport.pausedAt = m.transport.loop.Start
	}
	return nil
}

// Seek moves the position, clamped to the project extent. While playing,
// every audible track is restarted at the new offset within this turn so
// they remain synchronized; otherwise only the stored position changes.
func (m *Model) Seek(seconds float64) {
	target := mixdown.Clamp(seconds, 0, m.maxExtent())
	if !m.transport.playing {
		m.transport.pausedAt = target
		return
	}
	m.transport.startTime = m.mixer.Now() - target
	for i := range m.tracks {
		if mixdown.Audible(&m.tracks[i], m.tracks) {
			// a start on a playing chain repositions it; no explicit stop
			m.graph.Start(m.tracks[i].ID, target)
		}
	}
}

// SetLoopRegion sets or clears the loop. A degenerate region (end <=
// start) clears it.
func (m *Model) SetLoopRegion(loop *mixdown.LoopRegion) {
	if loop == nil || loop.End <= loop.Start {
		m.transport.loop = nil
		return
	}
	region := mixdown.LoopRegion{
		Start: mixdown.Clamp(loop.Start, 0, m.maxExtent()),
		End:   mixdown.Clamp(loop.End, 0, m.maxExtent()),
	}
	m.transport.loop = &region
}

// SetTempo sets the display/grid tempo in BPM. It never affects playback
// speed.
func (m *Model) SetTempo(bpm float64) {
	m.transport.tempo = mixdown.Clamp(bpm, 20, 999)
}

// Tempo returns the grid tempo in BPM.
func (m *Model) Tempo() float64 {
	return m.transport.tempo
}

// BeatsToSeconds converts a grid distance in beats to seconds at the
// current tempo.
func (m *Model) BeatsToSeconds(beats float64) float64 {
	return beats * 60 / m.transport.tempo
}

// SecondsToBeats converts seconds to a grid distance in beats at the
// current tempo.
func (m *Model) SecondsToBeats(seconds float64) float64 {
	return seconds * m.transport.tempo / 60
}

// checkLoopEdge is the per-tick loop test: edge-triggered, so the position
// may overshoot the loop end by up to one tick before snapping back. That
// overshoot is an accepted approximation of the tick granularity.
func (m *Model) checkLoopEdge() {
	loop := m.transport.loop
	if !m.transport.playing || loop == nil {
		return
	}
	if m.CurrentTime() >= loop.End {
		m.transport.startTime = m.mixer.Now() - loop.Start
		for i := range m.tracks {
			if mixdown.Audible(&m.tracks[i], m.tracks) {
				m.graph.Start(m.tracks[i].ID, loop.Start)
			}
		}
	}
}

// maxExtent is the furthest point any track can produce audio, including
// pasted tails.
func (m *Model) maxExtent() float64 {
	var ret float64
	for i := range m.tracks {
		if e := m.tracks[i].Extent(); e > ret {
			ret = e
		}
	}
	return ret
}
