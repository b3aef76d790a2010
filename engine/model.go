package engine

import (
	"fmt"
	"time"

	"mixdown"

	"mixdown/dsp"
)

// Model is the engine context object: it owns all mutable engine state
// (tracks, transport, selection, clipboard, history) and is confined to a
// single control goroutine. There is deliberately no package-level
// singleton; create as many independent Models as needed, e.g. one per
// test.
//
// The host drives the model by calling Update once per display tick
// (~60 Hz); Update drains mixer messages, installs finished loads and runs
// the transport's loop-edge check. All other methods are synchronous.
type Model struct {
	broker *Broker
	mixer  *Mixer
	graph  *Graph
	audio  mixdown.AudioContext
	output mixdown.AudioOutput
	tick   TickSource

	tracks    []mixdown.Track
	pending   map[mixdown.TrackID]*LoadTask
	selection *mixdown.Selection
	clipboard *mixdown.ClipboardEntry
	history   History
	transport transport

	levels      map[mixdown.TrackID]dsp.Level
	masterLevel dsp.Level

	playbackOK bool
	closed     bool
}

// NewModel wires a model to a mixer over the broker and starts pulling
// audio from the given context. audio may be nil (or its Play may fail, in
// which case the model is returned together with the wrapped
// ErrEngineUnavailable): the engine then runs in editing-only mode where
// loading, editing and history work but transport commands report
// ErrEngineUnavailable.
func NewModel(broker *Broker, mixer *Mixer, audio mixdown.AudioContext, tick TickSource) (*Model, error) {
	m := &Model{
		broker:  broker,
		mixer:   mixer,
		graph:   newGraph(broker),
		audio:   audio,
		tick:    tick,
		pending: make(map[mixdown.TrackID]*LoadTask),
		levels:  make(map[mixdown.TrackID]dsp.Level),
		transport: transport{
			tempo: 120,
		},
	}
	if audio == nil {
		return m, nil
	}
	output, err := audio.Play(mixer)
	if err != nil {
		return m, fmt.Errorf("starting audio output: %w", err)
	}
	m.output = output
	m.playbackOK = true
	return m, nil
}

// PlaybackAvailable reports whether an output device was acquired.
func (m *Model) PlaybackAvailable() bool {
	return m.playbackOK
}

// Tick exposes the injected tick source for the host's update loop; nil
// when the model was created without one.
func (m *Model) Tick() <-chan time.Time {
	if m.tick == nil {
		return nil
	}
	return m.tick.C()
}

// Update is the per-tick control-thread work: drain messages from the
// mixer and decode goroutines, then re-check the transport's loop edge.
func (m *Model) Update() {
	for {
		select {
		case msg := <-m.broker.ToModel:
			if msg.Levels != nil {
				for _, tl := range *msg.Levels {
					m.levels[tl.ID] = tl.Level
				}
				m.masterLevel = msg.Master
				m.broker.PutLevels(msg.Levels)
			}
			switch v := msg.Data.(type) {
			case loadedMsg:
				m.finishLoad(v)
			}
		default:
			m.checkLoopEdge()
			return
		}
	}
}

// Tracks returns the current track list. The slice is owned by the model;
// callers must treat it as read-only and use the Set* methods to mutate.
func (m *Model) Tracks() []mixdown.Track {
	return m.tracks
}

// Track returns a copy of one track.
func (m *Model) Track(id mixdown.TrackID) (mixdown.Track, error) {
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.Track{}, mixdown.ErrNoSuchTrack
	}
	return m.tracks[idx].Copy(), nil
}

// SetVolume clamps and applies the track's fader level. Out-of-range input
// is clamped, never an error.
func (m *Model) SetVolume(id mixdown.TrackID, volume float64) error {
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	m.tracks[idx].SetVolume(volume)
	m.graph.SetVolume(id, m.tracks[idx].Volume)
	return nil
}

// SetPan clamps and applies the track's stereo position.
func (m *Model) SetPan(id mixdown.TrackID, pan float64) error {
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	m.tracks[idx].SetPan(pan)
	m.graph.SetPan(id, m.tracks[idx].Pan)
	return nil
}

// SetMuted updates the track's own mute flag and re-resolves audibility
// for every track, not just this one.
func (m *Model) SetMuted(id mixdown.TrackID, muted bool) error {
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	m.tracks[idx].Muted = muted
	m.applyAudibility()
	return nil
}

// SetSoloed updates the track's solo flag and re-resolves audibility for
// every track. Soloing overrides other tracks' output without touching
// their stored mute flags.
func (m *Model) SetSoloed(id mixdown.TrackID, soloed bool) error {
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	m.tracks[idx].Soloed = soloed
	m.applyAudibility()
	return nil
}

// SetArmed updates the track's record-arm flag.
func (m *Model) SetArmed(id mixdown.TrackID, armed bool) error {
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	m.tracks[idx].Armed = armed
	return nil
}

// SetTrackEQ applies the track's 3-band EQ gains.
func (m *Model) SetTrackEQ(id mixdown.TrackID, gains dsp.EQGains) error {
	if m.trackIndex(id) < 0 {
		return mixdown.ErrNoSuchTrack
	}
	m.graph.SetEQ(id, gains)
	return nil
}

// Audible resolves the track's effective audibility from its own flags and
// the set of all tracks' solo flags.
func (m *Model) Audible(id mixdown.TrackID) (bool, error) {
	idx := m.trackIndex(id)
	if idx < 0 {
		return false, mixdown.ErrNoSuchTrack
	}
	return mixdown.Audible(&m.tracks[idx], m.tracks), nil
}

// SetMasterVolume sets the master bus gain, clamped to [0,1].
func (m *Model) SetMasterVolume(volume float64) {
	m.graph.SetMasterVolume(volume)
}

// SetMasterEQ sets the master bus 3-band EQ gains.
func (m *Model) SetMasterEQ(gains dsp.EQGains) {
	m.graph.SetMasterEQ(gains)
}

// SetLimiterCeiling sets the master limiter ceiling, clamped to [0,1].
func (m *Model) SetLimiterCeiling(ceiling float64) {
	m.graph.SetLimiterCeiling(ceiling)
}

// applyAudibility is the single call site that reconciles playback handles
// with the solo/mute policy: while the transport runs, every track that
// should sound holds a handle and every track that should not holds none.
// Tracks becoming audible mid-playback are started at the current position
// so they stay aligned with already-playing tracks.
func (m *Model) applyAudibility() {
	if !m.transport.playing {
		return
	}
	now := m.CurrentTime()
	for i := range m.tracks {
		id := m.tracks[i].ID
		want := mixdown.Audible(&m.tracks[i], m.tracks)
		switch {
		case want && !m.graph.Started(id):
			m.graph.Start(id, now)
		case !want && m.graph.Started(id):
			m.graph.Stop(id)
		}
	}
}

// Close tears the engine down: releases all chains, stops the output and
// the tick source. Idempotent. In-flight decodes resolve as canceled.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.transport.playing = false
	m.graph.Teardown()
	for id := range m.pending {
		delete(m.pending, id)
	}
	if m.tick != nil {
		m.tick.Stop()
	}
	var err error
	if m.output != nil {
		err = m.output.Close()
	}
	if m.audio != nil {
		if cerr := m.audio.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
