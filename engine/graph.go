package engine

import (
	"mixdown"

	"mixdown/dsp"
)

// Graph is the control-side face of the audio graph: an arena of opaque
// chain handles keyed by track id. It is the only component that mutates
// processing-stage parameters, and it does so purely by messaging the
// mixer, so changes land at quantum boundaries. Handles are never stored in
// the UI-facing Track values.
type Graph struct {
	broker  *Broker
	started map[mixdown.TrackID]bool
}

func newGraph(broker *Broker) *Graph {
	return &Graph{
		broker:  broker,
		started: make(map[mixdown.TrackID]bool),
	}
}

// Attach builds the per-track chain (gain -> pan -> EQ -> meter -> master
// sum) around the decoded frames and hands it to the mixer.
func (g *Graph) Attach(id mixdown.TrackID, frames mixdown.AudioBuffer) {
	g.send(attachMsg{chain: newChain(id, frames)})
}

// Detach stops and removes the track's chain.
func (g *Graph) Detach(id mixdown.TrackID) {
	delete(g.started, id)
	g.send(detachMsg{id: id})
}

// Start begins playback of one track at the given offset into the
// timeline. Starting an already-started track restarts it; there is never
// more than one playback instance per track.
func (g *Graph) Start(id mixdown.TrackID, offsetSeconds float64) {
	g.started[id] = true
	g.send(startMsg{id: id, offsetFrames: int64(offsetSeconds * mixdown.SampleRate)})
}

// Stop ends playback of one track.
func (g *Graph) Stop(id mixdown.TrackID) {
	delete(g.started, id)
	g.send(stopMsg{id: id})
}

// StopAll ends playback of every track in a single message.
func (g *Graph) StopAll() {
	clear(g.started)
	g.send(stopAllMsg{})
}

// Started reports whether the track currently holds a playback handle.
func (g *Graph) Started(id mixdown.TrackID) bool {
	return g.started[id]
}

func (g *Graph) SetVolume(id mixdown.TrackID, volume float64) {
	g.send(gainMsg{id: id, level: float32(mixdown.Clamp(volume, 0, 1))})
}

func (g *Graph) SetPan(id mixdown.TrackID, pan float64) {
	g.send(panMsg{id: id, position: mixdown.Clamp(pan, -1, 1)})
}

func (g *Graph) SetEQ(id mixdown.TrackID, gains dsp.EQGains) {
	g.send(eqMsg{id: id, gains: gains})
}

// SetRegions replaces the track's region list on the render side. The
// slice is deep-copied so the mixer never shares memory with the model.
func (g *Graph) SetRegions(id mixdown.TrackID, regions []mixdown.Region) {
	copied := make([]mixdown.Region, len(regions))
	for i := range regions {
		copied[i] = regions[i].Copy()
	}
	g.send(regionsMsg{id: id, regions: copied})
}

func (g *Graph) SetMasterVolume(volume float64) {
	g.send(masterGainMsg{level: float32(mixdown.Clamp(volume, 0, 1))})
}

func (g *Graph) SetMasterEQ(gains dsp.EQGains) {
	g.send(masterEQMsg{gains: gains})
}

func (g *Graph) SetLimiterCeiling(ceiling float64) {
	g.send(limiterMsg{ceiling: float32(mixdown.Clamp(ceiling, 0, 1))})
}

// Teardown releases every chain. Idempotent.
func (g *Graph) Teardown() {
	clear(g.started)
	g.send(teardownMsg{})
}

func (g *Graph) send(msg any) {
	TrySend(g.broker.ToMixer, msg)
}
