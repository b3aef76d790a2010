package engine

import (
	"math"
	"testing"

	"mixdown"
)

func constSrc(seconds float64, amplitude float32) mixdown.AudioBuffer {
	frames := make(mixdown.AudioBuffer, int(seconds*mixdown.SampleRate))
	for i := range frames {
		frames[i] = [2]float32{amplitude, amplitude}
	}
	return frames
}

func sameWithin(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestParamsCommitAtQuantumBoundary(t *testing.T) {
	broker := NewBroker()
	mixer := NewMixer(broker)
	graph := newGraph(broker)
	id := mixdown.NewTrackID()
	graph.Attach(id, constSrc(2, 1))
	graph.Start(id, 0)

	buf := make(mixdown.AudioBuffer, mixdown.QuantumFrames)
	mixer.ReadAudio(buf)
	center := float32(math.Sqrt2 / 2)
	if !sameWithin(buf[0][0], center, 2e-3) {
		t.Fatalf("unity gain center pan renders %v, want about %v", buf[0][0], center)
	}
	for i := range buf {
		if !sameWithin(buf[i][0], buf[0][0], 1e-3) {
			t.Fatalf("sample %d = %v differs within one quantum", i, buf[i][0])
		}
	}

	// the fader move lands at the next quantum boundary, never inside one
	graph.SetVolume(id, 0.5)
	mixer.ReadAudio(buf)
	want := center * 0.5
	for i := range buf {
		if !sameWithin(buf[i][0], want, 2e-3) {
			t.Fatalf("after fader move, sample %d = %v, want %v for the whole quantum", i, buf[i][0], want)
		}
	}
}

func TestStartKeepsChainsAligned(t *testing.T) {
	broker := NewBroker()
	mixer := NewMixer(broker)
	graph := newGraph(broker)
	a, b := mixdown.NewTrackID(), mixdown.NewTrackID()
	graph.Attach(a, constSrc(4, 0.5))
	graph.Attach(b, constSrc(4, 0.25))
	graph.Start(a, 0)
	graph.Start(b, 0)

	buf := make(mixdown.AudioBuffer, mixdown.QuantumFrames)
	mixer.ReadAudio(buf)
	if mixer.chains[a].pos != mixdown.QuantumFrames || mixer.chains[b].pos != mixdown.QuantumFrames {
		t.Fatalf("positions after one quantum: %d and %d, want both %d",
			mixer.chains[a].pos, mixer.chains[b].pos, mixdown.QuantumFrames)
	}

	// a restart on playing chains repositions both within the same drain
	graph.Start(a, 2)
	graph.Start(b, 2)
	mixer.ReadAudio(buf)
	want := int64(2*mixdown.SampleRate) + mixdown.QuantumFrames
	if mixer.chains[a].pos != want || mixer.chains[b].pos != mixer.chains[a].pos {
		t.Errorf("positions after reposition: %d and %d, want both %d",
			mixer.chains[a].pos, mixer.chains[b].pos, want)
	}
}

func TestClockCountsRenderedFrames(t *testing.T) {
	mixer := NewMixer(NewBroker())
	buf := make(mixdown.AudioBuffer, 3*mixdown.QuantumFrames+100)
	mixer.ReadAudio(buf)
	want := float64(len(buf)) / mixdown.SampleRate
	if got := mixer.Now(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Now() = %v after rendering %d frames, want %v", got, len(buf), want)
	}
}

func TestRegionResolutionNewestWins(t *testing.T) {
	kick := newChain("kick", constSrc(4, 0.5))
	snare := newChain("snare", constSrc(4, 0.25))
	chains := map[mixdown.TrackID]*chain{"kick": kick, "snare": snare}

	kick.regions = append(kick.regions, mixdown.Region{Kind: mixdown.RegionCut, Start: 1, End: 1.5})
	if got := kick.sampleAt(0.9, chains); got[0] != 0.5 {
		t.Errorf("before the cut: %v, want source audio", got)
	}
	if got := kick.sampleAt(1.2, chains); got[0] != 0 {
		t.Errorf("inside the cut: %v, want silence", got)
	}
	if got := kick.sampleAt(1.5, chains); got[0] != 0.5 {
		t.Errorf("at the cut's exclusive end: %v, want source audio", got)
	}

	// a later paste over part of the cut wins inside its range
	kick.regions = append(kick.regions, mixdown.Region{
		Kind:   mixdown.RegionPaste,
		Start:  1.2,
		End:    1.4,
		Source: &mixdown.ClipboardEntry{Kind: mixdown.RegionCopy, Track: "snare", Start: 0, End: 0.2},
	})
	if got := kick.sampleAt(1.3, chains); got[0] != 0.25 {
		t.Errorf("inside the newer paste: %v, want the snare source", got)
	}
	if got := kick.sampleAt(1.45, chains); got[0] != 0 {
		t.Errorf("outside the paste but inside the cut: %v, want silence", got)
	}
}

func TestPasteWithUnresolvableSource(t *testing.T) {
	c := newChain("kick", constSrc(4, 0.5))
	chains := map[mixdown.TrackID]*chain{"kick": c}
	c.regions = []mixdown.Region{
		{Kind: mixdown.RegionPaste, Start: 0, End: 1,
			Source: &mixdown.ClipboardEntry{Track: "gone", Start: 0, End: 1}},
		{Kind: mixdown.RegionPaste, Start: 2, End: 3},
	}
	if got := c.sampleAt(0.5, chains); got[0] != 0 {
		t.Errorf("paste from a removed track: %v, want silence", got)
	}
	if got := c.sampleAt(2.5, chains); got[0] != 0 {
		t.Errorf("paste without a source entry: %v, want silence", got)
	}
}

func TestReadingPastSourceEndIsSilence(t *testing.T) {
	broker := NewBroker()
	mixer := NewMixer(broker)
	graph := newGraph(broker)
	id := mixdown.NewTrackID()
	graph.Attach(id, constSrc(0.01, 0.5))
	graph.Start(id, 5) // well past the decoded audio

	buf := make(mixdown.AudioBuffer, mixdown.QuantumFrames)
	mixer.ReadAudio(buf)
	for i := range buf {
		if buf[i][0] != 0 || buf[i][1] != 0 {
			t.Fatalf("sample %d = %v, want silence past the source end", i, buf[i])
		}
	}
}

func TestStopAllAndTeardown(t *testing.T) {
	broker := NewBroker()
	mixer := NewMixer(broker)
	graph := newGraph(broker)
	id := mixdown.NewTrackID()
	graph.Attach(id, constSrc(2, 0.5))
	graph.Start(id, 0)

	buf := make(mixdown.AudioBuffer, mixdown.QuantumFrames)
	mixer.ReadAudio(buf)
	if buf[0][0] == 0 {
		t.Fatalf("started chain renders silence")
	}
	graph.StopAll()
	mixer.ReadAudio(buf)
	if buf[0][0] != 0 {
		t.Errorf("stopped chain still renders: %v", buf[0][0])
	}
	graph.Teardown()
	mixer.ReadAudio(buf)
	if len(mixer.chains) != 0 {
		t.Errorf("teardown left %d chains attached", len(mixer.chains))
	}
}
