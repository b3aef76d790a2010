package engine

import (
	"errors"

	"mixdown"

	"mixdown/decode"
)

// ErrLoadCanceled is reported by a LoadTask whose track was removed (or the
// engine torn down) before its decode finished. The decode result is
// discarded; the registry is left unchanged.
var ErrLoadCanceled = errors.New("track load canceled")

// LoadTask is the asynchronous result of LoadTrack. The decode runs in its
// own goroutine; the finished track is installed into the registry by
// Model.Update on the control thread, after which Done is closed and
// Result is valid. Concurrent loads never block each other or playback.
type LoadTask struct {
	ID    mixdown.TrackID
	Name  string
	Class mixdown.StemClass

	done  chan struct{}
	track mixdown.Track
	err   error
}

// Done is closed once the load has been installed, failed or been
// canceled.
func (t *LoadTask) Done() <-chan struct{} {
	return t.done
}

// Result returns the loaded track (a copy) or the load error. Only valid
// after Done is closed.
func (t *LoadTask) Result() (mixdown.Track, error) {
	return t.track, t.err
}

type loadedMsg struct {
	task   *LoadTask
	frames mixdown.AudioBuffer
	err    error
}

// LoadTrack starts decoding a new track from src. The returned task
// resolves once Model.Update has processed the completion. Decode failures
// surface as *mixdown.DecodeError; handing in an unrecognized source type
// surfaces as mixdown.ErrInvalidSource.
func (m *Model) LoadTrack(name string, class mixdown.StemClass, src decode.Source) *LoadTask {
	task := &LoadTask{
		ID:    mixdown.NewTrackID(),
		Name:  name,
		Class: class,
		done:  make(chan struct{}),
	}
	m.pending[task.ID] = task
	go func() {
		frames, err := decode.Decode(src)
		// not TrySend: decode goroutines are not real-time and the
		// completion must not be lost
		m.broker.ToModel <- MsgToModel{Data: loadedMsg{task: task, frames: frames, err: err}}
	}()
	return task
}

// PendingLoads returns how many decodes are still in flight.
func (m *Model) PendingLoads() int {
	return len(m.pending)
}

func (m *Model) finishLoad(msg loadedMsg) {
	task := msg.task
	if _, wanted := m.pending[task.ID]; !wanted {
		// track was removed while decoding; discard the result
		task.err = ErrLoadCanceled
		close(task.done)
		return
	}
	delete(m.pending, task.ID)
	if msg.err != nil {
		task.err = msg.err
		close(task.done)
		return
	}
	track := mixdown.Track{
		ID:       task.ID,
		Name:     task.Name,
		Class:    task.Class,
		Volume:   task.Class.DefaultVolume(),
		Duration: float64(len(msg.frames)) / mixdown.SampleRate,
	}
	m.tracks = append(m.tracks, track)
	m.graph.Attach(track.ID, msg.frames)
	m.graph.SetVolume(track.ID, track.Volume)
	m.graph.SetPan(track.ID, track.Pan)
	// a track appearing can change every track's audibility (it never
	// does today, but the resolver is the single place that knows)
	m.applyAudibility()
	task.track = track.Copy()
	close(task.done)
}

// RemoveTrack stops any playback of the track, releases its chain and
// removes it from the registry. A selection or clipboard entry referencing
// the track is cleared. Removing a track whose decode is still in flight
// cancels the load.
func (m *Model) RemoveTrack(id mixdown.TrackID) error {
	if _, ok := m.pending[id]; ok {
		delete(m.pending, id)
		return nil
	}
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	m.graph.Stop(id)
	m.graph.Detach(id)
	m.tracks = append(m.tracks[:idx], m.tracks[idx+1:]...)
	if m.selection != nil && m.selection.Track == id {
		m.selection = nil
	}
	if m.clipboard != nil && m.clipboard.Track == id {
		m.clipboard = nil
	}
	delete(m.levels, id)
	m.applyAudibility()
	return nil
}

func (m *Model) trackIndex(id mixdown.TrackID) int {
	for i := range m.tracks {
		if m.tracks[i].ID == id {
			return i
		}
	}
	return -1
}
