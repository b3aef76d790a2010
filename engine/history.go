package engine

import "mixdown"

const maxUndo = 256

// HistorySnapshot is a deep copy of the full track list taken before a
// mutating edit. Live playback handles are not part of a snapshot; they
// belong to the graph, not the tracks.
type HistorySnapshot struct {
	Tracks      []mixdown.Track
	Description string
}

// History holds the undo and redo stacks. Pushing a new snapshot after an
// undo invalidates the redo stack.
type History struct {
	undoStack []HistorySnapshot
	redoStack []HistorySnapshot
}

func (h *History) Push(tracks []mixdown.Track, description string) {
	if len(h.undoStack) >= maxUndo {
		h.undoStack = h.undoStack[1:]
	}
	h.undoStack = append(h.undoStack, HistorySnapshot{
		Tracks:      mixdown.CopyTracks(tracks),
		Description: description,
	})
	h.redoStack = h.redoStack[:0]
}

// Undo pops the newest snapshot, pushing the caller's current state onto
// the redo stack. ok is false when there is nothing to undo.
func (h *History) Undo(current []mixdown.Track) (snapshot HistorySnapshot, ok bool) {
	if len(h.undoStack) == 0 {
		return HistorySnapshot{}, false
	}
	snapshot = h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	if len(h.redoStack) >= maxUndo {
		h.redoStack = h.redoStack[1:]
	}
	h.redoStack = append(h.redoStack, HistorySnapshot{
		Tracks:      mixdown.CopyTracks(current),
		Description: snapshot.Description,
	})
	return snapshot, true
}

// Redo moves one snapshot back from the redo stack. ok is false when there
// is nothing to redo.
func (h *History) Redo(current []mixdown.Track) (snapshot HistorySnapshot, ok bool) {
	if len(h.redoStack) == 0 {
		return HistorySnapshot{}, false
	}
	snapshot = h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	if len(h.undoStack) >= maxUndo {
		h.undoStack = h.undoStack[1:]
	}
	h.undoStack = append(h.undoStack, HistorySnapshot{
		Tracks:      mixdown.CopyTracks(current),
		Description: snapshot.Description,
	})
	return snapshot, true
}

// CanUndo and CanRedo report whether the respective stacks are non-empty.
func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

func (m *Model) saveUndo(description string) {
	m.history.Push(m.tracks, description)
}

// Undo restores the track list from before the latest mutating edit and
// reports its description. ok is false (and nothing changes) when the undo
// stack is empty.
func (m *Model) Undo() (description string, ok bool) {
	snapshot, ok := m.history.Undo(m.tracks)
	if !ok {
		return "", false
	}
	m.installSnapshot(snapshot)
	return snapshot.Description, true
}

// Redo re-applies the latest undone edit.
func (m *Model) Redo() (description string, ok bool) {
	snapshot, ok := m.history.Redo(m.tracks)
	if !ok {
		return "", false
	}
	m.installSnapshot(snapshot)
	return snapshot.Description, true
}

// CanUndo reports whether there is an edit to undo.
func (m *Model) CanUndo() bool { return m.history.CanUndo() }

// CanRedo reports whether there is an undone edit to redo.
func (m *Model) CanRedo() bool { return m.history.CanRedo() }

// installSnapshot replaces the track list and resyncs the render side:
// region lists in their stored order, scalar parameters, and audibility.
func (m *Model) installSnapshot(snapshot HistorySnapshot) {
	m.tracks = snapshot.Tracks
	for i := range m.tracks {
		t := &m.tracks[i]
		m.graph.SetVolume(t.ID, t.Volume)
		m.graph.SetPan(t.ID, t.Pan)
		m.graph.SetRegions(t.ID, t.Regions)
	}
	if m.selection != nil && m.trackIndex(m.selection.Track) < 0 {
		m.selection = nil
	}
	m.applyAudibility()
}
