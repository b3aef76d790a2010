package engine

import (
	"fmt"

	"mixdown"
)

// Region editing. Edits are append-only annotations over the original
// source audio; the decoded buffers are never touched. Every mutating edit
// (cut, delete, paste) snapshots the track list first, so a single undo
// restores the exact prior state. Copy only fills the clipboard and is not
// snapshotted.

// Select replaces the active selection. There is at most one selection in
// the whole engine; selecting on one track implicitly clears a selection
// on another.
func (m *Model) Select(id mixdown.TrackID, start, end float64) error {
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	extent := m.tracks[idx].Extent()
	start = mixdown.Clamp(start, 0, extent)
	end = mixdown.Clamp(end, 0, extent)
	m.selection = &mixdown.Selection{Track: id, Start: start, End: end}
	return nil
}

// ClearSelection drops the active selection, if any.
func (m *Model) ClearSelection() {
	m.selection = nil
}

// Selection returns a copy of the active selection, or nil.
func (m *Model) Selection() *mixdown.Selection {
	if m.selection == nil {
		return nil
	}
	sel := *m.selection
	return &sel
}

// Clipboard returns a copy of the clipboard entry, or nil.
func (m *Model) Clipboard() *mixdown.ClipboardEntry {
	if m.clipboard == nil {
		return nil
	}
	entry := *m.clipboard
	return &entry
}

// Cut appends a cut region over the selected range and moves the range to
// the clipboard. Audio inside a cut region is not produced during
// playback.
func (m *Model) Cut() error {
	sel, idx, err := m.activeSelection()
	if err != nil {
		return err
	}
	m.saveUndo(fmt.Sprintf("cut %s", m.tracks[idx].Name))
	m.appendRegion(idx, mixdown.Region{Kind: mixdown.RegionCut, Start: sel.Start, End: sel.End})
	m.clipboard = &mixdown.ClipboardEntry{Kind: mixdown.RegionCut, Track: sel.Track, Start: sel.Start, End: sel.End}
	m.selection = nil
	return nil
}

// Copy fills the clipboard from the selected range without altering the
// track.
func (m *Model) Copy() error {
	sel, _, err := m.activeSelection()
	if err != nil {
		return err
	}
	m.clipboard = &mixdown.ClipboardEntry{Kind: mixdown.RegionCopy, Track: sel.Track, Start: sel.Start, End: sel.End}
	m.selection = nil
	return nil
}

// Delete appends a delete region over the selected range. Like cut, but
// the clipboard is left alone.
func (m *Model) Delete() error {
	sel, idx, err := m.activeSelection()
	if err != nil {
		return err
	}
	m.saveUndo(fmt.Sprintf("delete from %s", m.tracks[idx].Name))
	m.appendRegion(idx, mixdown.Region{Kind: mixdown.RegionDelete, Start: sel.Start, End: sel.End})
	m.selection = nil
	return nil
}

// Paste appends a paste region on the target track at the given time,
// sourcing audio from the clipboard range. Pasting with an empty clipboard
// is a reported no-op.
func (m *Model) Paste(id mixdown.TrackID, atTime float64) error {
	if m.clipboard == nil {
		return mixdown.ErrInvalidClipboard
	}
	idx := m.trackIndex(id)
	if idx < 0 {
		return mixdown.ErrNoSuchTrack
	}
	if atTime < 0 {
		atTime = 0
	}
	m.saveUndo(fmt.Sprintf("paste into %s", m.tracks[idx].Name))
	source := *m.clipboard
	m.appendRegion(idx, mixdown.Region{
		Kind:   mixdown.RegionPaste,
		Start:  atTime,
		End:    atTime + source.Duration(),
		Source: &source,
	})
	return nil
}

func (m *Model) activeSelection() (mixdown.Selection, int, error) {
	if m.selection == nil || m.selection.Empty() {
		return mixdown.Selection{}, 0, mixdown.ErrInvalidSelection
	}
	idx := m.trackIndex(m.selection.Track)
	if idx < 0 {
		return mixdown.Selection{}, 0, mixdown.ErrNoSuchTrack
	}
	return *m.selection, idx, nil
}

// appendRegion stores the region in insertion order (the order regions are
// applied at render time) and syncs the render side.
func (m *Model) appendRegion(idx int, region mixdown.Region) {
	m.tracks[idx].Regions = append(m.tracks[idx].Regions, region)
	m.graph.SetRegions(m.tracks[idx].ID, m.tracks[idx].Regions)
}
