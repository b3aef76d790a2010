package mixdown

// RegionKind enumerates the edit operations that can be layered over a
// track's source audio.
type RegionKind int

const (
	RegionCut RegionKind = iota
	RegionCopy
	RegionPaste
	RegionDelete
)

func (k RegionKind) String() string {
	switch k {
	case RegionCut:
		return "cut"
	case RegionCopy:
		return "copy"
	case RegionPaste:
		return "paste"
	case RegionDelete:
		return "delete"
	}
	return "unknown"
}

// Region is a non-destructive, time-ranged edit annotation. Regions are
// appended in edit order and applied in that order at render time, so for
// overlapping ranges the most recent region wins. Start and End are seconds
// with 0 <= Start < End.
type Region struct {
	Kind   RegionKind
	Start  float64
	End    float64
	Source *ClipboardEntry // paste only: the originating clipboard entry
}

func (r *Region) Copy() Region {
	ret := *r
	if r.Source != nil {
		src := *r.Source
		ret.Source = &src
	}
	return ret
}

// ClipboardEntry is the single system-wide clipboard slot, filled by cut
// and copy.
type ClipboardEntry struct {
	Kind  RegionKind // RegionCut or RegionCopy
	Track TrackID
	Start float64
	End   float64
}

func (c *ClipboardEntry) Duration() float64 {
	return c.End - c.Start
}

// Selection is the transient time-range selection. At most one exists at a
// time; creating a new one replaces the previous and deleting the selected
// track clears it.
type Selection struct {
	Track TrackID
	Start float64
	End   float64
}

// Empty reports whether the selection covers no time at all.
func (s *Selection) Empty() bool {
	return s.End <= s.Start
}

// LoopRegion is the transport's loop range in seconds.
type LoopRegion struct {
	Start float64
	End   float64
}

// TransportState is the playback clock state as seen by a UI: it is a
// snapshot, recomputed every tick while playing.
type TransportState struct {
	Playing     bool
	CurrentTime float64
	PausedAt    float64
	Loop        *LoopRegion
	Tempo       float64 // beats per minute, display/grid conversion only
}
