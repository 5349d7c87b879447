package surface

import "mystrix-remote/session"

// Sampler reads clip slot state for one window cell at a time. It keeps no
// cache; every call walks the session.
type Sampler struct {
	Song session.Song
}

// Sample reads the slot under cell as seen through vp. Cells past the end of
// the session, and slots that cannot be read, come back empty.
func (s Sampler) Sample(cell Cell, vp Viewport) Snapshot {
	slot := s.slot(cell.Track+vp.TrackOffset, cell.Scene+vp.SceneOffset)
	if slot == nil {
		return Snapshot{}
	}

	snap := Snapshot{
		HasClip:     read(slot.HasClip, false),
		IsPlaying:   read(slot.IsPlaying, false),
		IsTriggered: read(slot.IsTriggered, false),
	}
	if snap.HasClip {
		snap.Color, snap.HasColor = readOK(slot.ClipColor)
	}
	return snap
}

func (s Sampler) track(t int) session.Track {
	if s.Song == nil || t < 0 || t >= count(s.Song.TrackCount) {
		return nil
	}
	tr, ok := readOK(func() (session.Track, error) { return s.Song.Track(t) })
	if !ok {
		return nil
	}
	return tr
}

func (s Sampler) slot(t, sc int) session.ClipSlot {
	if s.Song == nil || sc < 0 || sc >= count(s.Song.SceneCount) {
		return nil
	}
	tr := s.track(t)
	if tr == nil || sc >= count(tr.ClipSlotCount) {
		return nil
	}
	slot, ok := readOK(func() (session.ClipSlot, error) { return tr.ClipSlot(sc) })
	if !ok {
		return nil
	}
	return slot
}
