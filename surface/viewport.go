package surface

// clampOffset keeps an offset inside [0, max(0, total-window)].
func clampOffset(offset, total, window int) int {
	hi := max(0, total-window)
	return min(max(offset, 0), hi)
}

// Moved returns the viewport shifted by (dTracks, dScenes) and clamped
// against a session of totalTracks x totalScenes.
func (v Viewport) Moved(dTracks, dScenes, totalTracks, totalScenes int) Viewport {
	v.TrackOffset = clampOffset(v.TrackOffset+dTracks, totalTracks, v.Tracks)
	v.SceneOffset = clampOffset(v.SceneOffset+dScenes, totalScenes, v.Scenes)
	return v
}
