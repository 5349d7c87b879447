package surface

import (
	"mystrix-remote/debug"
	"mystrix-remote/midi"
	"mystrix-remote/palette"
)

// Brightening for playing and triggered clips.
const (
	brightenStep = 30
	brightenCeil = 97
)

// Brighten lifts a palette velocity for an active clip: below 97 it adds
// 30, from 97 up it snaps to full.
func Brighten(v uint8) uint8 {
	if v >= brightenCeil {
		return midi.VelocityFull
	}
	return min(midi.VelocityFull, v+brightenStep)
}

// DesiredVelocity is the LED velocity for a sampled slot.
func DesiredVelocity(s Snapshot) uint8 {
	if !s.HasClip {
		return midi.VelocityOff
	}
	v := palette.Off
	if s.HasColor {
		v = palette.Quantize(s.Color)
	}
	if s.IsPlaying || s.IsTriggered {
		v = Brighten(v)
	}
	return v & 0x7F
}

// Differ brings the clip pads in line with the session, sending only the
// notes whose velocity changed since the last send.
type Differ struct {
	Sampler Sampler
	Out     midi.NoteSender
}

// Refresh runs one pass over the window, scenes outer and tracks inner, and
// returns the number of messages sent. Bound buttons are never written. A
// failed send ends the pass; the notes not yet visited are picked up by the
// next one.
func (d *Differ) Refresh(st *State) (int, error) {
	sent := 0
	for sc := 0; sc < st.View.Scenes; sc++ {
		for t := 0; t < st.View.Tracks; t++ {
			cell := Cell{Track: t, Scene: sc}
			note := cell.Note()
			if st.IsFixed(note) {
				continue
			}

			want := DesiredVelocity(d.Sampler.Sample(cell, st.View))
			if have, ok := st.LEDs[note]; ok && have == want {
				continue
			}
			if err := st.send(d.Out, note, want); err != nil {
				return sent, err
			}
			sent++
		}
	}
	if sent > 0 {
		debug.Log("led", "refresh sent=%d offset=%d,%d", sent, st.View.TrackOffset, st.View.SceneOffset)
	}
	return sent, nil
}
