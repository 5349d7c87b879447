// Package surface is the control-surface engine: it samples the session grid
// through a viewport, mirrors it onto the pad LEDs with minimal traffic, and
// turns button presses into session commands.
//
// Everything in this package runs on one goroutine (see Manager); none of
// the types here are safe for concurrent use.
package surface

import (
	"sort"

	"mystrix-remote/midi"
)

// Viewport is the window of the session grid mapped onto the pads.
type Viewport struct {
	TrackOffset int
	SceneOffset int

	// Window size in tracks (pad columns) and scenes (pad rows).
	Tracks int
	Scenes int
}

// Cell addresses a pad inside the window: Track is the column, Scene the row.
type Cell struct {
	Track int
	Scene int
}

// Note is the pad note for the cell.
func (c Cell) Note() uint8 {
	return midi.NoteFor(c.Scene, c.Track)
}

// Snapshot is what one refresh reads from a clip slot.
type Snapshot struct {
	HasClip     bool
	IsPlaying   bool
	IsTriggered bool
	Color       int
	HasColor    bool
}

// State is the controller state shared by sampler, differ and dispatcher.
type State struct {
	View Viewport

	// LEDs holds the last velocity sent for each note. Entries are only
	// ever overwritten, never removed.
	LEDs map[uint8]uint8

	// Fixed holds the resting velocity of every bound button. The refresh
	// pass never writes these notes.
	Fixed map[uint8]uint8

	version uint64
}

// NewState returns an empty state for a tracks x scenes window.
func NewState(tracks, scenes int) *State {
	return &State{
		View:  Viewport{Tracks: tracks, Scenes: scenes},
		LEDs:  make(map[uint8]uint8),
		Fixed: make(map[uint8]uint8),
	}
}

// Version increases with every LED write.
func (s *State) Version() uint64 {
	return s.version
}

// IsFixed reports whether note belongs to a bound button.
func (s *State) IsFixed(note uint8) bool {
	_, ok := s.Fixed[note]
	return ok
}

// CellFor returns the clip cell for a pad note, if the note lies inside the
// window and is not a bound button.
func (s *State) CellFor(note uint8) (Cell, bool) {
	if s.IsFixed(note) {
		return Cell{}, false
	}
	row, col, ok := midi.RowColFor(note)
	if !ok || row >= s.View.Scenes || col >= s.View.Tracks {
		return Cell{}, false
	}
	return Cell{Track: col, Scene: row}, true
}

// send writes one LED and records it in the cache once the write succeeded.
func (s *State) send(out midi.NoteSender, note, velocity uint8) error {
	if err := out.SendNote(note, velocity); err != nil {
		return err
	}
	s.LEDs[note] = velocity
	s.version++
	return nil
}

// notes returns the cached notes in ascending order.
func (s *State) notes() []uint8 {
	out := make([]uint8, 0, len(s.LEDs)+len(s.Fixed))
	seen := make(map[uint8]bool, len(s.LEDs)+len(s.Fixed))
	for n := range s.LEDs {
		out = append(out, n)
		seen[n] = true
	}
	for n := range s.Fixed {
		if !seen[n] {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
