package surface

import (
	"fmt"

	"mystrix-remote/debug"
	"mystrix-remote/midi"
	"mystrix-remote/session"
)

// Dispatcher turns button presses into session commands.
type Dispatcher struct {
	Song  session.Song
	Out   midi.NoteSender
	Clock *Clock

	// Bindings maps a pad note to its button.
	Bindings map[uint8]Binding

	FlashVelocity uint8
	RestoreTicks  int

	// Move pans the viewport.
	Move func(dTracks, dScenes int) error
}

// Handle processes one button event. Releases are ignored. A bound button
// flashes, runs its command, and schedules a restore of its resting color.
// A clip pad fires the slot under it.
func (d *Dispatcher) Handle(st *State, ev midi.ButtonEvent) {
	if !ev.Pressed() {
		return
	}
	if b, ok := d.Bindings[ev.Note]; ok {
		d.press(st, b)
		return
	}
	if cell, ok := st.CellFor(ev.Note); ok {
		discard(FireClip, call(func() error { return d.fireClip(st, cell.Track, cell.Scene) }))
	}
}

func (d *Dispatcher) press(st *State, b Binding) {
	note := b.Note()
	if err := st.send(d.Out, note, d.FlashVelocity); err != nil {
		debug.Log("button", "flash %s: %v", b, err)
	}

	discard(b.Command, d.Run(st, b))

	resting := b.Velocity
	if v, ok := st.Fixed[note]; ok {
		resting = v
	}
	d.Clock.After(d.RestoreTicks, func() {
		if err := st.send(d.Out, note, resting); err != nil {
			debug.Log("button", "restore %s: %v", b, err)
		}
	})
}

// discard drops a command result. Failures only reach the trace log.
func discard(cmd Command, err error) {
	if err != nil {
		debug.Log("cmd", "%s failed: %v", cmd, err)
	}
}

// Run executes the binding's command. Targets outside the session are a
// no-op and return nil.
func (d *Dispatcher) Run(st *State, b Binding) error {
	return call(func() error {
		switch b.Command {
		case FireClip:
			return d.fireClip(st, b.Track, b.Scene)
		case StopTrack:
			return d.stopTrack(st, b.Track)
		case ToggleMute:
			return d.toggleMute(st, b.Track)
		case PanLeft:
			return d.move(-1, 0)
		case PanRight:
			return d.move(1, 0)
		case PanUp:
			return d.move(0, -1)
		case PanDown:
			return d.move(0, 1)
		case SelectPrevTrack:
			return d.selectTrack(-1)
		case SelectNextTrack:
			return d.selectTrack(1)
		case SelectPrevScene:
			return d.selectScene(-1)
		case SelectNextScene:
			return d.selectScene(1)
		case TransportStart, TransportStop:
			return d.transport(b.Command == TransportStart)
		case FireSelectedScene:
			return d.fireSelectedScene()
		}
		return fmt.Errorf("unknown command %q", b.Command)
	})
}

// trackIndex rebases a window column onto the session.
func (d *Dispatcher) trackIndex(st *State, rel int) (int, bool) {
	abs := st.View.TrackOffset + rel
	if rel < 0 || rel >= st.View.Tracks || abs >= count(d.Song.TrackCount) {
		return 0, false
	}
	return abs, true
}

func (d *Dispatcher) fireClip(st *State, rel, relScene int) error {
	t, ok := d.trackIndex(st, rel)
	sc := st.View.SceneOffset + relScene
	if !ok || relScene < 0 || relScene >= st.View.Scenes || sc >= count(d.Song.SceneCount) {
		return nil
	}
	tr, err := d.Song.Track(t)
	if err != nil {
		return fmt.Errorf("track %d: %w", t, err)
	}
	if sc >= count(tr.ClipSlotCount) {
		return nil
	}
	slot, err := tr.ClipSlot(sc)
	if err != nil {
		return fmt.Errorf("slot %d/%d: %w", t, sc, err)
	}
	return slot.Fire()
}

func (d *Dispatcher) stopTrack(st *State, rel int) error {
	t, ok := d.trackIndex(st, rel)
	if !ok {
		return nil
	}
	tr, err := d.Song.Track(t)
	if err != nil {
		return fmt.Errorf("track %d: %w", t, err)
	}
	return tr.StopAllClips()
}

func (d *Dispatcher) toggleMute(st *State, rel int) error {
	t, ok := d.trackIndex(st, rel)
	if !ok {
		return nil
	}
	tr, err := d.Song.Track(t)
	if err != nil {
		return fmt.Errorf("track %d: %w", t, err)
	}
	muted, err := tr.Muted()
	if err != nil {
		return fmt.Errorf("read mute %d: %w", t, err)
	}
	return tr.SetMute(!muted)
}

func (d *Dispatcher) move(dTracks, dScenes int) error {
	if d.Move == nil {
		return nil
	}
	return d.Move(dTracks, dScenes)
}

func (d *Dispatcher) selectTrack(delta int) error {
	cur, err := d.Song.SelectedTrack()
	if err != nil {
		return fmt.Errorf("selected track: %w", err)
	}
	next := cur + delta
	if next < 0 || next >= count(d.Song.TrackCount) {
		return nil
	}
	return d.Song.SelectTrack(next)
}

func (d *Dispatcher) selectScene(delta int) error {
	cur, err := d.Song.SelectedScene()
	if err != nil {
		return fmt.Errorf("selected scene: %w", err)
	}
	next := cur + delta
	if next < 0 || next >= count(d.Song.SceneCount) {
		return nil
	}
	return d.Song.SelectScene(next)
}

func (d *Dispatcher) transport(start bool) error {
	tp, err := d.Song.Transport()
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if start {
		return tp.Start()
	}
	return tp.Stop()
}

func (d *Dispatcher) fireSelectedScene() error {
	idx, err := d.Song.SelectedScene()
	if err != nil {
		return fmt.Errorf("selected scene: %w", err)
	}
	if idx < 0 || idx >= count(d.Song.SceneCount) {
		return nil
	}
	sc, err := d.Song.Scene(idx)
	if err != nil {
		return fmt.Errorf("scene %d: %w", idx, err)
	}
	return sc.Fire()
}
