package surface

import (
	"errors"
	"testing"

	"mystrix-remote/midi"
	"mystrix-remote/palette"
	"mystrix-remote/session"
)

func TestBrighten(t *testing.T) {
	tests := []struct {
		in, want uint8
	}{
		{0, 30},
		{5, 35},
		{66, 96},
		{96, 126},
		{97, 127},
		{99, 127},
		{127, 127},
	}
	for _, tt := range tests {
		if got := Brighten(tt.in); got != tt.want {
			t.Errorf("Brighten(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestDesiredVelocity(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want uint8
	}{
		{"empty", Snapshot{}, 0},
		{"flags without clip", Snapshot{IsPlaying: true, Color: 0xFF3636, HasColor: true}, 0},
		{"clip without color", Snapshot{HasClip: true}, 0},
		{"clip", Snapshot{HasClip: true, Color: 0xFF3636, HasColor: true}, 5},
		{"playing", Snapshot{HasClip: true, IsPlaying: true, Color: 0xFF3636, HasColor: true}, 35},
		{"triggered", Snapshot{HasClip: true, IsTriggered: true, Color: 0xF66C03, HasColor: true}, 114},
		{"bright playing snaps", Snapshot{HasClip: true, IsPlaying: true, Color: 0xDBC300, HasColor: true}, 127},
		{"playing without color", Snapshot{HasClip: true, IsPlaying: true}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DesiredVelocity(tt.snap); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDiffer_FirstPassThenIdle(t *testing.T) {
	m := session.NewMemory(8, 4)
	s, rec := newTestSurface(t, m, DefaultOptions())

	n, err := s.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n != 32 || len(rec.msgs) != 32 {
		t.Fatalf("expected 32 messages on an empty cache, got n=%d msgs=%d", n, len(rec.msgs))
	}

	rec.reset()
	n, err = s.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n != 0 || len(rec.msgs) != 0 {
		t.Errorf("expected an unchanged session to send nothing, got %v", rec.msgs)
	}
}

func TestDiffer_Convergence(t *testing.T) {
	m := session.NewMemory(8, 4)
	s, rec := newTestSurface(t, m, DefaultOptions())
	s.Refresh()
	rec.reset()

	note := midi.NoteFor(1, 2)
	m.SetClip(2, 1, 0xFF3636)
	s.Refresh()
	want := []sent{{note, palette.Quantize(0xFF3636)}}
	if len(rec.msgs) != 1 || rec.msgs[0] != want[0] {
		t.Fatalf("expected %v, got %v", want, rec.msgs)
	}

	rec.reset()
	m.Slot(2, 1).Playing = true
	s.Refresh()
	if len(rec.msgs) != 1 || rec.msgs[0] != (sent{note, 35}) {
		t.Fatalf("expected brightened velocity 35, got %v", rec.msgs)
	}

	rec.reset()
	m.ClearClip(2, 1)
	s.Refresh()
	if len(rec.msgs) != 1 || rec.msgs[0] != (sent{note, 0}) {
		t.Fatalf("expected note off, got %v", rec.msgs)
	}
	if s.State.LEDs[note] != 0 {
		t.Errorf("expected cache to hold 0, got %d", s.State.LEDs[note])
	}
}

func TestDiffer_PlayingClipAppearsBright(t *testing.T) {
	m := session.NewMemory(8, 4)
	s, rec := newTestSurface(t, m, DefaultOptions())
	s.Refresh()
	rec.reset()

	m.SetClip(0, 0, 0xDBC300).Playing = true
	s.Refresh()
	if got := rec.forNote(midi.NoteFor(0, 0)); len(got) != 1 || got[0] != 127 {
		t.Errorf("expected one message at 127, got %v", got)
	}
}

func TestDiffer_NeverWritesFixedLEDs(t *testing.T) {
	m := session.NewMemory(8, 4)
	opts := DefaultOptions()
	opts.Bindings = append(opts.Bindings, Binding{Row: 0, Col: 0, Command: TransportStart, Velocity: 21})
	s, rec := newTestSurface(t, m, opts)

	fixed := midi.NoteFor(0, 0)
	m.SetClip(0, 0, 0xFF3636).Playing = true

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 35; i++ {
		if i%7 == 0 {
			m.Slot(0, 0).Playing = !m.Slot(0, 0).Playing
		}
		s.Tick()
	}
	s.Refresh()

	got := rec.forNote(fixed)
	if len(got) != 1 || got[0] != 21 {
		t.Errorf("expected only the startup paint for the fixed pad, got %v", got)
	}
}

func TestDiffer_SendFailureEndsPass(t *testing.T) {
	m := session.NewMemory(8, 4)
	s, rec := newTestSurface(t, m, DefaultOptions())
	rec.limit = 3

	n, err := s.Refresh()
	if !errors.Is(err, errSend) {
		t.Fatalf("expected send error, got %v", err)
	}
	if n != 3 || len(s.State.LEDs) != 3 {
		t.Fatalf("expected 3 notes sent and cached, got n=%d cached=%d", n, len(s.State.LEDs))
	}

	rec.limit = 0
	n, err = s.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n != 29 {
		t.Errorf("expected the next pass to finish the remaining 29 notes, got %d", n)
	}
}

func TestDiffer_UnreadableSlotsAreEmpty(t *testing.T) {
	m := session.NewMemory(8, 4)
	m.SetClip(1, 0, 0xFF3636).Err = errors.New("stale")
	m.SetClip(2, 0, 0xFF3636)
	song := brokenSong{Memory: m, bad: 3}

	s, rec := newTestSurface(t, song, DefaultOptions())
	if _, err := s.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := rec.last()
	if v := got[midi.NoteFor(0, 1)]; v != 0 {
		t.Errorf("expected erroring slot to read empty, got %d", v)
	}
	if v := got[midi.NoteFor(0, 2)]; v != 5 {
		t.Errorf("expected healthy slot at 5, got %d", v)
	}
	if v := got[midi.NoteFor(0, 3)]; v != 0 {
		t.Errorf("expected panicking slot to read empty, got %d", v)
	}
}
