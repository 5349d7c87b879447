package surface

import (
	"errors"
	"testing"

	"mystrix-remote/midi"
	"mystrix-remote/session"
)

func TestStart_PaintsButtonsAndRefreshes(t *testing.T) {
	m := session.NewMemory(8, 4)
	m.SetClip(0, 0, 0xFF3636)
	s, rec := newTestSurface(t, m, DefaultOptions())

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(rec.msgs) != 27+32 {
		t.Errorf("expected 27 button paints and 32 pads, got %d messages", len(rec.msgs))
	}
	for _, b := range DefaultBindings() {
		if got := s.State.LEDs[b.Note()]; got != b.Velocity {
			t.Errorf("%s: expected %d, got %d", b, b.Velocity, got)
		}
	}
	if got := s.State.LEDs[midi.NoteFor(0, 0)]; got != 5 {
		t.Errorf("expected clip pad at 5, got %d", got)
	}
	if len(m.Messages) != 1 || m.Messages[0] != DefaultOptions().LoadMessage {
		t.Errorf("expected load message, got %v", m.Messages)
	}

	rec.reset()
	if err := s.Start(); err != nil || len(rec.msgs) != 0 {
		t.Errorf("expected second Start to be a no-op, got %v %v", err, rec.msgs)
	}
}

func TestStart_PeriodicRefresh(t *testing.T) {
	m := session.NewMemory(8, 4)
	s, rec := newTestSurface(t, m, DefaultOptions())
	s.Start()
	rec.reset()

	m.SetClip(1, 0, 0xFF3636)
	for i := 0; i < 9; i++ {
		s.Tick()
	}
	if len(rec.msgs) != 0 {
		t.Fatalf("expected no refresh before tick 10, got %v", rec.msgs)
	}
	s.Tick()
	if got := rec.forNote(midi.NoteFor(0, 1)); len(got) != 1 || got[0] != 5 {
		t.Errorf("expected refresh on tick 10, got %v", got)
	}
}

func TestStart_WithoutDevice(t *testing.T) {
	m := session.NewMemory(8, 4)
	s, rec := newTestSurface(t, m, DefaultOptions())
	rec.fail = true

	err := s.Start()
	if err == nil {
		t.Fatalf("expected send error without a device")
	}
	if len(s.State.LEDs) != 0 {
		t.Errorf("expected nothing cached when every send fails, got %d", len(s.State.LEDs))
	}
}

func TestResync_RepaintsCache(t *testing.T) {
	m := session.NewMemory(8, 4)
	m.SetClip(0, 0, 0xFF3636)
	s, rec := newTestSurface(t, m, DefaultOptions())
	s.Start()

	s.Handle(press(stopNote0))
	rec.reset()

	n, err := s.Resync()
	if err != nil {
		t.Fatalf("Resync: %v", err)
	}
	if n != 27+32 {
		t.Errorf("expected every known LED resent, got %d", n)
	}
	got := rec.last()
	if got[stopNote0] != restingStop {
		t.Errorf("expected flashed button repainted at rest, got %d", got[stopNote0])
	}
	if got[midi.NoteFor(0, 0)] != 5 {
		t.Errorf("expected clip pad repainted, got %d", got[midi.NoteFor(0, 0)])
	}
}

func TestState_CellFor(t *testing.T) {
	st := NewState(8, 4)
	st.Fixed[midi.NoteFor(0, 0)] = 3

	if _, ok := st.CellFor(midi.NoteFor(0, 0)); ok {
		t.Errorf("expected bound pad to be no clip cell")
	}
	if c, ok := st.CellFor(midi.NoteFor(3, 6)); !ok || c != (Cell{Track: 6, Scene: 3}) {
		t.Errorf("expected cell 6/3, got %+v %v", c, ok)
	}
	if _, ok := st.CellFor(midi.NoteFor(4, 0)); ok {
		t.Errorf("expected row 4 outside a 4-scene window")
	}
	if _, ok := st.CellFor(10); ok {
		t.Errorf("expected off-grid note to be no cell")
	}
}

func TestNew_RejectsMissingCollaborators(t *testing.T) {
	if _, err := New(nil, &recorder{}, DefaultOptions(), nil); err == nil {
		t.Errorf("expected error without a session")
	}
	opts := DefaultOptions()
	opts.Tracks = 0
	if _, err := New(session.NewMemory(1, 1), &recorder{}, opts, nil); err == nil {
		t.Errorf("expected invalid options to be rejected")
	}
}

func TestOutput_NoDevice(t *testing.T) {
	var o output
	if err := o.SendNote(1, 1); !errors.Is(err, midi.ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
}
