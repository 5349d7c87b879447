package session

import (
	"errors"
	"testing"
)

func TestMemory_Grid(t *testing.T) {
	m := NewMemory(3, 2)
	if m.TrackCount() != 3 || m.SceneCount() != 2 {
		t.Fatalf("expected 3x2, got %dx%d", m.TrackCount(), m.SceneCount())
	}

	if _, err := m.Track(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}

	m.SetClip(1, 1, 0xFF0000)
	tr, err := m.Track(1)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	slot, err := tr.ClipSlot(1)
	if err != nil {
		t.Fatalf("ClipSlot: %v", err)
	}
	if has, _ := slot.HasClip(); !has {
		t.Errorf("expected clip")
	}
	if c, err := slot.ClipColor(); err != nil || c != 0xFF0000 {
		t.Errorf("expected color ff0000, got %06x (%v)", c, err)
	}

	m.ClearClip(1, 1)
	if _, err := slot.ClipColor(); !errors.Is(err, ErrNoColor) {
		t.Errorf("expected ErrNoColor after clear, got %v", err)
	}
}

func TestMemory_Commands(t *testing.T) {
	m := NewMemory(2, 2)
	s := m.SetClip(0, 0, 0x00FF00)

	if err := s.Fire(); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if !s.Triggered || s.Fired != 1 {
		t.Errorf("expected fired+triggered, got %+v", s)
	}

	if err := m.Tracks[0].StopAllClips(); err != nil {
		t.Fatalf("StopAllClips: %v", err)
	}
	if s.Triggered || m.Tracks[0].Stopped != 1 {
		t.Errorf("expected stop to clear trigger, got %+v", s)
	}

	tp, _ := m.Transport()
	tp.Start()
	if !m.Playing {
		t.Errorf("expected playing after Start")
	}

	m.CanHighlight = false
	if err := m.Highlight(Region{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
