package surface

import (
	"testing"

	"mystrix-remote/session"
)

func TestSampler_RebasesThroughViewport(t *testing.T) {
	m := session.NewMemory(10, 6)
	slot := m.SetClip(9, 5, 0x10A4EE)
	slot.Triggered = true

	s := Sampler{Song: m}
	vp := Viewport{TrackOffset: 2, SceneOffset: 2, Tracks: 8, Scenes: 4}

	got := s.Sample(Cell{Track: 7, Scene: 3}, vp)
	want := Snapshot{HasClip: true, IsTriggered: true, Color: 0x10A4EE, HasColor: true}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSampler_OutsideSessionIsEmpty(t *testing.T) {
	m := session.NewMemory(3, 2)
	m.SetClip(2, 1, 0xFF3636)
	s := Sampler{Song: m}

	cells := []struct {
		cell Cell
		vp   Viewport
	}{
		{Cell{Track: 3}, Viewport{Tracks: 8, Scenes: 4}},
		{Cell{Scene: 2}, Viewport{Tracks: 8, Scenes: 4}},
		{Cell{Track: 1, Scene: 1}, Viewport{TrackOffset: 2, Tracks: 8, Scenes: 4}},
		{Cell{Track: -1}, Viewport{Tracks: 8, Scenes: 4}},
	}
	for _, c := range cells {
		if got := s.Sample(c.cell, c.vp); got != (Snapshot{}) {
			t.Errorf("%+v via %+v: expected empty snapshot, got %+v", c.cell, c.vp, got)
		}
	}
}

func TestSampler_ShortTrackIsEmpty(t *testing.T) {
	m := session.NewMemory(2, 4)
	m.Tracks[1].Slots = m.Tracks[1].Slots[:1]

	got := Sampler{Song: m}.Sample(Cell{Track: 1, Scene: 2}, Viewport{Tracks: 8, Scenes: 4})
	if got != (Snapshot{}) {
		t.Errorf("expected empty snapshot, got %+v", got)
	}
}

func TestSampler_ClipWithoutColor(t *testing.T) {
	m := session.NewMemory(1, 1)
	m.SetClip(0, 0, 0).HasColor = false

	got := Sampler{Song: m}.Sample(Cell{}, Viewport{Tracks: 8, Scenes: 4})
	if !got.HasClip || got.HasColor {
		t.Errorf("expected clip without color, got %+v", got)
	}
}
