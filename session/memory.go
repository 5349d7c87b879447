package session

import "fmt"

// Memory is an in-process session. The driver runs against it in offline
// mode, and tests use it as a fixture; fields are exported so either can
// arrange state directly. It is not safe for concurrent use.
type Memory struct {
	Tracks  []*MemoryTrack
	Scenes  []*MemoryScene
	Playing bool

	SelectedTrackIndex int
	SelectedSceneIndex int

	// CanHighlight and CanMessage toggle the optional host APIs.
	CanHighlight bool
	CanMessage   bool

	Highlights []Region
	Messages   []string
}

type MemoryTrack struct {
	Slots   []*MemorySlot
	Mute    bool
	Stopped int // StopAllClips calls

	// Err, when set, fails every command on this track.
	Err error
}

type MemorySlot struct {
	Clip      bool
	Playing   bool
	Triggered bool
	Color     int
	HasColor  bool
	Fired     int

	// Err, when set, fails every read and command on this slot.
	Err error
}

type MemoryScene struct {
	Fired int
}

// NewMemory returns an empty tracks x scenes session.
func NewMemory(tracks, scenes int) *Memory {
	m := &Memory{CanHighlight: true, CanMessage: true}
	for s := 0; s < scenes; s++ {
		m.Scenes = append(m.Scenes, &MemoryScene{})
	}
	for t := 0; t < tracks; t++ {
		tr := &MemoryTrack{}
		for s := 0; s < scenes; s++ {
			tr.Slots = append(tr.Slots, &MemorySlot{})
		}
		m.Tracks = append(m.Tracks, tr)
	}
	return m
}

// Slot returns the slot at (track, scene) or nil.
func (m *Memory) Slot(track, scene int) *MemorySlot {
	if track < 0 || track >= len(m.Tracks) {
		return nil
	}
	tr := m.Tracks[track]
	if scene < 0 || scene >= len(tr.Slots) {
		return nil
	}
	return tr.Slots[scene]
}

// SetClip puts a clip of the given color into (track, scene).
func (m *Memory) SetClip(track, scene, rgb int) *MemorySlot {
	s := m.Slot(track, scene)
	if s == nil {
		panic(fmt.Sprintf("session: no slot at track %d scene %d", track, scene))
	}
	s.Clip = true
	s.Color = rgb
	s.HasColor = true
	return s
}

// ClearClip empties (track, scene).
func (m *Memory) ClearClip(track, scene int) {
	if s := m.Slot(track, scene); s != nil {
		*s = MemorySlot{}
	}
}

func (m *Memory) TrackCount() int { return len(m.Tracks) }
func (m *Memory) SceneCount() int { return len(m.Scenes) }

func (m *Memory) Track(i int) (Track, error) {
	if i < 0 || i >= len(m.Tracks) {
		return nil, ErrOutOfRange
	}
	return m.Tracks[i], nil
}

func (m *Memory) Scene(i int) (Scene, error) {
	if i < 0 || i >= len(m.Scenes) {
		return nil, ErrOutOfRange
	}
	return m.Scenes[i], nil
}

func (m *Memory) Transport() (Transport, error) {
	return memoryTransport{m}, nil
}

func (m *Memory) SelectedTrack() (int, error) { return m.SelectedTrackIndex, nil }
func (m *Memory) SelectedScene() (int, error) { return m.SelectedSceneIndex, nil }

func (m *Memory) SelectTrack(i int) error {
	if i < 0 || i >= len(m.Tracks) {
		return ErrOutOfRange
	}
	m.SelectedTrackIndex = i
	return nil
}

func (m *Memory) SelectScene(i int) error {
	if i < 0 || i >= len(m.Scenes) {
		return ErrOutOfRange
	}
	m.SelectedSceneIndex = i
	return nil
}

func (m *Memory) Highlight(r Region) error {
	if !m.CanHighlight {
		return ErrUnsupported
	}
	m.Highlights = append(m.Highlights, r)
	return nil
}

func (m *Memory) ShowMessage(msg string) error {
	if !m.CanMessage {
		return ErrUnsupported
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

type memoryTransport struct{ m *Memory }

func (t memoryTransport) Start() error {
	t.m.Playing = true
	return nil
}

func (t memoryTransport) Stop() error {
	t.m.Playing = false
	return nil
}

func (t *MemoryTrack) ClipSlotCount() int { return len(t.Slots) }

func (t *MemoryTrack) ClipSlot(scene int) (ClipSlot, error) {
	if scene < 0 || scene >= len(t.Slots) {
		return nil, ErrOutOfRange
	}
	return t.Slots[scene], nil
}

func (t *MemoryTrack) Muted() (bool, error) {
	if t.Err != nil {
		return false, t.Err
	}
	return t.Mute, nil
}

func (t *MemoryTrack) SetMute(muted bool) error {
	if t.Err != nil {
		return t.Err
	}
	t.Mute = muted
	return nil
}

func (t *MemoryTrack) StopAllClips() error {
	if t.Err != nil {
		return t.Err
	}
	t.Stopped++
	for _, s := range t.Slots {
		s.Playing = false
		s.Triggered = false
	}
	return nil
}

func (s *MemorySlot) HasClip() (bool, error)     { return s.Clip, s.Err }
func (s *MemorySlot) IsPlaying() (bool, error)   { return s.Playing, s.Err }
func (s *MemorySlot) IsTriggered() (bool, error) { return s.Triggered, s.Err }

func (s *MemorySlot) ClipColor() (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	if !s.Clip || !s.HasColor {
		return 0, ErrNoColor
	}
	return s.Color, nil
}

func (s *MemorySlot) Fire() error {
	if s.Err != nil {
		return s.Err
	}
	s.Fired++
	if s.Clip {
		s.Triggered = true
	}
	return nil
}

func (s *MemoryScene) Fire() error {
	s.Fired++
	return nil
}
