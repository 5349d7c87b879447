package bridge

import (
	"encoding/json"
	"fmt"

	"mystrix-remote/palette"
	"mystrix-remote/session"
)

type mirror struct {
	tracks        []mirrorTrack
	scenes        int
	selectedTrack int
	selectedScene int
	playing       bool
}

type mirrorTrack struct {
	muted bool
	slots []mirrorSlot
}

type mirrorSlot struct {
	hasClip   bool
	playing   bool
	triggered bool
	color     int
	hasColor  bool
}

// decodeState builds a mirror from a state message. Missing or mistyped
// fields read as false, zero or no color.
func decodeState(env envelope) mirror {
	var m mirror
	tracks, _ := env.Tracks.([]any)
	longest := 0
	for _, raw := range tracks {
		obj, _ := raw.(map[string]any)
		tr := mirrorTrack{muted: asBool(obj["muted"])}

		slots, _ := obj["slots"].([]any)
		for _, rs := range slots {
			so, _ := rs.(map[string]any)
			s := mirrorSlot{
				hasClip:   asBool(so["has_clip"]),
				playing:   asBool(so["playing"]),
				triggered: asBool(so["triggered"]),
			}
			s.color, s.hasColor = palette.ParseRGB(so["color"])
			tr.slots = append(tr.slots, s)
		}
		longest = max(longest, len(tr.slots))
		m.tracks = append(m.tracks, tr)
	}

	if n, ok := asInt(env.Scenes); ok && n >= 0 {
		m.scenes = n
	} else {
		m.scenes = longest
	}
	m.selectedTrack, _ = asInt(env.SelectedTrack)
	m.selectedScene, _ = asInt(env.SelectedScene)
	m.playing = asBool(env.Playing)
	return m
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(i), true
}

func (c *Client) TrackCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.state.tracks)
}

func (c *Client) SceneCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.scenes
}

// Track returns a handle by index. Handles read the mirror on every call,
// so they stay valid across state updates.
func (c *Client) Track(i int) (session.Track, error) {
	if i < 0 || i >= c.TrackCount() {
		return nil, fmt.Errorf("track %d: %w", i, session.ErrOutOfRange)
	}
	return track{c: c, index: i}, nil
}

func (c *Client) Scene(i int) (session.Scene, error) {
	if i < 0 || i >= c.SceneCount() {
		return nil, fmt.Errorf("scene %d: %w", i, session.ErrOutOfRange)
	}
	return scene{c: c, index: i}, nil
}

func (c *Client) Transport() (session.Transport, error) {
	return transport{c}, nil
}

func (c *Client) SelectedTrack() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.selectedTrack, nil
}

func (c *Client) SelectedScene() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.selectedScene, nil
}

// SelectTrack asks the host to select track i and assumes it will.
func (c *Client) SelectTrack(i int) error {
	if err := c.send("select_track", map[string]any{"track": i}); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.selectedTrack = i
	c.mu.Unlock()
	return nil
}

// SelectScene asks the host to select scene i and assumes it will.
func (c *Client) SelectScene(i int) error {
	if err := c.send("select_scene", map[string]any{"scene": i}); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.selectedScene = i
	c.mu.Unlock()
	return nil
}

func (c *Client) Highlight(r session.Region) error {
	if !c.hasCap(CapHighlight) {
		return session.ErrUnsupported
	}
	return c.send("highlight", map[string]any{
		"track":           r.TrackOffset,
		"scene":           r.SceneOffset,
		"width":           r.Width,
		"height":          r.Height,
		"include_returns": r.IncludeReturns,
	})
}

func (c *Client) ShowMessage(msg string) error {
	if !c.hasCap(CapMessage) {
		return session.ErrUnsupported
	}
	return c.send("show_message", map[string]any{"text": msg})
}

// lookup runs fn on track t of the mirror under the read lock.
func (c *Client) lookup(t int, fn func(*mirrorTrack) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t < 0 || t >= len(c.state.tracks) {
		return fmt.Errorf("track %d: %w", t, session.ErrOutOfRange)
	}
	return fn(&c.state.tracks[t])
}

func (c *Client) slot(t, s int) (mirrorSlot, error) {
	var out mirrorSlot
	err := c.lookup(t, func(tr *mirrorTrack) error {
		if s < 0 || s >= len(tr.slots) {
			return fmt.Errorf("slot %d/%d: %w", t, s, session.ErrOutOfRange)
		}
		out = tr.slots[s]
		return nil
	})
	return out, err
}

type track struct {
	c     *Client
	index int
}

func (t track) ClipSlotCount() int {
	n := 0
	t.c.lookup(t.index, func(tr *mirrorTrack) error {
		n = len(tr.slots)
		return nil
	})
	return n
}

func (t track) ClipSlot(s int) (session.ClipSlot, error) {
	if _, err := t.c.slot(t.index, s); err != nil {
		return nil, err
	}
	return slot{c: t.c, track: t.index, scene: s}, nil
}

func (t track) Muted() (bool, error) {
	var muted bool
	err := t.c.lookup(t.index, func(tr *mirrorTrack) error {
		muted = tr.muted
		return nil
	})
	return muted, err
}

// SetMute sends the change and applies it to the mirror, so a second toggle
// before the next state update flips it back.
func (t track) SetMute(muted bool) error {
	if err := t.c.send("set_mute", map[string]any{"track": t.index, "muted": muted}); err != nil {
		return err
	}
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.index < len(t.c.state.tracks) {
		t.c.state.tracks[t.index].muted = muted
	}
	return nil
}

func (t track) StopAllClips() error {
	return t.c.send("stop_track", map[string]any{"track": t.index})
}

type slot struct {
	c            *Client
	track, scene int
}

func (s slot) HasClip() (bool, error) {
	m, err := s.c.slot(s.track, s.scene)
	return m.hasClip, err
}

func (s slot) IsPlaying() (bool, error) {
	m, err := s.c.slot(s.track, s.scene)
	return m.playing, err
}

func (s slot) IsTriggered() (bool, error) {
	m, err := s.c.slot(s.track, s.scene)
	return m.triggered, err
}

func (s slot) ClipColor() (int, error) {
	m, err := s.c.slot(s.track, s.scene)
	if err != nil {
		return 0, err
	}
	if !m.hasClip || !m.hasColor {
		return 0, session.ErrNoColor
	}
	return m.color, nil
}

func (s slot) Fire() error {
	return s.c.send("fire_clip", map[string]any{"track": s.track, "scene": s.scene})
}

type scene struct {
	c     *Client
	index int
}

func (s scene) Fire() error {
	return s.c.send("fire_scene", map[string]any{"scene": s.index})
}

type transport struct {
	c *Client
}

func (t transport) Start() error {
	return t.c.send("transport_start", nil)
}

func (t transport) Stop() error {
	return t.c.send("transport_stop", nil)
}
