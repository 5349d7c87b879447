// Package session describes the host application's session as the control
// surface sees it. Hosts differ across versions, so every read returns an
// error alongside its value and callers pick their own default.
package session

import "errors"

var (
	// ErrUnsupported is returned for attributes or commands the host lacks.
	ErrUnsupported = errors.New("session: not supported by host")

	// ErrOutOfRange is returned for track, scene or slot indexes past the end.
	ErrOutOfRange = errors.New("session: index out of range")

	// ErrNoColor is returned by ClipColor when the slot has no colored clip.
	ErrNoColor = errors.New("session: clip has no color")
)

// Song is the session grid plus its selection and transport.
type Song interface {
	TrackCount() int
	SceneCount() int
	Track(i int) (Track, error)
	Scene(i int) (Scene, error)
	Transport() (Transport, error)

	SelectedTrack() (int, error)
	SelectTrack(i int) error
	SelectedScene() (int, error)
	SelectScene(i int) error
}

// Track is one session column.
type Track interface {
	ClipSlotCount() int
	ClipSlot(scene int) (ClipSlot, error)
	Muted() (bool, error)
	SetMute(muted bool) error
	StopAllClips() error
}

// ClipSlot is one cell of the grid.
type ClipSlot interface {
	HasClip() (bool, error)
	IsPlaying() (bool, error)
	IsTriggered() (bool, error)

	// ClipColor is the clip's 0xRRGGBB color.
	ClipColor() (int, error)

	Fire() error
}

// Scene is one session row.
type Scene interface {
	Fire() error
}

type Transport interface {
	Start() error
	Stop() error
}

// Highlighter is implemented by hosts that can outline the controlled region.
type Highlighter interface {
	Highlight(r Region) error
}

// Messenger is implemented by hosts with a status bar.
type Messenger interface {
	ShowMessage(msg string) error
}

// Region is the rectangle of the session grid mapped onto the controller.
type Region struct {
	TrackOffset    int
	SceneOffset    int
	Width          int
	Height         int
	IncludeReturns bool
}
