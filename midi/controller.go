package midi

import "errors"

// ErrNoDevice is returned when LEDs are written with no controller attached.
var ErrNoDevice = errors.New("midi: no controller attached")

// NoteSender is the one output primitive the LED engine needs.
type NoteSender interface {
	SendNote(note, velocity uint8) error
}

// Controller is a connected grid controller.
type Controller interface {
	NoteSender

	ID() string

	// Buttons delivers presses and releases of every note the device sends.
	Buttons() <-chan ButtonEvent

	// ClearLEDs turns every grid pad off.
	ClearLEDs() error

	Close() error
}

// Mystrix velocity values used outside the clip palette
const (
	VelocityOff   uint8 = 0
	VelocityWhite uint8 = 3
	VelocityFull  uint8 = 127
)
