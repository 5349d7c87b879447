package midi

// MIDI status bytes
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// ButtonEvent is a press (Value > 0) or release (Value == 0) of a pad.
type ButtonEvent struct {
	Note  uint8
	Value uint8
}

// Pressed reports whether the event is a press.
func (e ButtonEvent) Pressed() bool {
	return e.Value > 0
}

// NoteOnBytes frames a Note-On the way the controller expects it: channel in
// the low nibble of the status byte, note and velocity masked to 7 bits.
func NoteOnBytes(channel, note, velocity uint8) [3]byte {
	return [3]byte{NoteOn | (channel & 0x0F), note & 0x7F, velocity & 0x7F}
}
