package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"mystrix-remote/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ledSendCount uint64

// Mystrix is a Mystrix Pro grid in its note layout (see NoteFor).
type Mystrix struct {
	id       string
	channel  uint8
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	buttons   chan ButtonEvent
	closeOnce sync.Once
}

// NewMystrix opens the given ports. Either port may be nil; a device without
// an output swallows LED writes, one without an input never reports presses.
func NewMystrix(id string, inPort drivers.In, outPort drivers.Out, channel uint8) (*Mystrix, error) {
	m := &Mystrix{
		id:      id,
		channel: channel & 0x0F,
		inPort:  inPort,
		outPort: outPort,
		buttons: make(chan ButtonEvent, 32),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		m.send = send
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, m.handle)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		m.stopFunc = stop
	}

	return m, nil
}

func (m *Mystrix) handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8

	var ev ButtonEvent
	switch {
	case msg.GetNoteStart(&channel, &note, &velocity):
		ev = ButtonEvent{Note: note, Value: velocity}
	case msg.GetNoteEnd(&channel, &note):
		// Note-Off, or Note-On with velocity 0
		ev = ButtonEvent{Note: note}
	default:
		return
	}

	select {
	case m.buttons <- ev:
	default:
		debug.Log("mystrix", "button queue full, dropped note=%d value=%d", ev.Note, ev.Value)
	}
}

func (m *Mystrix) ID() string {
	return m.id
}

func (m *Mystrix) Buttons() <-chan ButtonEvent {
	return m.buttons
}

// SendNote writes one Note-On on the controller channel.
func (m *Mystrix) SendNote(note, velocity uint8) error {
	if m.send == nil {
		return nil
	}
	frame := NoteOnBytes(m.channel, note, velocity)
	if err := m.send(gomidi.Message(frame[:])); err != nil {
		return fmt.Errorf("send note %d: %w", note, err)
	}

	count := atomic.AddUint64(&ledSendCount, 1)
	if count%100 == 0 {
		debug.Log("mystrix-send", "led messages sent=%d", count)
	}
	return nil
}

// ClearLEDs turns off all 64 grid pads.
func (m *Mystrix) ClearLEDs() error {
	if m.send == nil {
		return nil
	}
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			if err := m.SendNote(NoteFor(row, col), VelocityOff); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Mystrix) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.send != nil {
			err = m.ClearLEDs()
		}
		if m.stopFunc != nil {
			m.stopFunc()
		}
		close(m.buttons)
	})
	return err
}
