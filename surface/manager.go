package surface

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"mystrix-remote/midi"
	"mystrix-remote/session"
)

// DefaultTick is the base tick the clock is advanced on.
const DefaultTick = 50 * time.Millisecond

// Frame is a copy of the LED state for observers on other goroutines.
type Frame struct {
	LEDs   map[uint8]uint8
	Fixed  map[uint8]uint8
	View   Viewport
	Tick   int64
	Device string
}

// output routes LED writes to whichever controller is attached.
type output struct {
	dst midi.NoteSender
}

func (o *output) SendNote(note, velocity uint8) error {
	if o.dst == nil {
		return midi.ErrNoDevice
	}
	return o.dst.SendNote(note, velocity)
}

// Manager owns a Surface and drives it from a single goroutine: base ticks,
// button events, controller attach and detach all arrive through Run.
type Manager struct {
	surface *Surface
	out     *output
	tick    time.Duration
	logger  *slog.Logger

	attach  chan midi.Controller
	detach  chan string
	presses chan midi.ButtonEvent
	frames  chan Frame
	done    chan struct{}

	controller  midi.Controller
	lastVersion uint64
	lastView    Viewport
	lastDevice  string
	published   bool
}

// NewManager builds the surface for song. A zero tick uses DefaultTick.
func NewManager(song session.Song, opts Options, tick time.Duration, logger *slog.Logger) (*Manager, error) {
	if tick <= 0 {
		tick = DefaultTick
	}
	if logger == nil {
		logger = slog.Default()
	}
	out := &output{}
	s, err := New(song, out, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("build surface: %w", err)
	}
	return &Manager{
		surface: s,
		out:     out,
		tick:    tick,
		logger:  logger,
		attach:  make(chan midi.Controller, 4),
		detach:  make(chan string, 4),
		presses: make(chan midi.ButtonEvent, 32),
		frames:  make(chan Frame, 1),
		done:    make(chan struct{}),
	}, nil
}

// Attach hands a controller to the loop. It replaces any current one.
// After Run has returned the controller is dropped.
func (m *Manager) Attach(c midi.Controller) {
	select {
	case m.attach <- c:
	case <-m.done:
	}
}

// Detach drops the controller with the given id, if it is the current one.
func (m *Manager) Detach(id string) {
	select {
	case m.detach <- id:
	case <-m.done:
	}
}

// Press injects a button event, as if pressed on the device. It reports
// false when the queue is full.
func (m *Manager) Press(ev midi.ButtonEvent) bool {
	select {
	case m.presses <- ev:
		return true
	default:
		return false
	}
}

// Frames delivers the LED state after every change. Only the latest frame is
// kept; slow readers skip intermediate ones.
func (m *Manager) Frames() <-chan Frame {
	return m.frames
}

// Run starts the surface and processes events until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)

	if err := m.surface.Start(); err != nil {
		m.surface.logSendError("start", err)
	}
	m.publish()

	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		var buttons <-chan midi.ButtonEvent
		if m.controller != nil {
			buttons = m.controller.Buttons()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.surface.Tick()
		case ev, ok := <-buttons:
			if !ok {
				m.logger.Warn("controller input closed", "id", m.controller.ID())
				m.setController(nil)
				break
			}
			m.surface.Handle(ev)
		case ev := <-m.presses:
			m.surface.Handle(ev)
		case c := <-m.attach:
			m.setController(c)
		case id := <-m.detach:
			if m.controller != nil && m.controller.ID() == id {
				m.setController(nil)
			}
		}
		m.publish()
	}
}

// setController switches the output. The device manager owns the
// controller's lifetime; the loop only drops its reference.
func (m *Manager) setController(c midi.Controller) {
	if m.controller != nil {
		m.logger.Info("controller detached", "id", m.controller.ID())
	}
	m.controller = c
	m.out.dst = nil
	if c == nil {
		return
	}
	m.out.dst = c

	if err := c.ClearLEDs(); err != nil {
		m.logger.Warn("clear LEDs", "id", c.ID(), "error", err)
	}
	n, err := m.surface.Resync()
	if err != nil {
		m.surface.logSendError("resync", err)
	}
	m.logger.Info("controller attached", "id", c.ID(), "leds", n)
}

// publish offers a frame when the LEDs or the viewport changed.
func (m *Manager) publish() {
	st := m.surface.State
	device := ""
	if m.controller != nil {
		device = m.controller.ID()
	}
	if m.published && st.Version() == m.lastVersion && st.View == m.lastView && device == m.lastDevice {
		return
	}
	m.published = true
	m.lastVersion = st.Version()
	m.lastView = st.View
	m.lastDevice = device

	f := Frame{
		LEDs:   maps.Clone(st.LEDs),
		Fixed:  maps.Clone(st.Fixed),
		View:   st.View,
		Tick:   m.surface.Clock.Now(),
		Device: device,
	}

	select {
	case <-m.frames:
	default:
	}
	select {
	case m.frames <- f:
	default:
	}
}
