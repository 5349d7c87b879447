package surface

import (
	"errors"
	"fmt"
	"log/slog"

	"mystrix-remote/debug"
	"mystrix-remote/midi"
	"mystrix-remote/session"
)

// Options configures a Surface.
type Options struct {
	// Clip window size in pads.
	Tracks int
	Scenes int

	RefreshTicks int
	RestoreTicks int

	FlashVelocity uint8
	Bindings      []Binding

	// LoadMessage is shown once on Start.
	LoadMessage string
}

// DefaultOptions is an 8x4 clip window over the default button layout,
// refreshed every 10 ticks, with button flashes lasting 2 ticks.
func DefaultOptions() Options {
	return Options{
		Tracks:        midi.GridCols,
		Scenes:        4,
		RefreshTicks:  10,
		RestoreTicks:  2,
		FlashVelocity: midi.VelocityWhite,
		Bindings:      DefaultBindings(),
		LoadMessage:   "Mystrix remote loaded",
	}
}

// Validate checks window size and bindings.
func (o Options) Validate() error {
	if o.Tracks < 1 || o.Tracks > midi.GridCols {
		return fmt.Errorf("tracks must be 1..%d, got %d", midi.GridCols, o.Tracks)
	}
	if o.Scenes < 1 || o.Scenes > midi.GridRows {
		return fmt.Errorf("scenes must be 1..%d, got %d", midi.GridRows, o.Scenes)
	}
	if o.RefreshTicks < 1 || o.RestoreTicks < 1 {
		return fmt.Errorf("refresh and restore ticks must be positive")
	}
	if o.FlashVelocity > midi.VelocityFull {
		return fmt.Errorf("flash velocity %d out of range", o.FlashVelocity)
	}

	seen := make(map[uint8]Binding)
	for _, b := range o.Bindings {
		if b.Row < 0 || b.Row >= midi.GridRows || b.Col < 0 || b.Col >= midi.GridCols {
			return fmt.Errorf("binding %s: pad outside the grid", b)
		}
		if _, err := ParseCommand(string(b.Command)); err != nil {
			return fmt.Errorf("binding %s: %w", b, err)
		}
		if b.Velocity > midi.VelocityFull {
			return fmt.Errorf("binding %s: velocity %d out of range", b, b.Velocity)
		}
		if prev, ok := seen[b.Note()]; ok {
			return fmt.Errorf("binding %s: pad already bound to %s", b, prev)
		}
		seen[b.Note()] = b
	}
	return nil
}

// Overlaps returns the bindings that sit inside the clip window. Their pads
// show the button instead of a clip and do not fire the slot under them.
func (o Options) Overlaps() []Binding {
	var out []Binding
	for _, b := range o.Bindings {
		if b.Row < o.Scenes && b.Col < o.Tracks {
			out = append(out, b)
		}
	}
	return out
}

// Surface wires state, sampler, differ, dispatcher and clock for one
// session and one output.
type Surface struct {
	State      *State
	Clock      *Clock
	Differ     *Differ
	Dispatcher *Dispatcher

	song    session.Song
	out     midi.NoteSender
	opts    Options
	logger  *slog.Logger
	started bool
}

// New builds a surface. Nothing is sent until Start.
func New(song session.Song, out midi.NoteSender, opts Options, logger *slog.Logger) (*Surface, error) {
	if song == nil || out == nil {
		return nil, errors.New("surface needs a session and an output")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if over := opts.Overlaps(); len(over) > 0 {
		names := make([]string, len(over))
		for i, b := range over {
			names[i] = b.String()
		}
		logger.Warn("buttons inside the clip window hide those clip pads", "scenes", opts.Scenes, "tracks", opts.Tracks, "buttons", names)
	}

	s := &Surface{
		State:  NewState(opts.Tracks, opts.Scenes),
		Clock:  &Clock{},
		song:   song,
		out:    out,
		opts:   opts,
		logger: logger,
	}
	s.Differ = &Differ{Sampler: Sampler{Song: song}, Out: out}
	s.Dispatcher = &Dispatcher{
		Song:          song,
		Out:           out,
		Clock:         s.Clock,
		Bindings:      make(map[uint8]Binding, len(opts.Bindings)),
		FlashVelocity: opts.FlashVelocity,
		RestoreTicks:  opts.RestoreTicks,
		Move:          s.Move,
	}
	for _, b := range opts.Bindings {
		s.State.Fixed[b.Note()] = b.Velocity
		s.Dispatcher.Bindings[b.Note()] = b
	}
	return s, nil
}

// Start paints every bound button, runs a first refresh, registers the
// periodic refresh and announces itself to the host. It returns the first
// send error; the surface is running either way.
func (s *Surface) Start() error {
	if s.started {
		return nil
	}
	s.started = true

	var first error
	for _, b := range s.opts.Bindings {
		if err := s.State.send(s.out, b.Note(), b.Velocity); err != nil && first == nil {
			first = fmt.Errorf("paint %s: %w", b, err)
		}
	}
	if _, err := s.Refresh(); err != nil && first == nil {
		first = err
	}

	s.Clock.Every(s.opts.RefreshTicks, func() {
		if _, err := s.Refresh(); err != nil {
			s.logSendError("refresh", err)
		}
	})

	s.highlight()
	s.announce()
	return first
}

// Refresh runs one differ pass.
func (s *Surface) Refresh() (int, error) {
	n, err := s.Differ.Refresh(s.State)
	if err != nil {
		return n, fmt.Errorf("refresh: %w", err)
	}
	return n, nil
}

// Move pans the viewport, refreshes at once and tells the host which
// region is now on the pads.
func (s *Surface) Move(dTracks, dScenes int) error {
	s.State.View = s.State.View.Moved(dTracks, dScenes, count(s.song.TrackCount), count(s.song.SceneCount))
	_, err := s.Refresh()
	s.highlight()
	return err
}

// Handle dispatches one button event.
func (s *Surface) Handle(ev midi.ButtonEvent) {
	s.Dispatcher.Handle(s.State, ev)
}

// Tick advances the clock by one base tick.
func (s *Surface) Tick() {
	s.Clock.Advance()
}

// Resync repaints the controller after it (re)attaches: bound buttons get
// their resting velocity, every other cached note its last value, then a
// refresh covers the pads never sent.
func (s *Surface) Resync() (int, error) {
	sent := 0
	for _, note := range s.State.notes() {
		v, ok := s.State.Fixed[note]
		if !ok {
			v = s.State.LEDs[note]
		}
		if err := s.State.send(s.out, note, v); err != nil {
			return sent, fmt.Errorf("resync note %d: %w", note, err)
		}
		sent++
	}
	n, err := s.Refresh()
	return sent + n, err
}

func (s *Surface) highlight() {
	h, ok := s.song.(session.Highlighter)
	if !ok {
		return
	}
	v := s.State.View
	r := session.Region{
		TrackOffset: v.TrackOffset,
		SceneOffset: v.SceneOffset,
		Width:       v.Tracks,
		Height:      v.Scenes,
	}
	if err := call(func() error { return h.Highlight(r) }); err != nil {
		debug.Log("host", "highlight: %v", err)
	}
}

func (s *Surface) announce() {
	if s.opts.LoadMessage == "" {
		return
	}
	s.logger.Info(s.opts.LoadMessage, "tracks", s.opts.Tracks, "scenes", s.opts.Scenes, "buttons", len(s.opts.Bindings))
	m, ok := s.song.(session.Messenger)
	if !ok {
		return
	}
	if err := call(func() error { return m.ShowMessage(s.opts.LoadMessage) }); err != nil {
		debug.Log("host", "show message: %v", err)
	}
}

func (s *Surface) logSendError(op string, err error) {
	if errors.Is(err, midi.ErrNoDevice) {
		debug.LogEvery(100, "led", "%s: %v", op, err)
		return
	}
	s.logger.Warn("LED update failed", "op", op, "error", err)
}
