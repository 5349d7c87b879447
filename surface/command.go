package surface

import (
	"fmt"

	"mystrix-remote/midi"
)

// Command names a one-shot session action bound to a button.
type Command string

const (
	FireClip          Command = "fire_clip"
	StopTrack         Command = "stop_track"
	ToggleMute        Command = "toggle_mute"
	PanLeft           Command = "pan_left"
	PanRight          Command = "pan_right"
	PanUp             Command = "pan_up"
	PanDown           Command = "pan_down"
	SelectPrevTrack   Command = "select_prev_track"
	SelectNextTrack   Command = "select_next_track"
	SelectPrevScene   Command = "select_prev_scene"
	SelectNextScene   Command = "select_next_scene"
	TransportStart    Command = "transport_start"
	TransportStop     Command = "transport_stop"
	FireSelectedScene Command = "fire_selected_scene"
)

var commands = []Command{
	FireClip, StopTrack, ToggleMute,
	PanLeft, PanRight, PanUp, PanDown,
	SelectPrevTrack, SelectNextTrack, SelectPrevScene, SelectNextScene,
	TransportStart, TransportStop, FireSelectedScene,
}

// Commands lists every known command.
func Commands() []Command {
	return append([]Command(nil), commands...)
}

// ParseCommand validates a command name from configuration.
func ParseCommand(s string) (Command, error) {
	for _, c := range commands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// UsesTrack reports whether the command acts on a window-relative track.
func (c Command) UsesTrack() bool {
	return c == FireClip || c == StopTrack || c == ToggleMute
}

// Binding ties a pad to a command and a resting LED velocity.
type Binding struct {
	Row, Col int
	Command  Command

	// Track and Scene are window-relative; Scene is used by fire_clip only.
	Track int
	Scene int

	Velocity uint8
}

// Note is the pad note of the binding.
func (b Binding) Note() uint8 {
	return midi.NoteFor(b.Row, b.Col)
}

func (b Binding) String() string {
	if b.Command.UsesTrack() {
		return fmt.Sprintf("%s[%d]@%d,%d", b.Command, b.Track, b.Row, b.Col)
	}
	return fmt.Sprintf("%s@%d,%d", b.Command, b.Row, b.Col)
}

// Button colors of the default layout, as palette ids.
const (
	colorStop      uint8 = 5
	colorMute      uint8 = 84
	colorPan       uint8 = 90
	colorSelect    uint8 = 69
	colorPlay      uint8 = 87
	colorFireScene uint8 = 13
)

// DefaultBindings fills the bottom half of the grid: stop buttons, mute
// buttons, navigation and transport. The clip window sits in rows 0-3.
func DefaultBindings() []Binding {
	var out []Binding
	for col := 0; col < midi.GridCols; col++ {
		out = append(out, Binding{Row: 4, Col: col, Command: StopTrack, Track: col, Velocity: colorStop})
	}
	for col := 0; col < midi.GridCols; col++ {
		out = append(out, Binding{Row: 5, Col: col, Command: ToggleMute, Track: col, Velocity: colorMute})
	}

	nav := []struct {
		cmd Command
		vel uint8
	}{
		{PanLeft, colorPan}, {PanRight, colorPan}, {PanUp, colorPan}, {PanDown, colorPan},
		{SelectPrevTrack, colorSelect}, {SelectNextTrack, colorSelect},
		{SelectPrevScene, colorSelect}, {SelectNextScene, colorSelect},
	}
	for col, n := range nav {
		out = append(out, Binding{Row: 6, Col: col, Command: n.cmd, Velocity: n.vel})
	}

	out = append(out,
		Binding{Row: 7, Col: 0, Command: TransportStart, Velocity: colorPlay},
		Binding{Row: 7, Col: 1, Command: TransportStop, Velocity: colorStop},
		Binding{Row: 7, Col: 7, Command: FireSelectedScene, Velocity: colorFireScene},
	)
	return out
}
