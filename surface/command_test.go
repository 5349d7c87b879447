package surface

import (
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	for _, c := range Commands() {
		got, err := ParseCommand(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCommand(%q): got %q, %v", c, got, err)
		}
	}
	if _, err := ParseCommand("launch_rocket"); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestDefaultOptions_Valid(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(opts.Bindings) != 27 {
		t.Errorf("expected 27 default buttons, got %d", len(opts.Bindings))
	}
	for _, b := range opts.Bindings {
		if b.Row < opts.Scenes {
			t.Errorf("binding %s overlaps the clip window", b)
		}
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		substr string
	}{
		{"zero tracks", func(o *Options) { o.Tracks = 0 }, "tracks"},
		{"too many scenes", func(o *Options) { o.Scenes = 9 }, "scenes"},
		{"zero refresh", func(o *Options) { o.RefreshTicks = 0 }, "ticks"},
		{"flash velocity", func(o *Options) { o.FlashVelocity = 128 }, "flash"},
		{"off grid", func(o *Options) { o.Bindings = []Binding{{Row: 8, Command: PanLeft}} }, "outside"},
		{"unknown command", func(o *Options) { o.Bindings = []Binding{{Command: "nope"}} }, "unknown"},
		{"velocity", func(o *Options) { o.Bindings = []Binding{{Command: PanLeft, Velocity: 200}} }, "velocity"},
		{"duplicate pad", func(o *Options) {
			o.Bindings = []Binding{{Row: 7, Col: 7, Command: PanLeft}, {Row: 7, Col: 7, Command: PanRight}}
		}, "already bound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			err := opts.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected error containing %q, got %v", tt.substr, err)
			}
		})
	}
}

func TestOptions_Overlaps(t *testing.T) {
	opts := DefaultOptions()
	if over := opts.Overlaps(); len(over) != 0 {
		t.Errorf("expected default layout clear of the clip window, got %v", over)
	}

	opts.Scenes = 8
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := len(opts.Overlaps()); got != len(opts.Bindings) {
		t.Errorf("expected all %d buttons inside an 8-scene window, got %d", len(opts.Bindings), got)
	}

	opts.Scenes = 6
	for _, b := range opts.Overlaps() {
		if b.Row >= 6 {
			t.Errorf("binding %s reported but lies below the window", b)
		}
	}
	if got := len(opts.Overlaps()); got != 16 {
		t.Errorf("expected rows 4 and 5 (16 buttons) inside a 6-scene window, got %d", got)
	}
}
