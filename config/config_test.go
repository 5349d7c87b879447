package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mystrix-remote/surface"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Tick() != surface.DefaultTick {
		t.Errorf("expected default tick %v, got %v", surface.DefaultTick, cfg.Tick())
	}
}

func TestLoadFile_MergesDefaults(t *testing.T) {
	path := writeFile(t, `
controller:
  port_name: "Mystrix Pro"
  channel: 2
surface:
  tracks: 4
  buttons:
    - {row: 7, col: 7, action: transport_start, velocity: 87}
    - {row: 7, col: 6, action: stop_track, track: 3, velocity: 5}
logging:
  level: debug
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Controller.PortName != "Mystrix Pro" || cfg.Controller.Channel != 2 {
		t.Errorf("unexpected controller section %+v", cfg.Controller)
	}
	if !cfg.Controller.AutoConnect {
		t.Errorf("expected auto_connect default kept")
	}
	if cfg.Surface.Scenes != 4 || cfg.Surface.RefreshTicks != 10 {
		t.Errorf("expected surface defaults kept, got %+v", cfg.Surface)
	}

	opts, err := cfg.SurfaceOptions()
	if err != nil {
		t.Fatalf("SurfaceOptions: %v", err)
	}
	if opts.Tracks != 4 || len(opts.Bindings) != 2 {
		t.Fatalf("expected 4 tracks and 2 buttons, got %d and %d", opts.Tracks, len(opts.Bindings))
	}
	want := surface.Binding{Row: 7, Col: 6, Command: surface.StopTrack, Track: 3, Velocity: 5}
	if opts.Bindings[1] != want {
		t.Errorf("expected %+v, got %+v", want, opts.Bindings[1])
	}
}

func TestLoadFile_Rejects(t *testing.T) {
	tests := []struct {
		name, body, substr string
	}{
		{"unknown key", "controller:\n  port: x\n", "decode"},
		{"trailing document", "logging:\n  level: info\n---\nlogging:\n  level: debug\n", "trailing"},
		{"bad yaml", "controller: [\n", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected error containing %q, got %v", tt.substr, err)
			}
		})
	}

	if _, err := LoadFile(""); err == nil {
		t.Errorf("expected error for empty path")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Surface.Buttons = []ButtonConfig{{Row: 7, Col: 0, Action: "pan_left", Velocity: 90}}
	cfg.Monitor.Enabled = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !got.Monitor.Enabled || len(got.Surface.Buttons) != 1 || got.Surface.Buttons[0].Action != "pan_left" {
		t.Errorf("unexpected config after round trip: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		substr string
	}{
		{"empty port", func(c *Config) { c.Controller.PortName = "" }, "port_name"},
		{"channel", func(c *Config) { c.Controller.Channel = 16 }, "channel"},
		{"tick", func(c *Config) { c.Surface.TickMS = 0 }, "tick_ms"},
		{"flash", func(c *Config) { c.Surface.FlashVelocity = 300 }, "flash_velocity"},
		{"window", func(c *Config) { c.Surface.Tracks = 9 }, "tracks"},
		{"button velocity", func(c *Config) {
			c.Surface.Buttons = []ButtonConfig{{Action: "pan_left", Velocity: -1}}
		}, "buttons[0].velocity"},
		{"button action", func(c *Config) {
			c.Surface.Buttons = []ButtonConfig{{Action: "warp"}}
		}, "unknown command"},
		{"bridge url", func(c *Config) { c.Bridge.URL = "" }, "bridge.url"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected error containing %q, got %v", tt.substr, err)
			}
		})
	}
}

func TestFlagOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bridge.Enabled = false

	url := "ws://host:1/x"
	level := "debug"
	on := true
	FlagOverrides{BridgeURL: &url, LogLevel: &level, Monitor: &on}.Apply(&cfg)

	if !cfg.Bridge.Enabled || cfg.Bridge.URL != url {
		t.Errorf("expected bridge url override to enable the bridge, got %+v", cfg.Bridge)
	}
	if cfg.Logging.Level != "debug" || !cfg.Monitor.Enabled {
		t.Errorf("unexpected overrides result %+v", cfg)
	}

	FlagOverrides{Offline: &on}.Apply(&cfg)
	if cfg.Bridge.Enabled {
		t.Errorf("expected offline to disable the bridge")
	}
	if cfg.Tick() != 50*time.Millisecond {
		t.Errorf("expected tick untouched, got %v", cfg.Tick())
	}
}
