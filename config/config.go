// Package config loads the driver configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mystrix-remote/midi"
	"mystrix-remote/surface"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure.
type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Surface    SurfaceConfig    `yaml:"surface"`
	Bridge     BridgeConfig     `yaml:"bridge"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitor    MonitorConfig    `yaml:"monitor"`
}

// ControllerConfig selects the MIDI ports of the pad controller.
type ControllerConfig struct {
	PortName    string `yaml:"port_name"` // case-insensitive substring of the port name
	Channel     int    `yaml:"channel"`
	AutoConnect bool   `yaml:"auto_connect"`
}

// SurfaceConfig shapes the clip window, the timing and the buttons. The
// window covers rows 0..scenes-1 and columns 0..tracks-1; a button placed
// inside it takes over that pad, so more than 4 scenes needs a button
// layout that leaves those rows free.
type SurfaceConfig struct {
	Tracks        int `yaml:"tracks"`
	Scenes        int `yaml:"scenes"`
	TickMS        int `yaml:"tick_ms"`
	RefreshTicks  int `yaml:"refresh_ticks"`
	RestoreTicks  int `yaml:"restore_ticks"`
	FlashVelocity int `yaml:"flash_velocity"`

	// Buttons replaces the default button layout when non-empty.
	Buttons []ButtonConfig `yaml:"buttons,omitempty"`
}

// ButtonConfig binds one pad to a command.
type ButtonConfig struct {
	Row      int    `yaml:"row"`
	Col      int    `yaml:"col"`
	Action   string `yaml:"action"`
	Track    int    `yaml:"track,omitempty"`
	Scene    int    `yaml:"scene,omitempty"`
	Velocity int    `yaml:"velocity"`
}

// BridgeConfig points at the host application's websocket.
type BridgeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	URL       string `yaml:"url"`
	TimeoutMS int    `yaml:"timeout_ms"`
	RetryMS   int    `yaml:"retry_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // error, warn, info, debug
	Debug bool   `yaml:"debug"` // category trace file next to the config
}

type MonitorConfig struct {
	Enabled     bool   `yaml:"enabled"`
	PaletteFile string `yaml:"palette_file,omitempty"` // GIMP .gpl ramp; built-in ramp when empty
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	opts := surface.DefaultOptions()
	return Config{
		Controller: ControllerConfig{
			PortName:    "Mystrix",
			Channel:     0,
			AutoConnect: true,
		},
		Surface: SurfaceConfig{
			Tracks:        opts.Tracks,
			Scenes:        opts.Scenes,
			TickMS:        int(surface.DefaultTick / time.Millisecond),
			RefreshTicks:  opts.RefreshTicks,
			RestoreTicks:  opts.RestoreTicks,
			FlashVelocity: int(opts.FlashVelocity),
		},
		Bridge: BridgeConfig{
			Enabled:   true,
			URL:       "ws://127.0.0.1:9001/session",
			TimeoutMS: 2000,
			RetryMS:   500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mystrix-remote"), nil
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load reads the default config file, or returns defaults if there is none.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads a YAML config file on top of the defaults. Unknown keys
// and trailing documents are rejected.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c Config) Save(path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config yaml: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// FlagOverrides holds command-line values that win over the file. Nil
// pointers are not applied.
type FlagOverrides struct {
	PortName  *string
	BridgeURL *string
	LogLevel  *string
	Debug     *bool
	Monitor   *bool
	Offline   *bool
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.PortName != nil {
		cfg.Controller.PortName = *o.PortName
	}
	if o.BridgeURL != nil {
		cfg.Bridge.URL = *o.BridgeURL
		cfg.Bridge.Enabled = true
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.Debug != nil {
		cfg.Logging.Debug = *o.Debug
	}
	if o.Monitor != nil {
		cfg.Monitor.Enabled = *o.Monitor
	}
	if o.Offline != nil && *o.Offline {
		cfg.Bridge.Enabled = false
	}
}

// Validate checks config invariants and returns a user-friendly error.
func (c *Config) Validate() error {
	if c.Controller.PortName == "" {
		return errors.New("controller.port_name must not be empty")
	}
	if c.Controller.Channel < 0 || c.Controller.Channel > 15 {
		return errors.New("controller.channel must be between 0 and 15")
	}

	if c.Surface.TickMS <= 0 || c.Surface.TickMS > 1000 {
		return errors.New("surface.tick_ms must be between 1 and 1000")
	}
	if c.Surface.FlashVelocity < 0 || c.Surface.FlashVelocity > int(midi.VelocityFull) {
		return errors.New("surface.flash_velocity must be between 0 and 127")
	}
	for i, b := range c.Surface.Buttons {
		if b.Velocity < 0 || b.Velocity > int(midi.VelocityFull) {
			return fmt.Errorf("surface.buttons[%d].velocity must be between 0 and 127", i)
		}
	}
	if _, err := c.SurfaceOptions(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}

	if c.Bridge.Enabled {
		if c.Bridge.URL == "" {
			return errors.New("bridge.enabled is true but bridge.url is empty")
		}
		if c.Bridge.TimeoutMS <= 0 {
			return errors.New("bridge.timeout_ms must be > 0")
		}
		if c.Bridge.RetryMS <= 0 {
			return errors.New("bridge.retry_ms must be > 0")
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "error", "warn", "warning", "info", "debug":
	default:
		return fmt.Errorf("logging.level %q must be error, warn, info or debug", c.Logging.Level)
	}
	return nil
}

// Tick is the base tick as a duration.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Surface.TickMS) * time.Millisecond
}

// SurfaceOptions converts the surface section into engine options.
func (c *Config) SurfaceOptions() (surface.Options, error) {
	opts := surface.DefaultOptions()
	opts.Tracks = c.Surface.Tracks
	opts.Scenes = c.Surface.Scenes
	opts.RefreshTicks = c.Surface.RefreshTicks
	opts.RestoreTicks = c.Surface.RestoreTicks
	opts.FlashVelocity = uint8(c.Surface.FlashVelocity)

	if len(c.Surface.Buttons) > 0 {
		opts.Bindings = nil
		for i, b := range c.Surface.Buttons {
			cmd, err := surface.ParseCommand(b.Action)
			if err != nil {
				return surface.Options{}, fmt.Errorf("buttons[%d]: %w", i, err)
			}
			opts.Bindings = append(opts.Bindings, surface.Binding{
				Row:      b.Row,
				Col:      b.Col,
				Command:  cmd,
				Track:    b.Track,
				Scene:    b.Scene,
				Velocity: uint8(b.Velocity),
			})
		}
	}

	if err := opts.Validate(); err != nil {
		return surface.Options{}, err
	}
	return opts, nil
}
