package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"mystrix-remote/bridge"
	"mystrix-remote/config"
	"mystrix-remote/debug"
	"mystrix-remote/midi"
	"mystrix-remote/session"
	"mystrix-remote/surface"
	"mystrix-remote/theme"
	"mystrix-remote/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default ~/.config/mystrix-remote/config.yaml)")
	portName := flag.String("port", "", "Controller port name match (case-insensitive substring)")
	bridgeURL := flag.String("bridge-url", "", "Host websocket URL")
	logLevel := flag.String("log-level", "", "Log level: error, warn, info, debug")
	debugLog := flag.Bool("debug", false, "Write the category trace log next to the config")
	monitor := flag.Bool("monitor", false, "Show the terminal LED monitor")
	offline := flag.Bool("offline", false, "Run against a built-in demo session instead of the host")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Only flags given on the command line win over the file.
	var overrides config.FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			overrides.PortName = portName
		case "bridge-url":
			overrides.BridgeURL = bridgeURL
		case "log-level":
			overrides.LogLevel = logLevel
		case "debug":
			overrides.Debug = debugLog
		case "monitor":
			overrides.Monitor = monitor
		case "offline":
			overrides.Offline = offline
		}
	})
	overrides.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func run(cfg config.Config) error {
	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}

	// The monitor owns the terminal, so the process log goes to a file.
	var logOut io.Writer = os.Stdout
	if cfg.Monitor.Enabled {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "mystrix-remote.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := setupLogger(level, logOut)
	slog.SetDefault(logger)

	if cfg.Logging.Debug {
		if err := debug.Enable(dir); err != nil {
			logger.Warn("debug log unavailable", "error", err)
		}
		defer debug.Disable()
	}

	opts, err := cfg.SurfaceOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var song session.Song
	if cfg.Bridge.Enabled {
		client, err := bridge.New(bridge.Config{
			URL:     cfg.Bridge.URL,
			Timeout: time.Duration(cfg.Bridge.TimeoutMS) * time.Millisecond,
			Retry:   time.Duration(cfg.Bridge.RetryMS) * time.Millisecond,
		}, logger)
		if err != nil {
			return fmt.Errorf("bridge: %w", err)
		}
		g.Go(func() error { return client.Run(ctx) })
		song = client
		logger.Info("connecting to host", "url", cfg.Bridge.URL)
	} else {
		song = demoSession(opts.Tracks, opts.Scenes)
		logger.Info("offline mode, using demo session")
	}

	mgr, err := surface.NewManager(song, opts, cfg.Tick(), logger)
	if err != nil {
		return err
	}
	g.Go(func() error { return mgr.Run(ctx) })

	devices := midi.NewDeviceManager(cfg.Controller.PortName, uint8(cfg.Controller.Channel))
	g.Go(func() error { return devices.Run(ctx) })
	g.Go(func() error {
		router := newDeviceRouter(mgr, cfg.Controller.AutoConnect, logger)
		router.Forward(ctx, devices.Events())
		return nil
	})

	if cfg.Monitor.Enabled {
		ramp := theme.DefaultRamp()
		if cfg.Monitor.PaletteFile != "" {
			r, err := theme.LoadGPL(config.ExpandPath(cfg.Monitor.PaletteFile))
			if err != nil {
				logger.Warn("palette file unusable, using built-in ramp", "path", cfg.Monitor.PaletteFile, "error", err)
			} else {
				ramp = r
			}
		}

		m := tui.NewModel(mgr, theme.New(ramp), opts.Bindings)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		g.Go(func() error {
			<-ctx.Done()
			p.Quit()
			return nil
		})
		g.Go(func() error {
			defer cancel()
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("monitor: %w", err)
			}
			return nil
		})
	} else {
		fmt.Println("mystrix-remote")
		fmt.Printf("Waiting for a controller matching %q - plug it in any time\n", cfg.Controller.PortName)
		fmt.Println("Ctrl+C to exit")
	}

	return g.Wait()
}
