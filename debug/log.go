// Package debug is a category-tagged trace log for the LED engine. It is off
// by default; when enabled every line is flushed so the tail survives a crash.
package debug

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu       sync.Mutex
	file     *os.File
	logger   *slog.Logger
	counters = make(map[string]int)
)

// Enable starts trace logging to dir/debug.log, truncating any previous file.
func Enable(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}

	file = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Debug("debug logging started", "category", "debug")
	f.Sync()
	return nil
}

// Disable stops trace logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
}

// Enabled reports whether trace logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return logger != nil
}

// Log writes one trace line under category.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		return
	}
	logger.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...), "category", category)
	file.Sync()
}

// LogEvery logs only every n-th call for the same category and format.
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
