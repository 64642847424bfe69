// Package logger holds the process-wide structured logger. Commands install
// a configured logger once at startup; everything else reads it through Get.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	global    *slog.Logger
	debugMode bool
	mu        sync.RWMutex
)

// New builds a text-handler logger writing to stderr, at Debug level when
// debug is set and Info otherwise.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// SetGlobal installs the process-wide logger and debug state.
func SetGlobal(l *slog.Logger, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	global = l
	debugMode = debug
}

// Get returns the installed logger, or a fallback built from the current
// debug state when none was installed.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	return New(debugMode)
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugMode
}
