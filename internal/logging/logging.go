// Package logging provides categorized file-based logging for the FinSight
// client. Logs are written to ~/.finsight/logs/ with one file per category.
// When debug mode is off every logger is a no-op, so the interactive UI
// stays clean by default.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and shutdown
	CategoryAPI     Category = "api"     // HTTP calls to the FinSight API
	CategoryChat    Category = "chat"    // Conversation lifecycle
	CategorySession Category = "session" // Token store
	CategoryTracker Category = "tracker" // Asset tracker operations
	CategoryNews    Category = "news"    // News fetches
)

var (
	mu       sync.Mutex
	loggers  = make(map[Category]*zap.Logger)
	logsDir  string
	enabled  bool
	minLevel = zapcore.InfoLevel
)

// Initialize sets up the logging directory. With debug false this is a
// silent no-op and Get returns no-op loggers.
func Initialize(dir string, debug bool, level string) error {
	mu.Lock()
	defer mu.Unlock()

	for _, l := range loggers {
		_ = l.Sync()
	}
	loggers = make(map[Category]*zap.Logger)

	enabled = debug
	if !enabled {
		return nil
	}

	logsDir = filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	switch level {
	case "debug":
		minLevel = zapcore.DebugLevel
	case "warn", "warning":
		minLevel = zapcore.WarnLevel
	case "error":
		minLevel = zapcore.ErrorLevel
	default:
		minLevel = zapcore.InfoLevel
	}

	return nil
}

// Get returns the logger for a category, creating it on first use.
// Safe to call before Initialize; callers get a no-op logger.
func (c Category) logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return zap.NewNop()
	}
	if l, ok := loggers[c]; ok {
		return l
	}

	path := filepath.Join(logsDir, string(c)+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", path, err)
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(file),
		minLevel,
	)

	l := zap.New(core).Named(string(c))
	loggers[c] = l
	return l
}

// Get returns the logger for a category.
func Get(c Category) *zap.Logger {
	return c.logger()
}

// Sync flushes all open loggers. Called at shutdown.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		_ = l.Sync()
	}
}

// IsEnabled reports whether file logging is active.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}
