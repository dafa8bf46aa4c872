// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Logs to stderr for commands and to a debug file while the TUI owns the terminal.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init configures the default slog logger based on environment variables.
// LOG_LEVEL: debug, info, warn, error (default: warn for the CLI)
// LOG_FORMAT: text, json (default: text)
func Init(w io.Writer) {
	level := parseLevel(os.Getenv("LOG_LEVEL"), slog.LevelWarn)
	slog.SetDefault(slog.New(newHandler(w, level)))
}

// InitFile points the default logger at <configDir>/debug.log so log output
// does not interfere with the terminal display. An empty configDir discards
// all log output.
func InitFile(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	level := parseLevel(os.Getenv("LOG_LEVEL"), slog.LevelInfo)
	slog.SetDefault(slog.New(newHandler(f, level)))
	return nil
}

// Close releases the debug log file, if one is open
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
