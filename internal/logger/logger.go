// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger for CLI (stderr) or TUI (debug log file) use.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is the file the TUI logs to inside the config directory.
const LogFileName = "debug.log"

// Init configures the default slog logger to write to w.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// OpenFile opens the append-only debug log in configDir so the TUI can log
// without writing over the terminal. If configDir is empty, logs are discarded.
func OpenFile(configDir string) (io.WriteCloser, error) {
	if configDir == "" {
		return nopCloser{io.Discard}, nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return os.OpenFile(filepath.Join(configDir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
