// Package logging builds the slog logger used by the command line.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Options selects level, format and destination.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // text|json
	// File appends to the named file instead of writing to Stderr.
	File string
}

// Logger wraps slog.Logger with the log file it owns, if any.
type Logger struct {
	*slog.Logger
	RunID string
	file  *os.File
}

// New creates a logger tagged with a fresh run_id.
func New(opt Options, stderr io.Writer) (*Logger, error) {
	level, err := ParseLevel(opt.Level)
	if err != nil {
		return nil, err
	}
	out := stderr
	var file *os.File
	if opt.File != "" {
		if file, err = openLogFile(opt.File); err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = file
	}
	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(opt.Format) {
	case "json":
		h = slog.NewJSONHandler(out, hopts)
	case "text", "":
		h = slog.NewTextHandler(out, hopts)
	default:
		if file != nil {
			file.Close()
		}
		return nil, fmt.Errorf("unknown log format %q (use text or json)", opt.Format)
	}
	id := uuid.NewString()
	return &Logger{Logger: slog.New(h).With(slog.String("run_id", id)), RunID: id, file: file}, nil
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel converts a level name to slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
