package log

import (
	"fmt"
	"strings"
)

// Logger is a structured, leveled logger.
type Logger interface {
	// Debug logs a message for low-level debugging.
	// keysAndValues lets you add structured context (e.g., "method", name).
	Debug(msg string, keysAndValues ...any)
	// Info logs routine progress.
	Info(msg string, keysAndValues ...any)
	// Warn logs an unexpected situation the program can continue past.
	Warn(msg string, keysAndValues ...any)
	// Error logs a failure that needs attention.
	Error(msg string, keysAndValues ...any)
	// Fatal logs an unrecoverable failure and may terminate the program.
	Fatal(msg string, keysAndValues ...any)
	// WithKV returns a logger that adds the pair to every future entry.
	WithKV(key string, value any) Logger
	// WithName returns a logger named after a component; names nest with dots.
	WithName(name string) Logger
	// Name returns the logger's name.
	Name() string
	// Sync flushes buffered entries.
	Sync() error
}

// Level is the severity of a log entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// SetValue lets cleanenv parse and validate levels read from the environment.
func (l *Level) SetValue(s string) error {
	switch lvl := Level(strings.ToLower(strings.TrimSpace(s))); lvl {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		*l = lvl
		return nil
	case "":
		*l = LevelInfo
		return nil
	default:
		return fmt.Errorf("unknown log level %q", s)
	}
}
