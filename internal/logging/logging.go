// Package logging wraps the standard library's log.Logger with the
// verbosity filter spec.md §6 asks SENSORHUB_LOG_LEVEL to control. The
// teacher parses a log-level config field but never applies it; this
// package is what closes that gap for real, rather than leaving it
// parsed-and-ignored.
package logging

import (
	"fmt"
	"io"
	"log"
)

// Level orders the four verbosity tiers spec.md §6 names. A message
// below the configured Logger's Level is dropped before formatting.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps the four accepted SENSORHUB_LOG_LEVEL strings (the
// same set config.Validate already checks) to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is a component-prefixed logger gated by a verbosity threshold.
type Logger struct {
	base  *log.Logger
	level Level
}

// New constructs a Logger writing to the process's default log
// destination, in the teacher's log.New(log.Writer(), prefix, flags)
// idiom.
func New(prefix string, level Level) *Logger {
	return NewWithWriter(log.Writer(), prefix, level)
}

// NewWithWriter constructs a Logger writing to w, for tests that want a
// fully silent (io.Discard) or capturable destination.
func NewWithWriter(w io.Writer, prefix string, level Level) *Logger {
	return &Logger{base: log.New(w, prefix, log.LstdFlags|log.Lshortfile), level: level}
}

// Debugf logs a per-message/per-connection detail, the chattiest tier.
func (l *Logger) Debugf(format string, v ...any) { l.logf(LevelDebug, format, v...) }

// Infof logs a routine operational event.
func (l *Logger) Infof(format string, v ...any) { l.logf(LevelInfo, format, v...) }

// Warnf logs a tolerated failure: a degraded but non-fatal condition.
func (l *Logger) Warnf(format string, v ...any) { l.logf(LevelWarn, format, v...) }

// Errorf logs a failure serious enough to matter even at the quietest
// configured level.
func (l *Logger) Errorf(format string, v ...any) { l.logf(LevelError, format, v...) }

func (l *Logger) logf(level Level, format string, v ...any) {
	if level < l.level {
		return
	}
	l.base.Output(3, fmt.Sprintf(format, v...))
}
