package log

import (
	"log/slog"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

// SetDefaultLogger sets the logger behind the package level functions and every Component.  nil drops all records.
func SetDefaultLogger(logger *Logger) {
	defaultLogger.Store(logger)
}

// DefaultLogger returns the current default logger, nil if none is set
func DefaultLogger() *Logger {
	return defaultLogger.Load()
}

// Component is a handle for a named part of the application.  Every record it writes carries a "component"
// attribute.  The default logger is looked up per call, so a Component may be created before logging is set up.
type Component string

func (c Component) Trace(msg string, args ...any) { c.log(LevelTrace, msg, args) }
func (c Component) Debug(msg string, args ...any) { c.log(slog.LevelDebug, msg, args) }
func (c Component) Info(msg string, args ...any)  { c.log(slog.LevelInfo, msg, args) }
func (c Component) Warn(msg string, args ...any)  { c.log(slog.LevelWarn, msg, args) }
func (c Component) Error(msg string, args ...any) { c.log(slog.LevelError, msg, args) }

func (c Component) log(level slog.Level, msg string, args []any) {
	emit(level, msg, append([]any{"component", string(c)}, args...))
}

// Trace logs below debug using the default logger.  Only written when the configured level is trace.
func Trace(msg string, args ...any) { emit(LevelTrace, msg, args) }

// Debug logs at debug level using the default logger
func Debug(msg string, args ...any) { emit(slog.LevelDebug, msg, args) }

// Info logs at info level using the default logger
func Info(msg string, args ...any) { emit(slog.LevelInfo, msg, args) }

// Warn logs at warn level using the default logger
func Warn(msg string, args ...any) { emit(slog.LevelWarn, msg, args) }

// Error logs at error level using the default logger
func Error(msg string, args ...any) { emit(slog.LevelError, msg, args) }

func emit(level slog.Level, msg string, args []any) {
	if logger := DefaultLogger(); logger != nil {
		logger.log(level, msg, args)
	}
}
