package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelTrace sits below debug.  mpv reports its position several times a second, which is too noisy for debug.
const LevelTrace = slog.LevelDebug - 4

// Logger writes structured JSON logs to a file.  The terminal belongs to the TUI, so nothing is logged to stdout.
type Logger struct {
	logger *slog.Logger
	file   *os.File
}

// Config contains logging information used to set up the logging framework
type Config struct {
	// Log Level.  One of: trace, debug, info, warn, error
	Level string
	// Path to the file to log into
	FilePath string
}

// New opens (or creates) the log file, including its directory, and returns a logger appending to it
func New(config Config) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0700); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:       parseLogLevel(config.Level),
		ReplaceAttr: renameTraceLevel,
	})

	return &Logger{
		logger: slog.New(handler),
		file:   file,
	}, nil
}

// renameTraceLevel prints LevelTrace as TRACE rather than slog's default DEBUG-4
func renameTraceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

// With returns a logger that adds the given attributes to every record.  The returned logger shares the file of its
// parent and must not be closed.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// Close the log file.  Safe to call more than once.
func (l *Logger) Close() {
	if l.file == nil {
		return
	}
	if err := l.file.Close(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error closing logger: %v\n", err)
	}
	l.file = nil
}

func (l *Logger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *Logger) log(level slog.Level, msg string, args []any) {
	l.logger.Log(context.Background(), level, msg, args...)
}

// parseLogLevel converts a configured level name into a slog level.  Unknown names fall back to info.
func parseLogLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "trace":
		return LevelTrace
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
