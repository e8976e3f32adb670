// Package loggy provides structured logging for the Scalpel application,
// wrapping log/slog with a global logger and a small instance API.
package loggy

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Config configures the logger
type Config struct {
	Level      slog.Level
	Format     string // "json" or "text"
	Output     string // "stdout", "stderr", or a file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// DefaultConfig returns a default configuration for the logger
func DefaultConfig() Config {
	return Config{
		Level:      slog.LevelInfo,
		Format:     "text",
		Output:     "stderr",
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger with additional context
type Logger struct {
	slogger *slog.Logger
}

// Init initializes the global logger
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		var output io.Writer
		switch cfg.Output {
		case "stdout":
			output = os.Stdout
		case "stderr":
			output = os.Stderr
		default:
			// Treat as file path
			dir := filepath.Dir(cfg.Output)
			if err = os.MkdirAll(dir, 0755); err != nil {
				err = fmt.Errorf("failed to create log directory: %w", err)
				return
			}

			var file *os.File
			file, err = os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				err = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			output = file
		}

		handlerOpts := &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		}

		if cfg.TimeFormat != "" {
			handlerOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					if t, ok := a.Value.Any().(time.Time); ok {
						return slog.String(a.Key, t.Format(cfg.TimeFormat))
					}
				}
				return a
			}
		}

		var handler slog.Handler
		if cfg.Format == "json" {
			handler = slog.NewJSONHandler(output, handlerOpts)
		} else {
			handler = slog.NewTextHandler(output, handlerOpts)
		}

		globalLogger = &Logger{
			slogger: slog.New(handler),
		}
	})

	// If there was an error initializing, create a noop logger as fallback
	if err != nil {
		NewNoopLogger()
	}

	return err
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// NewNoopLogger creates and sets a logger that discards all output, useful for testing
func NewNoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	noopLogger := &Logger{
		slogger: slog.New(handler),
	}

	// Set this as the global logger
	SetGlobalLogger(noopLogger)

	return noopLogger
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.Debug(msg, args...)
	}
}

// Info logs at info level
func Info(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.Info(msg, args...)
	}
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.Warn(msg, args...)
	}
}

// Error logs at error level
func Error(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.Error(msg, args...)
	}
}

// With returns a new Logger with the given attributes
func With(args ...any) *Logger {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.With(args...)
}

// Logger instance methods

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.slogger != nil {
		l.slogger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.slogger != nil {
		l.slogger.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l != nil && l.slogger != nil {
		l.slogger.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l != nil && l.slogger != nil {
		l.slogger.Error(msg, args...)
	}
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.slogger == nil {
		return l
	}
	return &Logger{
		slogger: l.slogger.With(args...),
	}
}

// WithGroup returns a new Logger with the given group
func (l *Logger) WithGroup(name string) *Logger {
	if l == nil || l.slogger == nil {
		return l
	}
	return &Logger{
		slogger: l.slogger.WithGroup(name),
	}
}

// Handler returns the underlying slog.Handler
func (l *Logger) Handler() slog.Handler {
	return l.slogger.Handler()
}
