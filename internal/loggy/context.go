package loggy

import (
	"context"
)

type contextKey string

const loggerKey contextKey = "logger"

// FromContext retrieves the logger from the context
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return globalLogger
	}

	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}

	return globalLogger
}

// WithLogger returns a new context with the logger attached
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}
