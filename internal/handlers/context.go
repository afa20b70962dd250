package handlers

import (
	"context"

	"go.uber.org/zap"
)

// Context keys
type contextKey string

const (
	// LoggerKey is the key for the request-scoped logger in the context
	LoggerKey contextKey = "logger"
)

// NewContextWithLogger adds a request-scoped logger to the context
func NewContextWithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// LoggerFromContext extracts the request-scoped logger from the context,
// defaulting to a no-op logger
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}
