// Package context carries per-request and per-task values (request ID, dispatcher task ID,
// scoped logger) from the delivery layer down to services and repositories.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID identifies the HTTP request or the request that enqueued a task.
	KeyRequestID ContextKey = "request_id"

	// KeyTaskID identifies the side-effect task handled by the dispatcher.
	KeyTaskID ContextKey = "task_id"

	// KeyLogger holds the scoped *slog.Logger.
	KeyLogger ContextKey = "logger"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"

	// QueryRequestID lets EventSource clients, which cannot set headers, pass a request ID.
	QueryRequestID = "requestId"
)

func valueOf[T any](ctx context.Context, key ContextKey) (T, bool) {
	v, ok := ctx.Value(key).(T)

	return v, ok
}

// GetRequestID extracts the request ID from echo.Context.
// If not found, generates a new UUID.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns the request ID or an empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := valueOf[string](ctx, KeyRequestID)

	return id
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetTaskIDFromContext returns the dispatcher task ID or an empty string.
func GetTaskIDFromContext(ctx context.Context) string {
	id, _ := valueOf[string](ctx, KeyTaskID)

	return id
}

// WithTaskID returns a new context with the dispatcher task ID.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, KeyTaskID, taskID)
}

// GetLogger returns the scoped logger, or nil outside a request or task.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := valueOf[*slog.Logger](ctx, KeyLogger)

	return logger
}

// GetLoggerOrDefault returns the scoped logger, or fallback when none is set.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
