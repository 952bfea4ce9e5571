package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bloodlink/config"
	deliverycontext "bloodlink/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

const eventStreamContentType = "text/event-stream"

// LoggerMiddleware logs finished requests. Plain requests are logged only in debug mode;
// live feeds (SSE) are always logged when they close since they can stay open for hours.
type LoggerMiddleware struct {
	logger    *slog.Logger
	debug     bool
	skipPaths map[string]struct{}
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger:    logger,
		debug:     config.Env.Debug,
		skipPaths: map[string]struct{}{"/health": {}},
	}
}

// Handle processes request logging
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, skip := m.skipPaths[c.Path()]; skip {
			return next(c)
		}

		start := time.Now()
		err := next(c)

		stream := strings.HasPrefix(c.Response().Header().Get(echo.HeaderContentType), eventStreamContentType)
		if m.debug || stream {
			m.logRequest(c, start, stream, err)
		}

		return err
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, stream bool, err error) {
	req := c.Request()
	res := c.Response()

	fields := []slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", res.Status),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}
	if req.URL.RawQuery != "" {
		fields = append(fields, slog.String("query", req.URL.RawQuery))
	}
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	msg := "HTTP Request"
	if stream {
		msg = "SSE stream closed"
		fields = append(fields, slog.Int64("bytes_sent", res.Size))
	}

	logLevel := slog.LevelInfo
	if res.Status >= 400 {
		logLevel = slog.LevelWarn
	}
	if res.Status >= 500 {
		logLevel = slog.LevelError
	}

	m.logger.LogAttrs(context.Background(), logLevel, msg, fields...)
}
