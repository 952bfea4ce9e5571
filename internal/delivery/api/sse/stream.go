// Package sse writes Server-Sent Events over an echo response.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	// HeartbeatInterval keeps idle connections open through proxies.
	HeartbeatInterval = 30 * time.Second

	eventBuffer = 32

	EventConnected = "connected"
	EventHeartbeat = "heartbeat"
)

// Event is one named SSE frame. Data is encoded as JSON.
type Event struct {
	Name string
	Data any
}

// Stream owns the response of one SSE client. Publish may be called from any goroutine;
// only Run writes to the connection.
type Stream struct {
	res       *echo.Response
	events    chan Event
	done      chan struct{}
	heartbeat time.Duration
	logger    *slog.Logger
}

// New prepares a stream for the client of c. Nothing is written until Run.
func New(c echo.Context, logger *slog.Logger) *Stream {
	return NewWithBuffer(c, logger, eventBuffer)
}

// NewWithBuffer is New with room for size queued events.
func NewWithBuffer(c echo.Context, logger *slog.Logger, size int) *Stream {
	return &Stream{
		res:       c.Response(),
		events:    make(chan Event, max(size, 1)),
		done:      make(chan struct{}),
		heartbeat: HeartbeatInterval,
		logger:    logger,
	}
}

// Publish queues an event. Events are dropped when the client cannot keep up.
func (s *Stream) Publish(name string, data any) {
	select {
	case s.events <- Event{Name: name, Data: data}:
	default:
		s.logger.Warn("Dropping SSE event for slow client", slog.String("event", name))
	}
}

// PublishWait queues an event, waiting for room instead of dropping it.
// It reports false when ctx ends or Run has returned first.
func (s *Stream) PublishWait(ctx context.Context, name string, data any) bool {
	select {
	case s.events <- Event{Name: name, Data: data}:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Run sends the SSE headers, then writes queued events and heartbeats until ctx ends
// or the client goes away.
func (s *Stream) Run(ctx context.Context) error {
	defer close(s.done)

	header := s.res.Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set(echo.HeaderCacheControl, "no-cache")
	header.Set(echo.HeaderConnection, "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	// Long-lived streams are exempt from the server write timeout.
	_ = http.NewResponseController(s.res.Writer).SetWriteDeadline(time.Time{})

	s.res.WriteHeader(http.StatusOK)
	if err := s.write(Event{Name: EventConnected, Data: map[string]any{"timestamp": time.Now()}}); err != nil {
		return err
	}

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.write(Event{Name: EventHeartbeat, Data: map[string]any{"timestamp": time.Now()}}); err != nil {
				return err
			}
		case ev := <-s.events:
			if err := s.write(ev); err != nil {
				return err
			}
		}
	}
}

func (s *Stream) write(ev Event) error {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return errors.Wrapf(err, "marshal %s event", ev.Name)
	}
	if _, err := fmt.Fprintf(s.res, "event: %s\ndata: %s\n\n", ev.Name, payload); err != nil {
		return errors.Wrap(err, "write sse event")
	}
	s.res.Flush()

	return nil
}
