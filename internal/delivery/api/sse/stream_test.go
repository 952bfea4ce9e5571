package sse

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStream(t *testing.T) (*Stream, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/stream", nil), rec)

	return New(c, slog.New(slog.NewTextHandler(io.Discard, nil))), rec
}

func runFor(t *testing.T, s *Stream, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, s.Run(ctx))
}

func TestStream_NothingWrittenBeforeRun(t *testing.T) {
	s, rec := newStream(t)
	s.Publish("requests", []string{})

	assert.False(t, rec.Flushed)
	assert.Empty(t, rec.Body.String())
}

func TestStream_RunSendsHeadersAndConnectedEvent(t *testing.T) {
	s, rec := newStream(t)
	s.heartbeat = time.Hour

	runFor(t, s, 20*time.Millisecond)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "no-cache", rec.Header().Get(echo.HeaderCacheControl))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "event: connected\ndata: {\"timestamp\":"))
}

func TestStream_RunWritesQueuedEventsInOrder(t *testing.T) {
	s, rec := newStream(t)
	s.heartbeat = time.Hour

	s.Publish("requests", []string{"r1", "r2"})
	s.Publish("alert", map[string]string{"message": "New Match"})

	runFor(t, s, 100*time.Millisecond)

	body := rec.Body.String()
	assert.Contains(t, body, "event: requests\ndata: [\"r1\",\"r2\"]\n\n")
	assert.Contains(t, body, "event: alert\ndata: {\"message\":\"New Match\"}\n\n")
	assert.Less(t, strings.Index(body, "event: connected"), strings.Index(body, "event: requests"))
	assert.Less(t, strings.Index(body, "event: requests"), strings.Index(body, "event: alert"))
}

func TestStream_Heartbeat(t *testing.T) {
	s, rec := newStream(t)
	s.heartbeat = 10 * time.Millisecond

	runFor(t, s, 200*time.Millisecond)

	assert.Contains(t, rec.Body.String(), "event: heartbeat\n")
}

func TestStream_PublishDropsWhenFull(t *testing.T) {
	s, _ := newStream(t)

	for i := 0; i < eventBuffer+5; i++ {
		s.Publish("tick", i)
	}
	assert.Len(t, s.events, eventBuffer)
}

func TestStream_PublishWaitKeepsBurst(t *testing.T) {
	s, rec := newStream(t)
	s.heartbeat = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	total := eventBuffer * 3
	for i := 0; i < total; i++ {
		require.True(t, s.PublishWait(context.Background(), "tick", i))
	}
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, total, strings.Count(rec.Body.String(), "event: tick\n"))
}

func TestStream_PublishWaitStopsWhenRunEnds(t *testing.T) {
	s, _ := newStream(t)
	runFor(t, s, 10*time.Millisecond)

	for i := 0; i < eventBuffer; i++ {
		s.Publish("tick", i)
	}
	assert.False(t, s.PublishWait(context.Background(), "tick", "late"))
}

func TestStream_PublishWaitHonorsContext(t *testing.T) {
	s, _ := newStream(t)
	for i := 0; i < eventBuffer; i++ {
		s.Publish("tick", i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, s.PublishWait(ctx, "tick", "late"))
}

func TestStream_NewWithBufferHoldsBurst(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/stream", nil), httptest.NewRecorder())
	s := NewWithBuffer(c, slog.New(slog.NewTextHandler(io.Discard, nil)), 4*eventBuffer)

	for i := 0; i < 4*eventBuffer; i++ {
		s.Publish("match", i)
	}
	assert.Len(t, s.events, 4*eventBuffer)

	s.Publish("match", "overflow")
	assert.Len(t, s.events, 4*eventBuffer)
}
