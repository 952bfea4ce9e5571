// Package session keeps live intake chat sessions in memory and fans their events out to SSE clients.
package session

import (
	"log/slog"
	"sync"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/service"
)

const subscriberBuffer = 16

type liveSession struct {
	mu          sync.Mutex
	conv        *entity.Conversation
	subscribers map[chan service.SessionEvent]struct{}
	closed      bool
}

// close ends every subscriber stream. Callers hold s.mu.
func (s *liveSession) close() {
	for ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, ch)
	}
	s.closed = true
}

// Hub is the in-memory SessionStore. It also acts as the Navigator of the intake assistant.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession
	logger   *slog.Logger
}

// NewHub creates an empty session hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*liveSession),
		logger:   logger,
	}
}

// NewSessionStore exposes the hub as a SessionStore.
func NewSessionStore(hub *Hub) service.SessionStore {
	return hub
}

// NewNavigator exposes the hub as a Navigator.
func NewNavigator(hub *Hub) service.Navigator {
	return hub
}

func (h *Hub) lookup(id string) (*liveSession, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]

	return s, ok
}

func (h *Hub) Create(conv *entity.Conversation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[conv.ID] = &liveSession{
		conv:        conv,
		subscribers: make(map[chan service.SessionEvent]struct{}),
	}
}

func (h *Hub) Update(id string, fn func(conv *entity.Conversation) error) error {
	s, ok := h.lookup(id)
	if !ok {
		return domainerrors.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.conv)
}

func (h *Hub) Get(id string) (*entity.Conversation, bool) {
	s, ok := h.lookup(id)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conv.Snapshot(), true
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (h *Hub) Publish(id string, event service.SessionEvent) {
	s, ok := h.lookup(id)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Warn("Dropping session event for slow subscriber",
				slog.String("sessionID", id),
				slog.String("type", string(event.Type)))
		}
	}
}

func (h *Hub) Subscribe(id string) (<-chan service.SessionEvent, func(), bool) {
	s, ok := h.lookup(id)
	if !ok {
		return nil, nil, false
	}

	ch := make(chan service.SessionEvent, subscriberBuffer)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return nil, nil, false
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
		})
	}

	return ch, cancel, true
}

// NavigateTo streams a navigate event to the session's clients.
func (h *Hub) NavigateTo(sessionID, path string) {
	h.Publish(sessionID, service.SessionEvent{Type: service.SessionEventNavigate, Path: path})
}

// ExpireIdle closes the subscriber channels of every session it removes.
func (h *Hub) ExpireIdle(cutoff time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	expired := 0
	for id, s := range h.sessions {
		s.mu.Lock()
		idle := s.conv.LastActivity.Before(cutoff)
		if idle {
			s.close()
		}
		s.mu.Unlock()
		if !idle {
			continue
		}
		delete(h.sessions, id)
		expired++
	}

	return expired
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions)
}
