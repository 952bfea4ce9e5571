package service

import (
	"time"

	"bloodlink/internal/domain/entity"
)

// SessionEventType names an event streamed to a chat client.
type SessionEventType string

const (
	SessionEventMessage  SessionEventType = "message"
	SessionEventNavigate SessionEventType = "navigate"
)

// SessionEvent is one update of a chat session.
type SessionEvent struct {
	Type    SessionEventType    `json:"type"`
	Message *entity.ChatMessage `json:"message,omitempty"`
	Path    string              `json:"path,omitempty"`
}

// SessionStore keeps live chat sessions and fans their events out to subscribers.
type SessionStore interface {
	// Create registers a new session.
	Create(conv *entity.Conversation)

	// Update runs fn with exclusive access to the session.
	Update(id string, fn func(conv *entity.Conversation) error) error

	// Get returns a copy of the session.
	Get(id string) (*entity.Conversation, bool)

	// Publish sends an event to every subscriber of the session.
	Publish(id string, event SessionEvent)

	// Subscribe streams the session's events until the returned func is called.
	// The channel is closed when the session expires.
	Subscribe(id string) (<-chan SessionEvent, func(), bool)

	// ExpireIdle removes sessions without activity since cutoff and returns how many were removed.
	ExpireIdle(cutoff time.Time) int
}
