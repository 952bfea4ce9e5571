package entity

import (
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ConversationState is the position of a chat session in the intake dialogue.
type ConversationState string

const (
	ConversationNormal             ConversationState = "normal"
	ConversationAwaitingBloodGroup ConversationState = "emergency.awaiting_blood_group"
	ConversationAwaitingCity       ConversationState = "emergency.awaiting_city"
)

//nolint:gochecknoglobals
var conversationTransitions = transitionTable[ConversationState]{
	ConversationNormal:             {ConversationNormal, ConversationAwaitingBloodGroup},
	ConversationAwaitingBloodGroup: {ConversationAwaitingCity},
	ConversationAwaitingCity:       {ConversationNormal},
}

// IsEmergency reports whether the session is collecting emergency search data.
func (s ConversationState) IsEmergency() bool {
	return s == ConversationAwaitingBloodGroup || s == ConversationAwaitingCity
}

// ChatSender identifies who wrote a transcript message.
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is one line of a transcript.
type ChatMessage struct {
	Sender ChatSender `json:"sender"`
	Text   string     `json:"text"`
	SentAt time.Time  `json:"sent_at"`
}

// Conversation is a chat session with the intake assistant.
type Conversation struct {
	ID           string            `json:"id"`
	State        ConversationState `json:"state"`
	BloodGroup   string            `json:"blood_group,omitempty"`
	City         string            `json:"city,omitempty"`
	Transcript   []ChatMessage     `json:"transcript"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`
}

// MoveTo changes the state or returns a *TransitionError.
func (c *Conversation) MoveTo(next ConversationState) error {
	if err := conversationTransitions.check("conversation", c.State, next); err != nil {
		return err
	}
	c.State = next

	return nil
}

// Append adds a message to the transcript.
func (c *Conversation) Append(sender ChatSender, text string, at time.Time) ChatMessage {
	msg := ChatMessage{Sender: sender, Text: text, SentAt: at}
	c.Transcript = append(c.Transcript, msg)
	c.LastActivity = at

	return msg
}

// Snapshot returns a copy safe to hand out while the session keeps changing.
func (c *Conversation) Snapshot() *Conversation {
	cp := *c
	cp.Transcript = slices.Clone(c.Transcript)

	return &cp
}

// NormalizeCity trims s and upper-cases its first rune, lower-casing the rest.
// Multi-word names keep only their first letter capitalized ("new york" becomes "New york").
func NormalizeCity(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
