package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/service"
)

// IntakeUsecase drives the intake chat assistant
type IntakeUsecase interface {
	// StartSession opens a chat session with the greeting message
	StartSession(ctx context.Context) (*entity.Conversation, error)

	// GetSession returns the current transcript and state
	GetSession(ctx context.Context, id string) (*entity.Conversation, error)

	// SendMessage records the user's message and schedules the assistant's reply
	SendMessage(ctx context.Context, id, text string) (*entity.ChatMessage, error)

	// Subscribe streams message and navigate events of a session
	Subscribe(ctx context.Context, id string) (<-chan service.SessionEvent, func(), error)

	// ExpireIdleSessions drops sessions idle for longer than the configured TTL
	ExpireIdleSessions(ctx context.Context) int
}
