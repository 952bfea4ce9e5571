package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
)

// MatchEventType tells the client how to surface a match.
type MatchEventType string

const (
	// MatchEventAlert is shown in-page when system notifications are unavailable.
	MatchEventAlert MatchEventType = "alert"
	// MatchEventPermissionRequest asks the client to prompt for notification permission.
	MatchEventPermissionRequest MatchEventType = "permission_request"
)

// MatchEvent is streamed to the seeker's match session.
type MatchEvent struct {
	Type         MatchEventType   `json:"type"`
	EntryID      string           `json:"entry_id,omitempty"`
	HospitalID   string           `json:"hospital_id,omitempty"`
	HospitalName string           `json:"hospital_name,omitempty"`
	BloodType    entity.BloodType `json:"blood_type,omitempty"`
	Address      string           `json:"address,omitempty"`
	Message      string           `json:"message,omitempty"`
}

// MatchSink receives match events synchronously, in inventory change order.
type MatchSink func(event MatchEvent)

// MatcherUsecase matches a seeker's watchlist against live inventory changes
type MatcherUsecase interface {
	// WatchMatches starts a match session for the seeker
	WatchMatches(ctx context.Context, seekerID string, sink MatchSink) (repository.Unsubscribe, error)
}
