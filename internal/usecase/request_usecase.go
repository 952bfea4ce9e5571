package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
)

// CreateRequestInput describes a request addressed to one donor.
type CreateRequestInput struct {
	SeekerID   string `json:"seeker_id" validate:"required"`
	SeekerName string `json:"seeker_name"`
	DonorID    string `json:"donor_id" validate:"required"`
	DonorName  string `json:"donor_name"`
	BloodType  string `json:"blood_type" validate:"required,bloodtype"`
	Location   string `json:"location"`
}

// RequestsSink receives the full, newest-first list of a live request feed.
type RequestsSink func(requests []*entity.BloodRequest)

// RequestUsecase defines the blood request lifecycle
type RequestUsecase interface {
	// CreateRequest stores a pending request and notifies the donor
	CreateRequest(ctx context.Context, input *CreateRequestInput) (*entity.BloodRequest, error)

	// RespondToRequest accepts or rejects a pending request
	RespondToRequest(ctx context.Context, id string, status entity.RequestStatus, donorPhone string) (*entity.BloodRequest, error)

	// CancelRequest withdraws a pending or accepted request
	CancelRequest(ctx context.Context, id string) (*entity.BloodRequest, error)

	// ArchiveRequest hides an answered request from the active list
	ArchiveRequest(ctx context.Context, id string) (*entity.BloodRequest, error)

	// MarkAllFulfilled closes every pending request of a seeker and returns how many were closed
	MarkAllFulfilled(ctx context.Context, seekerID string) (int, error)

	// WatchDonorInbox streams a donor's pending requests
	WatchDonorInbox(ctx context.Context, donorID string, sink RequestsSink) (repository.Unsubscribe, error)

	// WatchSeekerRequests streams every request a seeker created
	WatchSeekerRequests(ctx context.Context, seekerID string, sink RequestsSink) (repository.Unsubscribe, error)
}
