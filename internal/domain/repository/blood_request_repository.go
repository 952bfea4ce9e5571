package repository

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// BloodRequestRepository defines the interface for blood request operations.
type BloodRequestRepository interface {
	// CreateRequest persists a new request and assigns its ID.
	CreateRequest(ctx context.Context, request *entity.BloodRequest) error

	// FindRequestByID retrieves a request.
	FindRequestByID(ctx context.Context, id string) (*entity.BloodRequest, error)

	// UpdateRequest merges status, donorPhone, respondedAt and updatedAt into the stored request.
	UpdateRequest(ctx context.Context, request *entity.BloodRequest) error

	// FindRequestsBySeeker returns a seeker's requests with the given status.
	FindRequestsBySeeker(ctx context.Context, seekerID string, status entity.RequestStatus) ([]*entity.BloodRequest, error)

	// WatchDonorRequests subscribes to a donor's requests with the given status.
	WatchDonorRequests(ctx context.Context, donorID string, status entity.RequestStatus, listener Listener[*entity.BloodRequest]) (Unsubscribe, error)

	// WatchSeekerRequests subscribes to every request created by a seeker.
	WatchSeekerRequests(ctx context.Context, seekerID string, listener Listener[*entity.BloodRequest]) (Unsubscribe, error)
}
