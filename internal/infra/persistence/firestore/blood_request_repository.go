package firestore

import (
	"context"
	"log/slog"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
)

type bloodRequestRepository struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewBloodRequestRepository is the constructor for bloodRequestRepository.
func NewBloodRequestRepository(client *firestore.Client, logger *slog.Logger) repository.BloodRequestRepository {
	return &bloodRequestRepository{client: client, logger: logger}
}

func (repo *bloodRequestRepository) requests() *firestore.CollectionRef {
	return repo.client.Collection(collectionRequests)
}

// CreateRequest persists a new request under a generated ID.
func (repo *bloodRequestRepository) CreateRequest(ctx context.Context, request *entity.BloodRequest) error {
	ref := repo.requests().NewDoc()
	if _, err := ref.Create(ctx, fromRequest(request)); err != nil {
		return translate(err, "failed to create request")
	}
	request.ID = ref.ID

	return nil
}

// FindRequestByID retrieves a request.
func (repo *bloodRequestRepository) FindRequestByID(ctx context.Context, id string) (*entity.BloodRequest, error) {
	snap, err := repo.requests().Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "failed to find request")
	}

	return toRequest(snap)
}

// UpdateRequest merges the status fields into the stored request.
func (repo *bloodRequestRepository) UpdateRequest(ctx context.Context, request *entity.BloodRequest) error {
	updates := []firestore.Update{{Path: "status", Value: string(request.Status)}}
	if request.RespondedAt != nil {
		updates = append(updates, firestore.Update{Path: "respondedAt", Value: *request.RespondedAt})
	}
	if request.UpdatedAt != nil {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: *request.UpdatedAt})
	}
	if request.DonorPhone != "" {
		updates = append(updates, firestore.Update{Path: "donorPhone", Value: request.DonorPhone})
	}

	_, err := repo.requests().Doc(request.ID).Update(ctx, updates)

	return translate(err, "failed to update request")
}

// FindRequestsBySeeker returns a seeker's requests with the given status.
func (repo *bloodRequestRepository) FindRequestsBySeeker(ctx context.Context, seekerID string, status entity.RequestStatus) ([]*entity.BloodRequest, error) {
	q := repo.requests().
		Where("seekerId", "==", seekerID).
		Where("status", "==", string(status))

	return queryAll(ctx, q, toRequest)
}

// WatchDonorRequests subscribes to a donor's requests with the given status.
func (repo *bloodRequestRepository) WatchDonorRequests(ctx context.Context, donorID string, status entity.RequestStatus, listener repository.Listener[*entity.BloodRequest]) (repository.Unsubscribe, error) {
	q := repo.requests().
		Where("donorId", "==", donorID).
		Where("status", "==", string(status))

	return watchQuery(ctx, repo.logger, collectionRequests, q, toRequest, listener)
}

// WatchSeekerRequests subscribes to every request created by a seeker.
func (repo *bloodRequestRepository) WatchSeekerRequests(ctx context.Context, seekerID string, listener repository.Listener[*entity.BloodRequest]) (repository.Unsubscribe, error) {
	q := repo.requests().Where("seekerId", "==", seekerID)

	return watchQuery(ctx, repo.logger, collectionRequests, q, toRequest, listener)
}
