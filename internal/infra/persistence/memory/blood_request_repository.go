package memory

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"github.com/google/uuid"
)

type bloodRequestRepository struct {
	requests *collection[*entity.BloodRequest]
}

// NewBloodRequestRepository returns the blood request repository of the store.
func NewBloodRequestRepository(store *Store) repository.BloodRequestRepository {
	return &bloodRequestRepository{requests: store.requests}
}

func (repo *bloodRequestRepository) CreateRequest(_ context.Context, request *entity.BloodRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}

	return repo.requests.insert(request.ID, request)
}

func (repo *bloodRequestRepository) FindRequestByID(_ context.Context, id string) (*entity.BloodRequest, error) {
	return repo.requests.get(id)
}

func (repo *bloodRequestRepository) UpdateRequest(_ context.Context, request *entity.BloodRequest) error {
	return repo.requests.update(request.ID, func(r *entity.BloodRequest) error {
		r.Status = request.Status
		r.RespondedAt = request.RespondedAt
		r.UpdatedAt = request.UpdatedAt
		if request.DonorPhone != "" {
			r.DonorPhone = request.DonorPhone
		}

		return nil
	})
}

func (repo *bloodRequestRepository) FindRequestsBySeeker(_ context.Context, seekerID string, status entity.RequestStatus) ([]*entity.BloodRequest, error) {
	return repo.requests.filter(func(r *entity.BloodRequest) bool {
		return r.SeekerID == seekerID && r.Status == status
	})
}

func (repo *bloodRequestRepository) WatchDonorRequests(ctx context.Context, donorID string, status entity.RequestStatus, listener repository.Listener[*entity.BloodRequest]) (repository.Unsubscribe, error) {
	return repo.requests.watch(ctx, func(r *entity.BloodRequest) bool {
		return r.DonorID == donorID && r.Status == status
	}, listener)
}

func (repo *bloodRequestRepository) WatchSeekerRequests(ctx context.Context, seekerID string, listener repository.Listener[*entity.BloodRequest]) (repository.Unsubscribe, error) {
	return repo.requests.watch(ctx, func(r *entity.BloodRequest) bool {
		return r.SeekerID == seekerID
	}, listener)
}
