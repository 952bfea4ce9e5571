package impl

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/usecase"

	"go.uber.org/fx"
)

// requestService implements the RequestUsecase interface.
type requestService struct {
	requestRepo repository.BloodRequestRepository
	publisher   service.TaskPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// RequestServiceParams holds dependencies for RequestService, injected by Fx.
type RequestServiceParams struct {
	fx.In

	RequestRepo repository.BloodRequestRepository
	Publisher   service.TaskPublisher
	Logger      *slog.Logger
}

// NewRequestService is the constructor for requestService.
func NewRequestService(params RequestServiceParams) usecase.RequestUsecase {
	return &requestService{
		requestRepo: params.RequestRepo,
		publisher:   params.Publisher,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (srv *requestService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// CreateRequest stores a pending request. Duplicates for the same donor are allowed.
func (srv *requestService) CreateRequest(ctx context.Context, input *usecase.CreateRequestInput) (*entity.BloodRequest, error) {
	bloodType, err := parseBloodType(input.BloodType)
	if err != nil {
		return nil, err
	}

	request := &entity.BloodRequest{
		SeekerID:   input.SeekerID,
		SeekerName: input.SeekerName,
		DonorID:    input.DonorID,
		DonorName:  input.DonorName,
		BloodType:  bloodType,
		Status:     entity.RequestPending,
		CreatedAt:  srv.now(),
	}
	if err := srv.requestRepo.CreateRequest(ctx, request); err != nil {
		srv.log(ctx).Error("Failed to create blood request",
			slog.String("seekerID", input.SeekerID),
			slog.String("donorID", input.DonorID),
			slog.Any("error", err))

		return nil, storeError(err, nil, "create blood request")
	}

	srv.enqueue(ctx, &service.TaskEvent{
		Kind:       service.TaskRequestCreated,
		BloodReqID: request.ID,
		SeekerID:   request.SeekerID,
		SeekerName: request.SeekerName,
		DonorIDs:   []string{request.DonorID},
		BloodType:  request.BloodType.String(),
		Location:   input.Location,
	})

	return request, nil
}

// RespondToRequest accepts or rejects a pending request. The donor phone is shared only on acceptance.
func (srv *requestService) RespondToRequest(ctx context.Context, id string, status entity.RequestStatus, donorPhone string) (*entity.BloodRequest, error) {
	if status != entity.RequestAccepted && status != entity.RequestRejected {
		return nil, domainerrors.ErrValidationFailed.WithDetails("response must be accepted or rejected")
	}

	request, err := srv.transition(ctx, id, status, func(r *entity.BloodRequest) {
		if status == entity.RequestAccepted && donorPhone != "" {
			r.DonorPhone = donorPhone
		}
	})
	if err != nil {
		return nil, err
	}

	if status == entity.RequestAccepted {
		srv.enqueue(ctx, &service.TaskEvent{
			Kind:       service.TaskRequestAccepted,
			BloodReqID: request.ID,
			SeekerID:   request.SeekerID,
			SeekerName: request.SeekerName,
			DonorIDs:   []string{request.DonorID},
			BloodType:  request.BloodType.String(),
		})
	}

	return request, nil
}

// CancelRequest withdraws a pending or accepted request
func (srv *requestService) CancelRequest(ctx context.Context, id string) (*entity.BloodRequest, error) {
	return srv.transition(ctx, id, entity.RequestCancelled, nil)
}

// ArchiveRequest hides an answered request from the active list
func (srv *requestService) ArchiveRequest(ctx context.Context, id string) (*entity.BloodRequest, error) {
	return srv.transition(ctx, id, entity.RequestArchived, nil)
}

// MarkAllFulfilled closes the seeker's pending requests one by one and stops at the first write failure.
func (srv *requestService) MarkAllFulfilled(ctx context.Context, seekerID string) (int, error) {
	pending, err := srv.requestRepo.FindRequestsBySeeker(ctx, seekerID, entity.RequestPending)
	if err != nil {
		return 0, storeError(err, nil, "find pending requests")
	}

	closed := 0
	for _, request := range pending {
		if err := request.Transition(entity.RequestClosed, srv.now()); err != nil {
			return closed, transitionError(err)
		}
		if err := srv.requestRepo.UpdateRequest(ctx, request); err != nil {
			srv.log(ctx).Error("Failed to close request",
				slog.String("requestID", request.ID),
				slog.Int("closed", closed),
				slog.Any("error", err))

			return closed, storeError(err, domainerrors.ErrRequestNotFound, request.ID)
		}
		closed++
	}

	srv.log(ctx).Info("Requests marked fulfilled", slog.String("seekerID", seekerID), slog.Int("count", closed))

	return closed, nil
}

// WatchDonorInbox streams a donor's pending requests
func (srv *requestService) WatchDonorInbox(ctx context.Context, donorID string, sink usecase.RequestsSink) (repository.Unsubscribe, error) {
	unsubscribe, err := srv.requestRepo.WatchDonorRequests(ctx, donorID, entity.RequestPending, sortedRequests(sink))
	if err != nil {
		return nil, storeError(err, nil, "watch donor inbox")
	}

	return unsubscribe, nil
}

// WatchSeekerRequests streams every request a seeker created
func (srv *requestService) WatchSeekerRequests(ctx context.Context, seekerID string, sink usecase.RequestsSink) (repository.Unsubscribe, error) {
	unsubscribe, err := srv.requestRepo.WatchSeekerRequests(ctx, seekerID, sortedRequests(sink))
	if err != nil {
		return nil, storeError(err, nil, "watch seeker requests")
	}

	return unsubscribe, nil
}

func sortedRequests(sink usecase.RequestsSink) repository.Listener[*entity.BloodRequest] {
	return func(snap repository.Snapshot[*entity.BloodRequest]) {
		requests := slices.Clone(snap.Docs)
		entity.SortRequestsNewestFirst(requests)
		sink(requests)
	}
}

// transition loads the request, applies the status change and writes it. Rejected changes write nothing.
func (srv *requestService) transition(ctx context.Context, id string, next entity.RequestStatus, mutate func(*entity.BloodRequest)) (*entity.BloodRequest, error) {
	request, err := srv.requestRepo.FindRequestByID(ctx, id)
	if err != nil {
		return nil, storeError(err, domainerrors.ErrRequestNotFound, id)
	}

	if err := request.Transition(next, srv.now()); err != nil {
		srv.log(ctx).Warn("Rejected request transition", slog.String("requestID", id), slog.Any("error", err))

		return nil, transitionError(err)
	}
	if mutate != nil {
		mutate(request)
	}

	if err := srv.requestRepo.UpdateRequest(ctx, request); err != nil {
		srv.log(ctx).Error("Failed to update request", slog.String("requestID", id), slog.Any("error", err))

		return nil, storeError(err, domainerrors.ErrRequestNotFound, id)
	}

	return request, nil
}

func (srv *requestService) enqueue(ctx context.Context, event *service.TaskEvent) {
	enqueueTask(ctx, srv.publisher, srv.log(ctx), event)
}
