package impl

import (
	"context"
	"log/slog"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/usecase"

	"go.uber.org/fx"
)

const broadcastAnyBloodType = "Any"

// broadcastService implements the BroadcastUsecase interface.
type broadcastService struct {
	requestRepo repository.BloodRequestRepository
	userRepo    repository.UserRepository
	publisher   service.TaskPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// BroadcastServiceParams holds dependencies for BroadcastService, injected by Fx.
type BroadcastServiceParams struct {
	fx.In

	RequestRepo repository.BloodRequestRepository
	UserRepo    repository.UserRepository
	Publisher   service.TaskPublisher
	Logger      *slog.Logger
}

// NewBroadcastService is the constructor for broadcastService.
func NewBroadcastService(params BroadcastServiceParams) usecase.BroadcastUsecase {
	return &broadcastService{
		requestRepo: params.RequestRepo,
		userRepo:    params.UserRepo,
		publisher:   params.Publisher,
		logger:      params.Logger,
		now:         time.Now,
	}
}

// Broadcast writes one pending request per known donor, then enqueues a single email task for the donors
// that got one. Unknown donors, and donors without a blood type when none is requested, are reported as failed.
// It fails when no donor exists or every request write failed.
func (srv *broadcastService) Broadcast(ctx context.Context, input *usecase.BroadcastInput) (*usecase.BroadcastResult, error) {
	logger := loggerFrom(ctx, srv.logger).With(slog.String("seekerID", input.SeekerID))
	result := &usecase.BroadcastResult{Requests: []*entity.BloodRequest{}}
	if len(input.DonorIDs) == 0 {
		return result, nil
	}

	var requested entity.BloodType
	if input.BloodType != "" {
		bt, err := parseBloodType(input.BloodType)
		if err != nil {
			return nil, err
		}
		requested = bt
	}

	donors, err := srv.userRepo.FindUsersByIDs(ctx, input.DonorIDs)
	if err != nil {
		return nil, storeError(err, nil, "find broadcast donors")
	}
	byID := make(map[string]*entity.User, len(donors))
	for _, d := range donors {
		byID[d.UID] = d
	}

	var (
		lastErr  error
		notified []string
	)
	for _, donorID := range input.DonorIDs {
		donor, ok := byID[donorID]
		if !ok {
			logger.Warn("Skipping unknown broadcast donor", slog.String("donorID", donorID))
			result.FailedDonors = append(result.FailedDonors, donorID)

			continue
		}
		bloodType := requested
		if bloodType == "" && donor.DonorProfile != nil {
			bloodType = donor.DonorProfile.BloodType
		}
		if !bloodType.IsValid() {
			logger.Warn("Skipping broadcast donor without blood type", slog.String("donorID", donorID))
			result.FailedDonors = append(result.FailedDonors, donorID)

			continue
		}

		request := &entity.BloodRequest{
			SeekerID:   input.SeekerID,
			SeekerName: input.SeekerName,
			DonorID:    donorID,
			DonorName:  donor.DisplayName("Donor"),
			BloodType:  bloodType,
			Status:     entity.RequestPending,
			CreatedAt:  srv.now(),
		}
		if err := srv.requestRepo.CreateRequest(ctx, request); err != nil {
			logger.Warn("Failed to create broadcast request", slog.String("donorID", donorID), slog.Any("error", err))
			result.FailedDonors = append(result.FailedDonors, donorID)
			lastErr = err

			continue
		}
		result.Requests = append(result.Requests, request)
		notified = append(notified, donorID)
	}

	if len(result.Requests) == 0 {
		if lastErr == nil {
			return nil, domainerrors.ErrUserNotFound.WithDetails("no broadcast donor can receive a request")
		}
		logger.Error("Broadcast failed for every donor", slog.Int("donors", len(input.DonorIDs)), slog.Any("error", lastErr))

		return nil, domainerrors.NewStoreError(lastErr, "create broadcast requests")
	}

	emailBloodType := requested.String()
	if emailBloodType == "" {
		emailBloodType = broadcastAnyBloodType
	}
	enqueueTask(ctx, srv.publisher, logger, &service.TaskEvent{
		Kind:       service.TaskBroadcast,
		SeekerID:   input.SeekerID,
		SeekerName: input.SeekerName,
		DonorIDs:   notified,
		BloodType:  emailBloodType,
		Location:   input.Location,
	})

	logger.Info("Broadcast sent",
		slog.Int("requests", len(result.Requests)),
		slog.Int("failed", len(result.FailedDonors)))

	return result, nil
}
