package impl

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"bloodlink/config"
	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/usecase"
)

type campService struct {
	campRepo  repository.CampRepository
	graceDays int
	logger    *slog.Logger
	now       func() time.Time
}

// NewCampService creates a new camp service instance
func NewCampService(campRepo repository.CampRepository, cfg *config.Config, logger *slog.Logger) usecase.CampUsecase {
	return &campService{
		campRepo:  campRepo,
		graceDays: cfg.Scheduler.CampArchiveGraceDays,
		logger:    logger,
		now:       time.Now,
	}
}

func (srv *campService) CreateCamp(ctx context.Context, input *usecase.CreateCampInput) (*entity.DonationCamp, error) {
	if _, err := time.Parse(entity.DateLayout, input.Date); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("date must be YYYY-MM-DD")
	}
	if input.Coordinates != nil && !input.Coordinates.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("coordinates are out of range")
	}

	camp := &entity.DonationCamp{
		OrganizerID:   input.OrganizerID,
		OrganizerName: input.OrganizerName,
		CampName:      input.CampName,
		Date:          input.Date,
		Time:          input.Time,
		Location:      input.Location,
		Coordinates:   input.Coordinates,
		Description:   input.Description,
		Status:        entity.CampUpcoming,
		CreatedAt:     srv.now(),
	}
	if err := srv.campRepo.CreateCamp(ctx, camp); err != nil {
		return nil, storeError(err, nil, "create camp")
	}

	loggerFrom(ctx, srv.logger).Info("Camp created", slog.String("campID", camp.ID), slog.String("date", camp.Date))

	return camp, nil
}

// ListCamps splits non-archived camps around today: upcoming ascending, past descending.
func (srv *campService) ListCamps(ctx context.Context) (*usecase.CampList, error) {
	camps, err := srv.campRepo.FindCampsByStatus(ctx, entity.CampUpcoming)
	if err != nil {
		return nil, storeError(err, nil, "find camps")
	}

	today := srv.now().Format(entity.DateLayout)
	list := &usecase.CampList{
		Upcoming: make([]*entity.DonationCamp, 0, len(camps)),
		Past:     make([]*entity.DonationCamp, 0),
	}
	for _, camp := range camps {
		if camp.IsUpcoming(today) {
			list.Upcoming = append(list.Upcoming, camp)
		} else {
			list.Past = append(list.Past, camp)
		}
	}
	slices.SortStableFunc(list.Upcoming, func(a, b *entity.DonationCamp) int { return cmp.Compare(a.Date, b.Date) })
	slices.SortStableFunc(list.Past, func(a, b *entity.DonationCamp) int { return cmp.Compare(b.Date, a.Date) })

	return list, nil
}

// ArchiveStaleCamps archives camps dated before today minus the grace period
func (srv *campService) ArchiveStaleCamps(ctx context.Context) (int, error) {
	cutoff := srv.now().AddDate(0, 0, -srv.graceDays).Format(entity.DateLayout)

	archived, err := srv.campRepo.ArchiveCampsBefore(ctx, cutoff)
	if err != nil {
		return 0, storeError(err, nil, "archive camps")
	}

	loggerFrom(ctx, srv.logger).Info("Archived past camps", slog.String("cutoff", cutoff), slog.Int("count", archived))

	return archived, nil
}
