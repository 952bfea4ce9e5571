package impl

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"bloodlink/config"
	"bloodlink/internal/domain/constants"
	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/geo"
	"bloodlink/internal/usecase"

	"github.com/paulmach/orb"
	"go.uber.org/fx"
)

// appointmentService implements the AppointmentUsecase interface.
type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
	inventoryRepo   repository.InventoryRepository
	campRepo        repository.CampRepository
	locker          service.SlotLocker
	slotCapacity    int
	logger          *slog.Logger
	now             func() time.Time
}

// AppointmentServiceParams holds dependencies for AppointmentService, injected by Fx.
type AppointmentServiceParams struct {
	fx.In

	AppointmentRepo repository.AppointmentRepository
	InventoryRepo   repository.InventoryRepository
	CampRepo        repository.CampRepository
	Locker          service.SlotLocker
	Config          *config.Config
	Logger          *slog.Logger
}

// NewAppointmentService is the constructor for appointmentService.
func NewAppointmentService(params AppointmentServiceParams) usecase.AppointmentUsecase {
	capacity := constants.DefaultSlotCapacity
	if params.Config != nil && params.Config.Booking.SlotCapacity > 0 {
		capacity = params.Config.Booking.SlotCapacity
	}

	return &appointmentService{
		appointmentRepo: params.AppointmentRepo,
		inventoryRepo:   params.InventoryRepo,
		campRepo:        params.CampRepo,
		locker:          params.Locker,
		slotCapacity:    capacity,
		logger:          params.Logger,
		now:             time.Now,
	}
}

func (srv *appointmentService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// BookAppointment counts the scheduled bookings of the slot and inserts only below capacity.
// The count and the insert run under the slot lock.
func (srv *appointmentService) BookAppointment(ctx context.Context, input *usecase.BookAppointmentInput) (*entity.Appointment, error) {
	if !input.VenueType.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown venue type " + string(input.VenueType))
	}
	if _, err := time.Parse(entity.DateLayout, input.Date); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("date must be YYYY-MM-DD")
	}

	appointment := &entity.Appointment{
		VenueID:   input.VenueID,
		VenueName: input.VenueName,
		VenueType: input.VenueType,
		DonorID:   input.DonorID,
		DonorName: input.DonorName,
		Date:      input.Date,
		TimeSlot:  input.TimeSlot,
		Status:    entity.AppointmentScheduled,
	}
	slot := appointment.Slot()

	unlock, err := srv.locker.Lock(ctx, slot.Key())
	if err != nil {
		srv.log(ctx).Error("Failed to lock slot", slog.String("slot", slot.Key()), slog.Any("error", err))

		return nil, domainerrors.NewStoreError(err, "lock slot")
	}
	defer unlock()

	booked, err := srv.appointmentRepo.CountScheduledInSlot(ctx, slot)
	if err != nil {
		return nil, storeError(err, nil, "count slot bookings")
	}
	if booked >= srv.slotCapacity {
		srv.log(ctx).Info("Slot is full", slog.String("slot", slot.Key()), slog.Int("booked", booked))

		return nil, domainerrors.ErrCapacityExceeded
	}

	appointment.CreatedAt = srv.now()
	if err := srv.appointmentRepo.CreateAppointment(ctx, appointment); err != nil {
		srv.log(ctx).Error("Failed to create appointment", slog.String("slot", slot.Key()), slog.Any("error", err))

		return nil, storeError(err, nil, "create appointment")
	}

	srv.log(ctx).Info("Appointment booked",
		slog.String("appointmentID", appointment.ID),
		slog.String("slot", slot.Key()),
		slog.Int("booked", booked+1))

	return appointment, nil
}

// CancelAppointment cancels a scheduled appointment
func (srv *appointmentService) CancelAppointment(ctx context.Context, id string) (*entity.Appointment, error) {
	return srv.transition(ctx, id, entity.AppointmentCancelled)
}

// MarkNoShow records that the donor did not attend
func (srv *appointmentService) MarkNoShow(ctx context.Context, id string) (*entity.Appointment, error) {
	return srv.transition(ctx, id, entity.AppointmentNoShow)
}

func (srv *appointmentService) transition(ctx context.Context, id string, next entity.AppointmentStatus) (*entity.Appointment, error) {
	appointment, err := srv.appointmentRepo.FindAppointmentByID(ctx, id)
	if err != nil {
		return nil, storeError(err, domainerrors.ErrAppointmentNotFound, id)
	}
	if err := appointment.Transition(next, srv.now()); err != nil {
		srv.log(ctx).Warn("Rejected appointment transition", slog.String("appointmentID", id), slog.Any("error", err))

		return nil, transitionError(err)
	}
	if err := srv.appointmentRepo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, storeError(err, domainerrors.ErrAppointmentNotFound, id)
	}

	return appointment, nil
}

// ListVenues merges active hospitals and upcoming camps, nearest first when origin is set
func (srv *appointmentService) ListVenues(ctx context.Context, origin *entity.Coordinate) ([]*entity.Venue, error) {
	inventories, err := srv.inventoryRepo.FindActiveInventories(ctx)
	if err != nil {
		return nil, storeError(err, nil, "find active inventories")
	}
	camps, err := srv.campRepo.FindCampsByStatus(ctx, entity.CampUpcoming)
	if err != nil {
		return nil, storeError(err, nil, "find upcoming camps")
	}

	venues := make([]*entity.Venue, 0, len(inventories)+len(camps))
	for _, inv := range inventories {
		venues = append(venues, &entity.Venue{
			ID:       inv.HospitalID,
			Type:     entity.VenueHospital,
			Name:     inv.HospitalName,
			Address:  inv.Address,
			Location: inv.Location,
		})
	}
	today := srv.now().Format(entity.DateLayout)
	for _, camp := range camps {
		if !camp.IsUpcoming(today) {
			continue
		}
		venues = append(venues, &entity.Venue{
			ID:       camp.ID,
			Type:     entity.VenueCamp,
			Name:     camp.DisplayName(),
			Address:  camp.Location,
			Location: camp.Coordinates,
		})
	}

	if origin == nil {
		return venues, nil
	}

	ranked := geo.SortByDistance(venues, origin.Point(), func(v *entity.Venue) (orb.Point, bool) {
		if v.Location == nil {
			return orb.Point{}, false
		}

		return v.Location.Point(), true
	})
	sorted := make([]*entity.Venue, 0, len(ranked))
	for _, r := range ranked {
		r.Item.DistanceKm = r.DistanceKm
		sorted = append(sorted, r.Item)
	}

	return sorted, nil
}

// ListDonorAppointments returns a donor's appointments, latest date first
func (srv *appointmentService) ListDonorAppointments(ctx context.Context, donorID string) ([]*entity.Appointment, error) {
	appointments, err := srv.appointmentRepo.FindAppointmentsByDonor(ctx, donorID, []entity.AppointmentStatus{
		entity.AppointmentScheduled,
		entity.AppointmentCompleted,
		entity.AppointmentCancelled,
	})
	if err != nil {
		return nil, storeError(err, nil, "find donor appointments")
	}

	slices.SortStableFunc(appointments, func(a, b *entity.Appointment) int {
		return cmp.Compare(b.Date, a.Date)
	})

	return appointments, nil
}

// ListVenueAppointments returns the appointments of a venue, earliest date first
func (srv *appointmentService) ListVenueAppointments(ctx context.Context, venueID string) ([]*entity.Appointment, error) {
	appointments, err := srv.appointmentRepo.FindAppointmentsByVenue(ctx, venueID)
	if err != nil {
		return nil, storeError(err, nil, "find venue appointments")
	}

	slices.SortStableFunc(appointments, func(a, b *entity.Appointment) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.TimeSlot, b.TimeSlot))
	})

	return appointments, nil
}
