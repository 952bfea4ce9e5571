package memory

import (
	"context"
	"slices"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"github.com/google/uuid"
)

type appointmentRepository struct {
	appointments *collection[*entity.Appointment]
}

// NewAppointmentRepository returns the appointment repository of the store.
func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{appointments: store.appointments}
}

func (repo *appointmentRepository) CreateAppointment(_ context.Context, appointment *entity.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}

	return repo.appointments.insert(appointment.ID, appointment)
}

func (repo *appointmentRepository) FindAppointmentByID(_ context.Context, id string) (*entity.Appointment, error) {
	return repo.appointments.get(id)
}

func (repo *appointmentRepository) UpdateAppointment(_ context.Context, appointment *entity.Appointment) error {
	return repo.appointments.update(appointment.ID, func(a *entity.Appointment) error {
		a.Status = appointment.Status
		a.CollectedBloodType = appointment.CollectedBloodType
		a.CompletedAt = appointment.CompletedAt
		a.UpdatedAt = appointment.UpdatedAt

		return nil
	})
}

func (repo *appointmentRepository) CountScheduledInSlot(_ context.Context, slot entity.Slot) (int, error) {
	matches, err := repo.appointments.filter(func(a *entity.Appointment) bool {
		return a.Status == entity.AppointmentScheduled && a.Slot() == slot
	})

	return len(matches), err
}

func (repo *appointmentRepository) FindAppointmentsByDonor(_ context.Context, donorID string, statuses []entity.AppointmentStatus) ([]*entity.Appointment, error) {
	return repo.appointments.filter(func(a *entity.Appointment) bool {
		return a.DonorID == donorID && slices.Contains(statuses, a.Status)
	})
}

func (repo *appointmentRepository) FindAppointmentsByVenue(_ context.Context, venueID string) ([]*entity.Appointment, error) {
	return repo.appointments.filter(func(a *entity.Appointment) bool {
		return a.VenueID == venueID
	})
}
