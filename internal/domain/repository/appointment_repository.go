package repository

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// AppointmentRepository defines the interface for appointment operations.
type AppointmentRepository interface {
	// CreateAppointment persists a new appointment and assigns its ID.
	CreateAppointment(ctx context.Context, appointment *entity.Appointment) error

	// FindAppointmentByID retrieves an appointment.
	FindAppointmentByID(ctx context.Context, id string) (*entity.Appointment, error)

	// UpdateAppointment merges the status fields of an appointment.
	UpdateAppointment(ctx context.Context, appointment *entity.Appointment) error

	// CountScheduledInSlot counts scheduled appointments sharing the slot.
	CountScheduledInSlot(ctx context.Context, slot entity.Slot) (int, error)

	// FindAppointmentsByDonor returns a donor's appointments whose status is one of statuses.
	FindAppointmentsByDonor(ctx context.Context, donorID string, statuses []entity.AppointmentStatus) ([]*entity.Appointment, error)

	// FindAppointmentsByVenue returns every appointment booked at a venue.
	FindAppointmentsByVenue(ctx context.Context, venueID string) ([]*entity.Appointment, error)
}
