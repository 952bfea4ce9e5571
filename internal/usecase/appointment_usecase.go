package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// BookAppointmentInput describes a slot booking.
type BookAppointmentInput struct {
	VenueID   string           `json:"venue_id" validate:"required"`
	VenueName string           `json:"venue_name"`
	VenueType entity.VenueType `json:"venue_type" validate:"required,oneof=hospital camp"`
	DonorID   string           `json:"donor_id" validate:"required"`
	DonorName string           `json:"donor_name"`
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot  string           `json:"time_slot" validate:"required"`
}

// AppointmentUsecase defines appointment booking and venue listing
type AppointmentUsecase interface {
	// BookAppointment reserves a slot if it still has capacity
	BookAppointment(ctx context.Context, input *BookAppointmentInput) (*entity.Appointment, error)

	// CancelAppointment cancels a scheduled appointment
	CancelAppointment(ctx context.Context, id string) (*entity.Appointment, error)

	// MarkNoShow records that the donor did not attend
	MarkNoShow(ctx context.Context, id string) (*entity.Appointment, error)

	// ListVenues merges active hospitals and upcoming camps, nearest first when origin is set
	ListVenues(ctx context.Context, origin *entity.Coordinate) ([]*entity.Venue, error)

	// ListDonorAppointments returns a donor's appointments, latest date first
	ListDonorAppointments(ctx context.Context, donorID string) ([]*entity.Appointment, error)

	// ListVenueAppointments returns the appointments of a venue, earliest date first
	ListVenueAppointments(ctx context.Context, venueID string) ([]*entity.Appointment, error)
}
