package entity

import "time"

// AppointmentStatus is the state of a donation appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
	AppointmentCompleted AppointmentStatus = "completed"
)

//nolint:gochecknoglobals
var appointmentTransitions = transitionTable[AppointmentStatus]{
	AppointmentScheduled: {AppointmentCancelled, AppointmentNoShow, AppointmentCompleted},
}

// CanTransitionTo reports whether the appointment may move from s to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	return appointmentTransitions.allows(s, next)
}

// VenueType distinguishes inventory-backed hospitals from event-backed camps.
type VenueType string

const (
	VenueHospital VenueType = "hospital"
	VenueCamp     VenueType = "camp"
)

// IsValid checks if the VenueType is a valid value.
func (v VenueType) IsValid() bool {
	return v == VenueHospital || v == VenueCamp
}

// Appointment is a donor's booking of a time slot at a venue.
type Appointment struct {
	ID                 string            `json:"id"`
	VenueID            string            `json:"venue_id"`
	VenueName          string            `json:"venue_name"`
	VenueType          VenueType         `json:"venue_type"`
	DonorID            string            `json:"donor_id"`
	DonorName          string            `json:"donor_name"`
	Date               string            `json:"date"` // YYYY-MM-DD
	TimeSlot           string            `json:"time_slot"`
	Status             AppointmentStatus `json:"status"`
	CollectedBloodType BloodType         `json:"collected_blood_type,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`
}

// Slot returns the capacity key of the appointment.
func (a *Appointment) Slot() Slot {
	return Slot{VenueID: a.VenueID, Date: a.Date, TimeSlot: a.TimeSlot}
}

// Transition moves the appointment to next or returns a *TransitionError.
func (a *Appointment) Transition(next AppointmentStatus, at time.Time) error {
	if err := appointmentTransitions.check("appointment", a.Status, next); err != nil {
		return err
	}
	a.Status = next
	if next == AppointmentCompleted {
		a.CompletedAt = &at
	} else {
		a.UpdatedAt = &at
	}

	return nil
}

// Slot is the (venue, date, time of day) tuple that bounds concurrent bookings.
type Slot struct {
	VenueID  string
	Date     string
	TimeSlot string
}

// Key returns a stable string form used for locking.
func (s Slot) Key() string {
	return s.VenueID + "|" + s.Date + "|" + s.TimeSlot
}
