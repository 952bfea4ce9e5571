package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// CompleteAppointmentInput carries what staff record when a donation is collected.
type CompleteAppointmentInput struct {
	AppointmentID string           `json:"-"`
	VenueID       string           `json:"venue_id" validate:"required"`
	VenueName     string           `json:"venue_name"`
	VenueType     entity.VenueType `json:"venue_type" validate:"required,oneof=hospital camp"`
	DonorID       string           `json:"donor_id" validate:"required"`
	BloodType     string           `json:"blood_type" validate:"required,bloodtype"`
}

// CertificateInput is rendered on a donation certificate.
type CertificateInput struct {
	DonorName string `json:"donor_name" validate:"required"`
	VenueName string `json:"venue_name" validate:"required"`
	Date      string `json:"date" validate:"required"`
}

// DonationExport is a rendered donations spreadsheet.
type DonationExport struct {
	FileName string
	Content  []byte
}

// DonationUsecase defines donation completion and certification
type DonationUsecase interface {
	// CompleteAppointment applies the four completion effects in order, stopping at the first failure
	CompleteAppointment(ctx context.Context, input *CompleteAppointmentInput) (*entity.Appointment, error)

	// GenerateCertificate renders a non-persisted certificate with a QR code
	GenerateCertificate(ctx context.Context, input *CertificateInput) (*entity.Certificate, error)

	// ListDonationHistory returns a donor's donations, latest first
	ListDonationHistory(ctx context.Context, donorID string) ([]entity.DonationRecord, error)

	// ExportVenueDonations renders the donations collected at a venue as XLSX
	ExportVenueDonations(ctx context.Context, venueID string) (*DonationExport, error)
}
