package repository

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// DonationRepository defines the interface for the global donations log.
type DonationRepository interface {
	// AppendDonation adds an entry to the log and assigns its ID.
	AppendDonation(ctx context.Context, donation *entity.Donation) error

	// FindDonationsByVenue returns the donations collected at a venue.
	FindDonationsByVenue(ctx context.Context, venueID string) ([]*entity.Donation, error)
}
