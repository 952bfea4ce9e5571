package repository

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// CampRepository defines the interface for donation camp operations.
type CampRepository interface {
	// CreateCamp persists a new camp and assigns its ID.
	CreateCamp(ctx context.Context, camp *entity.DonationCamp) error

	// FindCampsByStatus returns the camps with the given status.
	FindCampsByStatus(ctx context.Context, status entity.CampStatus) ([]*entity.DonationCamp, error)

	// ArchiveCampsBefore archives non-archived camps dated strictly before cutoff (YYYY-MM-DD).
	ArchiveCampsBefore(ctx context.Context, cutoff string) (int, error)
}
