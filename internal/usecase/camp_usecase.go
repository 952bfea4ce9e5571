package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// CreateCampInput describes a donation camp.
type CreateCampInput struct {
	OrganizerID   string             `json:"organizer_id" validate:"required"`
	OrganizerName string             `json:"organizer_name"`
	CampName      string             `json:"camp_name"`
	Date          string             `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string             `json:"time"`
	Location      string             `json:"location" validate:"required"`
	Coordinates   *entity.Coordinate `json:"coordinates,omitempty"`
	Description   string             `json:"description"`
}

// CampList splits camps around today.
type CampList struct {
	Upcoming []*entity.DonationCamp `json:"upcoming"`
	Past     []*entity.DonationCamp `json:"past"`
}

// CampUsecase defines donation camp management
type CampUsecase interface {
	// CreateCamp schedules a new camp
	CreateCamp(ctx context.Context, input *CreateCampInput) (*entity.DonationCamp, error)

	// ListCamps returns upcoming camps ascending and past camps descending
	ListCamps(ctx context.Context) (*CampList, error)

	// ArchiveStaleCamps archives camps dated before today minus the grace period
	ArchiveStaleCamps(ctx context.Context) (int, error)
}
