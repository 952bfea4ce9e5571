package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// CreateUserInput is the data needed to create a profile.
type CreateUserInput struct {
	UID   string      `json:"uid" validate:"required"`
	Name  string      `json:"name"`
	Email string      `json:"email" validate:"omitempty,email"`
	Role  entity.Role `json:"role" validate:"required,oneof=seeker donor hospital organizer"`
}

// DonorRegistration is the donor profile submitted by a user.
type DonorRegistration struct {
	BloodType string `json:"blood_type" validate:"required,bloodtype"`
	City      string `json:"city" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

// UserUsecase defines the interface for profile and donor registry use cases
type UserUsecase interface {
	// CreateProfile stores a new user profile
	CreateProfile(ctx context.Context, input *CreateUserInput) (*entity.User, error)

	// GetProfile retrieves a user profile
	GetProfile(ctx context.Context, uid string) (*entity.User, error)

	// RegisterDonor attaches a donor profile to an existing user
	RegisterDonor(ctx context.Context, uid string, input *DonorRegistration) (*entity.User, error)

	// UpdateEligibility records the outcome of the eligibility quiz
	UpdateEligibility(ctx context.Context, uid string, eligible bool) error

	// SearchDonors lists donors by optional blood type and case-insensitive city substring
	SearchDonors(ctx context.Context, bloodType, location string) ([]*entity.User, error)
}
