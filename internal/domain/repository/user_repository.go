package repository

import (
	"context"
	"time"

	"bloodlink/internal/domain/entity"
)

// UserRepository defines the interface for user profile operations.
type UserRepository interface {
	// CreateUser persists a new profile. Returns ErrAlreadyExists when the UID is taken.
	CreateUser(ctx context.Context, user *entity.User) error

	// FindUserByID retrieves a profile by UID.
	FindUserByID(ctx context.Context, uid string) (*entity.User, error)

	// FindUsersByIDs retrieves the profiles that exist among uids.
	FindUsersByIDs(ctx context.Context, uids []string) ([]*entity.User, error)

	// SaveDonorProfile marks the user as a donor and stores the profile.
	SaveDonorProfile(ctx context.Context, uid string, profile *entity.DonorProfile) error

	// UpdateEligibility stores the result of an eligibility check.
	UpdateEligibility(ctx context.Context, uid string, eligible bool, checkedAt time.Time) error

	// RecordDonation sets lastDonation, increments totalDonations and appends to donationHistory.
	RecordDonation(ctx context.Context, uid string, record entity.DonationRecord, at time.Time) error

	// FindEligibleDonors returns donors with isDonor, isEligible and exact blood type and city matches.
	FindEligibleDonors(ctx context.Context, bloodType, city string) ([]*entity.User, error)

	// FindDonors returns registered donors, optionally restricted to one blood type.
	FindDonors(ctx context.Context, bloodType entity.BloodType) ([]*entity.User, error)
}
