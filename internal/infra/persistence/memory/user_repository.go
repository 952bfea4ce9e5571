package memory

import (
	"context"
	"slices"
	"time"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
)

type userRepository struct {
	users *collection[*entity.User]
}

// NewUserRepository returns the user repository of the store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{users: store.users}
}

func (repo *userRepository) CreateUser(_ context.Context, user *entity.User) error {
	return repo.users.insert(user.UID, user)
}

func (repo *userRepository) FindUserByID(_ context.Context, uid string) (*entity.User, error) {
	return repo.users.get(uid)
}

func (repo *userRepository) FindUsersByIDs(_ context.Context, uids []string) ([]*entity.User, error) {
	return repo.users.filter(func(u *entity.User) bool {
		return slices.Contains(uids, u.UID)
	})
}

func (repo *userRepository) SaveDonorProfile(_ context.Context, uid string, profile *entity.DonorProfile) error {
	return repo.users.update(uid, func(u *entity.User) error {
		cp := *profile
		u.IsDonor = true
		u.DonorProfile = &cp

		return nil
	})
}

func (repo *userRepository) UpdateEligibility(_ context.Context, uid string, eligible bool, checkedAt time.Time) error {
	return repo.users.update(uid, func(u *entity.User) error {
		u.IsEligible = eligible
		u.EligibilityCheckedAt = &checkedAt

		return nil
	})
}

func (repo *userRepository) RecordDonation(_ context.Context, uid string, record entity.DonationRecord, at time.Time) error {
	return repo.users.update(uid, func(u *entity.User) error {
		if u.DonorProfile == nil {
			u.DonorProfile = &entity.DonorProfile{}
		}
		u.DonorProfile.RecordDonation(record, at)

		return nil
	})
}

func (repo *userRepository) FindEligibleDonors(_ context.Context, bloodType, city string) ([]*entity.User, error) {
	return repo.users.filter(func(u *entity.User) bool {
		return u.IsDonor && u.IsEligible && u.DonorProfile != nil &&
			string(u.DonorProfile.BloodType) == bloodType &&
			u.DonorProfile.City == city
	})
}

func (repo *userRepository) FindDonors(_ context.Context, bloodType entity.BloodType) ([]*entity.User, error) {
	return repo.users.filter(func(u *entity.User) bool {
		if !u.IsDonor || u.DonorProfile == nil {
			return false
		}

		return bloodType == "" || u.DonorProfile.BloodType == bloodType
	})
}
