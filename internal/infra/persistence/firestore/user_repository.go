package firestore

import (
	"context"
	"time"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
)

type userRepository struct {
	client *firestore.Client
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(client *firestore.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func (repo *userRepository) users() *firestore.CollectionRef {
	return repo.client.Collection(collectionUsers)
}

// CreateUser persists a new profile keyed by UID.
func (repo *userRepository) CreateUser(ctx context.Context, user *entity.User) error {
	_, err := repo.users().Doc(user.UID).Create(ctx, fromUser(user))

	return translate(err, "failed to create user")
}

// FindUserByID retrieves a profile by UID.
func (repo *userRepository) FindUserByID(ctx context.Context, uid string) (*entity.User, error) {
	snap, err := repo.users().Doc(uid).Get(ctx)
	if err != nil {
		return nil, translate(err, "failed to find user")
	}

	return toUser(snap)
}

// FindUsersByIDs retrieves the profiles that exist among uids.
func (repo *userRepository) FindUsersByIDs(ctx context.Context, uids []string) ([]*entity.User, error) {
	if len(uids) == 0 {
		return []*entity.User{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(uids))
	for _, uid := range uids {
		refs = append(refs, repo.users().Doc(uid))
	}

	snaps, err := repo.client.GetAll(ctx, refs)
	if err != nil {
		return nil, translate(err, "failed to find users")
	}

	return decodeAll(snaps, toUser)
}

// SaveDonorProfile marks the user as a donor and stores the profile.
func (repo *userRepository) SaveDonorProfile(ctx context.Context, uid string, profile *entity.DonorProfile) error {
	_, err := repo.users().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "isDonor", Value: true},
		{Path: "donorProfile", Value: fromDonorProfile(profile)},
	})

	return translate(err, "failed to save donor profile")
}

// UpdateEligibility stores the result of an eligibility check.
func (repo *userRepository) UpdateEligibility(ctx context.Context, uid string, eligible bool, checkedAt time.Time) error {
	_, err := repo.users().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "isEligible", Value: eligible},
		{Path: "eligibilityCheckedAt", Value: checkedAt},
	})

	return translate(err, "failed to update eligibility")
}

// RecordDonation increments the donation counter server side and appends the record.
func (repo *userRepository) RecordDonation(ctx context.Context, uid string, record entity.DonationRecord, at time.Time) error {
	_, err := repo.users().Doc(uid).Update(ctx, []firestore.Update{
		{Path: "donorProfile.lastDonation", Value: at},
		{Path: "donorProfile.totalDonations", Value: firestore.Increment(1)},
		{Path: "donorProfile.donationHistory", Value: firestore.ArrayUnion(fromDonationRecord(record))},
	})

	return translate(err, "failed to record donation")
}

// FindEligibleDonors matches blood type and city exactly.
func (repo *userRepository) FindEligibleDonors(ctx context.Context, bloodType, city string) ([]*entity.User, error) {
	q := repo.users().
		Where("isDonor", "==", true).
		Where("isEligible", "==", true).
		Where("donorProfile.bloodType", "==", bloodType).
		Where("donorProfile.city", "==", city)

	return queryAll(ctx, q, toUser)
}

// FindDonors returns registered donors, optionally restricted to one blood type.
func (repo *userRepository) FindDonors(ctx context.Context, bloodType entity.BloodType) ([]*entity.User, error) {
	q := repo.users().Where("isDonor", "==", true)
	if bloodType != "" {
		q = q.Where("donorProfile.bloodType", "==", string(bloodType))
	}

	return queryAll(ctx, q, toUser)
}
