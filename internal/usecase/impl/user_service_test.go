package impl

import (
	"context"
	"testing"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/infra/persistence/memory"
	"bloodlink/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUserService(t *testing.T) (usecase.UserUsecase, *testRepos) {
	t.Helper()

	repos := newTestRepos()
	srv := NewUserService(repos.users, newDiscardLogger())
	srv.(*userService).now = fixedClock

	return srv, repos
}

func TestUserService_CreateProfile(t *testing.T) {
	srv, _ := createTestUserService(t)
	ctx := context.Background()

	user, err := srv.CreateProfile(ctx, &usecase.CreateUserInput{UID: "u1", Name: "Asha", Email: "asha@example.com", Role: entity.RoleSeeker})
	require.NoError(t, err)
	assert.Equal(t, testNow, user.CreatedAt)
	assert.False(t, user.IsDonor)

	got, err := srv.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	_, err = srv.CreateProfile(ctx, &usecase.CreateUserInput{UID: "u1", Role: entity.RoleSeeker})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)

	_, err = srv.CreateProfile(ctx, &usecase.CreateUserInput{UID: "u2", Role: "admin"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = srv.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_RegisterDonor_NormalizesInput(t *testing.T) {
	srv, repos := createTestUserService(t)
	ctx := context.Background()
	repos.seedUser(t, "u1", "Maya", "", entity.RoleDonor)

	user, err := srv.RegisterDonor(ctx, "u1", &usecase.DonorRegistration{BloodType: " ab+ ", City: "  NEW YORK ", Phone: " 555 "})
	require.NoError(t, err)
	assert.True(t, user.IsDonor)
	assert.Equal(t, entity.BloodTypeABPos, user.DonorProfile.BloodType)
	assert.Equal(t, "New york", user.DonorProfile.City)
	assert.Equal(t, "555", user.DonorProfile.Phone)
	assert.Equal(t, 0, user.DonorProfile.TotalDonations)

	_, err = srv.RegisterDonor(ctx, "u1", &usecase.DonorRegistration{BloodType: "AB", City: "x", Phone: "1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBloodType)

	_, err = srv.RegisterDonor(ctx, "missing", &usecase.DonorRegistration{BloodType: "A+", City: "x", Phone: "1"})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_RegisterDonor_KeepsHistory(t *testing.T) {
	srv, repos := createTestUserService(t)
	ctx := context.Background()
	repos.seedDonor(t, "d1", "Ravi", entity.BloodTypeAPos, "Pune")
	require.NoError(t, repos.users.RecordDonation(ctx, "d1", entity.DonationRecord{VenueID: "h1"}, testNow))

	user, err := srv.RegisterDonor(ctx, "d1", &usecase.DonorRegistration{BloodType: "A+", City: "mumbai", Phone: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", user.DonorProfile.City)
	assert.Equal(t, 1, user.DonorProfile.TotalDonations)
	assert.Len(t, user.DonorProfile.DonationHistory, 1)
}

func TestUserService_UpdateEligibility(t *testing.T) {
	srv, repos := createTestUserService(t)
	ctx := context.Background()
	repos.seedUser(t, "u1", "Maya", "", entity.RoleDonor)

	require.NoError(t, srv.UpdateEligibility(ctx, "u1", true))

	user, err := repos.users.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, user.IsEligible)
	require.NotNil(t, user.EligibilityCheckedAt)

	err = srv.UpdateEligibility(ctx, "missing", true)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_SearchDonors(t *testing.T) {
	srv, repos := createTestUserService(t)
	ctx := context.Background()
	repos.seedDonor(t, "d1", "Ravi", entity.BloodTypeAPos, "Pune")
	repos.seedDonor(t, "d2", "Maya", entity.BloodTypeAPos, "Navi Mumbai")
	repos.seedDonor(t, "d3", "Ola", entity.BloodTypeONeg, "Mumbai")
	repos.seedUser(t, "s1", "Asha", "", entity.RoleSeeker)

	all, err := srv.SearchDonors(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	aPos, err := srv.SearchDonors(ctx, "a+", "")
	require.NoError(t, err)
	assert.Len(t, aPos, 2)

	mumbai, err := srv.SearchDonors(ctx, "", "  mUmBaI ")
	require.NoError(t, err)
	assert.Len(t, mumbai, 2)

	both, err := srv.SearchDonors(ctx, "O-", "mumbai")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "d3", both[0].UID)

	_, err = srv.SearchDonors(ctx, "O", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBloodType)

	repos.store.SetFault(memory.CollectionUsers, errors.New("unavailable"))
	_, err = srv.SearchDonors(ctx, "", "")
	assertStoreError(t, err)
}
