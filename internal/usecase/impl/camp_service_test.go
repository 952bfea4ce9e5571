package impl

import (
	"context"
	"testing"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCampService(t *testing.T) (usecase.CampUsecase, *testRepos) {
	t.Helper()

	repos := newTestRepos()
	srv := NewCampService(repos.camps, newTestConfig(), newDiscardLogger())
	srv.(*campService).now = fixedClock

	return srv, repos
}

func campInput(date string) *usecase.CreateCampInput {
	return &usecase.CreateCampInput{
		OrganizerID:   "o1",
		OrganizerName: "Red Cross",
		Date:          date,
		Location:      "Town Hall, Pune",
	}
}

func TestCampService_CreateCamp(t *testing.T) {
	srv, _ := createTestCampService(t)
	ctx := context.Background()

	camp, err := srv.CreateCamp(ctx, campInput("2026-04-01"))
	require.NoError(t, err)
	assert.NotEmpty(t, camp.ID)
	assert.Equal(t, entity.CampUpcoming, camp.Status)
	assert.Equal(t, "Red Cross", camp.DisplayName())

	_, err = srv.CreateCamp(ctx, campInput("April 1st"))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	bad := campInput("2026-04-01")
	bad.Coordinates = &entity.Coordinate{Lat: 0, Lng: 200}
	_, err = srv.CreateCamp(ctx, bad)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCampService_ListCamps(t *testing.T) {
	srv, _ := createTestCampService(t)
	ctx := context.Background()

	for _, date := range []string{"2026-04-01", "2026-03-01", "2026-03-10", "2026-02-01", "2026-03-15"} {
		_, err := srv.CreateCamp(ctx, campInput(date))
		require.NoError(t, err)
	}

	list, err := srv.ListCamps(ctx)
	require.NoError(t, err)

	upcoming := make([]string, 0, len(list.Upcoming))
	for _, c := range list.Upcoming {
		upcoming = append(upcoming, c.Date)
	}
	past := make([]string, 0, len(list.Past))
	for _, c := range list.Past {
		past = append(past, c.Date)
	}
	assert.Equal(t, []string{"2026-03-10", "2026-03-15", "2026-04-01"}, upcoming)
	assert.Equal(t, []string{"2026-03-01", "2026-02-01"}, past)
}

func TestCampService_ArchiveStaleCamps(t *testing.T) {
	srv, repos := createTestCampService(t)
	ctx := context.Background()

	for _, date := range []string{"2026-03-08", "2026-03-09", "2026-03-10"} {
		_, err := srv.CreateCamp(ctx, campInput(date))
		require.NoError(t, err)
	}

	archived, err := srv.ArchiveStaleCamps(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, archived)

	remaining, err := repos.camps.FindCampsByStatus(ctx, entity.CampUpcoming)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	again, err := srv.ArchiveStaleCamps(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}
