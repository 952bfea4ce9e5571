package impl

import (
	"context"
	"testing"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
	mocks "bloodlink/internal/mocks/service"
	"bloodlink/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type matcherServiceFixtures struct {
	service  usecase.MatcherUsecase
	repos    *testRepos
	notifier *mocks.MockNotificationService
	events   []usecase.MatchEvent
}

func createTestMatcherService(t *testing.T) *matcherServiceFixtures {
	t.Helper()

	repos := newTestRepos()
	notifier := mocks.NewMockNotificationService(t)
	srv := NewMatcherService(MatcherServiceParams{
		WatchlistRepo: repos.watchlist,
		InventoryRepo: repos.inventories,
		DeviceRepo:    repos.devices,
		Notifier:      notifier,
		Logger:        newDiscardLogger(),
	})

	return &matcherServiceFixtures{service: srv, repos: repos, notifier: notifier}
}

func (fx *matcherServiceFixtures) watch(t *testing.T, seekerID string) repository.Unsubscribe {
	t.Helper()

	unsubscribe, err := fx.service.WatchMatches(context.Background(), seekerID, func(event usecase.MatchEvent) {
		fx.events = append(fx.events, event)
	})
	require.NoError(t, err)
	t.Cleanup(unsubscribe)

	return unsubscribe
}

func (fx *matcherServiceFixtures) addEntry(t *testing.T, seekerID string, bt entity.BloodType, location string) *entity.WatchlistEntry {
	t.Helper()

	entry := &entity.WatchlistEntry{UserID: seekerID, BloodType: bt, Location: location, Status: entity.WatchlistActive, CreatedAt: testNow}
	require.NoError(t, fx.repos.watchlist.CreateEntry(context.Background(), entry))

	return entry
}

func (fx *matcherServiceFixtures) addDevice(t *testing.T, userID, token string, permission entity.NotificationPermission) {
	t.Helper()

	require.NoError(t, fx.repos.devices.CreateDevice(context.Background(), &entity.UserDevice{
		UserID:     userID,
		FCMToken:   token,
		DeviceID:   "device-" + token,
		Platform:   "web",
		Permission: permission,
		IsActive:   true,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}))
}

func (fx *matcherServiceFixtures) alerts() []usecase.MatchEvent {
	alerts := make([]usecase.MatchEvent, 0, len(fx.events))
	for _, e := range fx.events {
		if e.Type == usecase.MatchEventAlert {
			alerts = append(alerts, e)
		}
	}

	return alerts
}

func TestMatcherService_AlertsWithLocationFilter(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	entry := fx.addEntry(t, "s1", entity.BloodTypeOPos, "pune")
	fx.repos.seedInventory(t, "mumbai", "1 Marine Drive, Mumbai", nil, map[entity.BloodType]int{entity.BloodTypeOPos: 2})
	fx.repos.seedInventory(t, "pune", "2 FC Road, Pune", nil, nil)

	fx.watch(t, "s1")
	assert.Empty(t, fx.events)

	_, err := fx.repos.inventories.AdjustStock(ctx, "mumbai", entity.BloodTypeOPos, 1)
	require.NoError(t, err)
	assert.Empty(t, fx.events)

	_, err = fx.repos.inventories.AdjustStock(ctx, "pune", entity.BloodTypeOPos, 1)
	require.NoError(t, err)

	require.Len(t, fx.events, 2)
	assert.Equal(t, usecase.MatchEventPermissionRequest, fx.events[0].Type)
	alert := fx.events[1]
	assert.Equal(t, usecase.MatchEventAlert, alert.Type)
	assert.Equal(t, entry.ID, alert.EntryID)
	assert.Equal(t, "pune", alert.HospitalID)
	assert.Equal(t, entity.BloodTypeOPos, alert.BloodType)
	assert.Equal(t, "New Match: O+ available in 2 FC Road, Pune!", alert.Message)
}

func TestMatcherService_InitialSnapshotMatchesAndPromptsOnce(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	fx.addEntry(t, "s1", entity.BloodTypeANeg, "")
	fx.repos.seedInventory(t, "h1", "12 Main St, Pune", nil, map[entity.BloodType]int{entity.BloodTypeANeg: 1})
	fx.repos.seedInventory(t, "h2", "4 Park Ave, Delhi", nil, map[entity.BloodType]int{entity.BloodTypeANeg: 3})

	fx.watch(t, "s1")
	require.Len(t, fx.events, 3)
	assert.Equal(t, usecase.MatchEventPermissionRequest, fx.events[0].Type)
	assert.Len(t, fx.alerts(), 2)

	_, err := fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeANeg, 1)
	require.NoError(t, err)
	require.Len(t, fx.events, 4)
	assert.Equal(t, usecase.MatchEventAlert, fx.events[3].Type)
}

func TestMatcherService_OneAlertPerMatchingEntry(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	fx.addDevice(t, "s1", "", entity.PermissionDenied)
	fx.addEntry(t, "s1", entity.BloodTypeBPos, "")
	fx.addEntry(t, "s1", entity.BloodTypeBPos, "Pune")
	fx.addEntry(t, "s1", entity.BloodTypeBPos, "Delhi")
	fx.repos.seedInventory(t, "h1", "12 Main St, Pune", nil, nil)

	fx.watch(t, "s1")
	_, err := fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeBPos, 1)
	require.NoError(t, err)

	assert.Len(t, fx.events, 2)
	for _, e := range fx.events {
		assert.Equal(t, usecase.MatchEventAlert, e.Type)
	}
}

func TestMatcherService_GrantedPermissionPushes(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	entry := fx.addEntry(t, "s1", entity.BloodTypeOPos, "")
	fx.addDevice(t, "s1", "token-1", entity.PermissionGranted)
	fx.repos.seedInventory(t, "h1", "2 FC Road, Pune", nil, nil)

	fx.notifier.EXPECT().
		SendBatchNotification(mock.Anything, []string{"token-1"}, "Blood Type Match Found!",
			"O+ blood is now available in 2 FC Road, Pune.", mock.MatchedBy(func(data map[string]string) bool {
				return data["entry_id"] == entry.ID && data["hospital_id"] == "h1" && data["blood_type"] == "O+"
			})).
		Return(1, 0, nil, nil).
		Once()

	fx.watch(t, "s1")
	_, err := fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeOPos, 1)
	require.NoError(t, err)

	assert.Empty(t, fx.events)
}

func TestMatcherService_PushFailureIsNotFatal(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	fx.addEntry(t, "s1", entity.BloodTypeOPos, "")
	fx.addDevice(t, "s1", "token-1", entity.PermissionGranted)
	fx.repos.seedInventory(t, "h1", "2 FC Road, Pune", nil, nil)

	fx.notifier.EXPECT().
		SendBatchNotification(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, 0, nil, errors.New("fcm unavailable")).
		Twice()

	fx.watch(t, "s1")
	_, err := fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeOPos, 1)
	require.NoError(t, err)
	_, err = fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeOPos, 1)
	require.NoError(t, err)
}

func TestMatcherService_NoEntriesNoSubscription(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	fx.repos.seedInventory(t, "h1", "2 FC Road, Pune", nil, map[entity.BloodType]int{entity.BloodTypeOPos: 1})

	unsubscribe := fx.watch(t, "s1")
	require.NotNil(t, unsubscribe)

	fx.addEntry(t, "s1", entity.BloodTypeOPos, "")
	_, err := fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeOPos, 1)
	require.NoError(t, err)

	assert.Empty(t, fx.events)
}

func TestMatcherService_WatchlistLoadedOnce(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	fx.addDevice(t, "s1", "", entity.PermissionDenied)
	fx.addEntry(t, "s1", entity.BloodTypeOPos, "")
	fx.repos.seedInventory(t, "h1", "2 FC Road, Pune", nil, nil)

	fx.watch(t, "s1")
	fx.addEntry(t, "s1", entity.BloodTypeANeg, "")

	_, err := fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeANeg, 1)
	require.NoError(t, err)
	assert.Empty(t, fx.events)
}

func TestMatcherService_StopsAfterUnsubscribe(t *testing.T) {
	fx := createTestMatcherService(t)
	ctx := context.Background()
	fx.addDevice(t, "s1", "", entity.PermissionDenied)
	fx.addEntry(t, "s1", entity.BloodTypeOPos, "")
	fx.repos.seedInventory(t, "h1", "2 FC Road, Pune", nil, nil)

	unsubscribe := fx.watch(t, "s1")
	unsubscribe()

	_, err := fx.repos.inventories.AdjustStock(ctx, "h1", entity.BloodTypeOPos, 1)
	require.NoError(t, err)
	assert.Empty(t, fx.events)
}
