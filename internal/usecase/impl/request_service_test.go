package impl

import (
	"context"
	"testing"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/infra/persistence/memory"
	mocks "bloodlink/internal/mocks/service"
	"bloodlink/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type requestServiceFixtures struct {
	service   usecase.RequestUsecase
	repos     *testRepos
	publisher *mocks.MockTaskPublisher
}

func createTestRequestService(t *testing.T) requestServiceFixtures {
	t.Helper()

	repos := newTestRepos()
	publisher := mocks.NewMockTaskPublisher(t)
	srv := NewRequestService(RequestServiceParams{
		RequestRepo: repos.requests,
		Publisher:   publisher,
		Logger:      newDiscardLogger(),
	})
	srv.(*requestService).now = fixedClock

	return requestServiceFixtures{service: srv, repos: repos, publisher: publisher}
}

func requestInput() *usecase.CreateRequestInput {
	return &usecase.CreateRequestInput{
		SeekerID:   "s1",
		SeekerName: "Asha",
		DonorID:    "d1",
		DonorName:  "Ravi",
		BloodType:  "o+",
		Location:   "Pune",
	}
}

// createPending stores a pending request through the service with a publisher that accepts anything.
func (fx requestServiceFixtures) createPending(t *testing.T) *entity.BloodRequest {
	t.Helper()

	fx.publisher.EXPECT().PublishTask(mock.Anything, mock.Anything).Return(nil).Once()
	request, err := fx.service.CreateRequest(context.Background(), requestInput())
	require.NoError(t, err)

	return request
}

func TestRequestService_CreateRequest(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()

	var published *service.TaskEvent
	fx.publisher.EXPECT().
		PublishTask(mock.Anything, mock.AnythingOfType("*service.TaskEvent")).
		Run(func(_ context.Context, event *service.TaskEvent) { published = event }).
		Return(nil)

	request, err := fx.service.CreateRequest(ctx, requestInput())
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, request.Status)
	assert.Equal(t, entity.BloodTypeOPos, request.BloodType)
	assert.Equal(t, testNow, request.CreatedAt)
	assert.Empty(t, request.DonorPhone)

	require.NotNil(t, published)
	assert.Equal(t, service.TaskRequestCreated, published.Kind)
	assert.Equal(t, request.ID, published.BloodReqID)
	assert.Equal(t, []string{"d1"}, published.DonorIDs)
	assert.Equal(t, "O+", published.BloodType)
	assert.Equal(t, "Pune", published.Location)
	assert.NotEmpty(t, published.TaskID)

	stored, err := fx.repos.requests.FindRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, stored.Status)
}

func TestRequestService_CreateRequest_DuplicatesAllowed(t *testing.T) {
	fx := createTestRequestService(t)

	first := fx.createPending(t)
	second := fx.createPending(t)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestRequestService_CreateRequest_PublishFailureDoesNotFail(t *testing.T) {
	fx := createTestRequestService(t)

	fx.publisher.EXPECT().
		PublishTask(mock.Anything, mock.Anything).
		Return(errors.New("topic not found"))

	request, err := fx.service.CreateRequest(context.Background(), requestInput())
	require.NoError(t, err)
	assert.NotEmpty(t, request.ID)
}

func TestRequestService_CreateRequest_Errors(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()

	input := requestInput()
	input.BloodType = "C+"
	_, err := fx.service.CreateRequest(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBloodType)

	fx.repos.store.SetFault(memory.CollectionRequests, errors.New("unavailable"))
	_, err = fx.service.CreateRequest(ctx, requestInput())
	assertStoreError(t, err)
}

func TestRequestService_RespondToRequest_Accept(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()
	request := fx.createPending(t)

	var published *service.TaskEvent
	fx.publisher.EXPECT().
		PublishTask(mock.Anything, mock.Anything).
		Run(func(_ context.Context, event *service.TaskEvent) { published = event }).
		Return(nil).
		Once()

	accepted, err := fx.service.RespondToRequest(ctx, request.ID, entity.RequestAccepted, "555-0100")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestAccepted, accepted.Status)
	assert.Equal(t, "555-0100", accepted.DonorPhone)
	require.NotNil(t, accepted.RespondedAt)

	require.NotNil(t, published)
	assert.Equal(t, service.TaskRequestAccepted, published.Kind)
	assert.Equal(t, request.ID, published.BloodReqID)
	assert.Equal(t, "s1", published.SeekerID)

	stored, err := fx.repos.requests.FindRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", stored.DonorPhone)
}

func TestRequestService_RespondToRequest_RejectKeepsPhonePrivate(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()
	request := fx.createPending(t)

	rejected, err := fx.service.RespondToRequest(ctx, request.ID, entity.RequestRejected, "555-0100")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, rejected.Status)
	assert.Empty(t, rejected.DonorPhone)

	stored, err := fx.repos.requests.FindRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.DonorPhone)
}

func TestRequestService_RespondToRequest_InvalidResponse(t *testing.T) {
	fx := createTestRequestService(t)
	request := fx.createPending(t)

	_, err := fx.service.RespondToRequest(context.Background(), request.ID, entity.RequestArchived, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestRequestService_TransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, fx requestServiceFixtures, id string)
		apply   func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error)
		want    entity.RequestStatus
		wantErr bool
	}{
		{
			name:  "pending can be cancelled",
			apply: func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) { return fx.service.CancelRequest(context.Background(), id) },
			want:  entity.RequestCancelled,
		},
		{
			name: "accepted can be cancelled",
			prepare: func(t *testing.T, fx requestServiceFixtures, id string) {
				fx.publisher.EXPECT().PublishTask(mock.Anything, mock.Anything).Return(nil).Once()
				_, err := fx.service.RespondToRequest(context.Background(), id, entity.RequestAccepted, "")
				require.NoError(t, err)
			},
			apply: func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) { return fx.service.CancelRequest(context.Background(), id) },
			want:  entity.RequestCancelled,
		},
		{
			name: "accepted can be archived",
			prepare: func(t *testing.T, fx requestServiceFixtures, id string) {
				fx.publisher.EXPECT().PublishTask(mock.Anything, mock.Anything).Return(nil).Once()
				_, err := fx.service.RespondToRequest(context.Background(), id, entity.RequestAccepted, "")
				require.NoError(t, err)
			},
			apply: func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) { return fx.service.ArchiveRequest(context.Background(), id) },
			want:  entity.RequestArchived,
		},
		{
			name: "rejected can be archived",
			prepare: func(t *testing.T, fx requestServiceFixtures, id string) {
				_, err := fx.service.RespondToRequest(context.Background(), id, entity.RequestRejected, "")
				require.NoError(t, err)
			},
			apply: func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) { return fx.service.ArchiveRequest(context.Background(), id) },
			want:  entity.RequestArchived,
		},
		{
			name:    "pending cannot be archived",
			apply:   func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) { return fx.service.ArchiveRequest(context.Background(), id) },
			want:    entity.RequestPending,
			wantErr: true,
		},
		{
			name: "rejected cannot be cancelled",
			prepare: func(t *testing.T, fx requestServiceFixtures, id string) {
				_, err := fx.service.RespondToRequest(context.Background(), id, entity.RequestRejected, "")
				require.NoError(t, err)
			},
			apply:   func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) { return fx.service.CancelRequest(context.Background(), id) },
			want:    entity.RequestRejected,
			wantErr: true,
		},
		{
			name: "cancelled cannot be cancelled again",
			prepare: func(t *testing.T, fx requestServiceFixtures, id string) {
				_, err := fx.service.CancelRequest(context.Background(), id)
				require.NoError(t, err)
			},
			apply:   func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) { return fx.service.CancelRequest(context.Background(), id) },
			want:    entity.RequestCancelled,
			wantErr: true,
		},
		{
			name: "archived cannot be answered",
			prepare: func(t *testing.T, fx requestServiceFixtures, id string) {
				_, err := fx.service.RespondToRequest(context.Background(), id, entity.RequestRejected, "")
				require.NoError(t, err)
				_, err = fx.service.ArchiveRequest(context.Background(), id)
				require.NoError(t, err)
			},
			apply: func(fx requestServiceFixtures, id string) (*entity.BloodRequest, error) {
				return fx.service.RespondToRequest(context.Background(), id, entity.RequestAccepted, "")
			},
			want:    entity.RequestArchived,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestRequestService(t)
			request := fx.createPending(t)
			if tt.prepare != nil {
				tt.prepare(t, fx, request.ID)
			}

			got, err := tt.apply(fx, request.ID)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Status)
			}

			stored, err := fx.repos.requests.FindRequestByID(context.Background(), request.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Status)
		})
	}
}

func TestRequestService_RespondToRequest_NotFound(t *testing.T) {
	fx := createTestRequestService(t)

	_, err := fx.service.RespondToRequest(context.Background(), "missing", entity.RequestAccepted, "")
	assert.ErrorIs(t, err, domainerrors.ErrRequestNotFound)
}

func TestRequestService_MarkAllFulfilled(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()

	first := fx.createPending(t)
	fx.createPending(t)
	answered := fx.createPending(t)
	_, err := fx.service.RespondToRequest(ctx, answered.ID, entity.RequestRejected, "")
	require.NoError(t, err)

	closed, err := fx.service.MarkAllFulfilled(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	stored, err := fx.repos.requests.FindRequestByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestClosed, stored.Status)

	rejected, err := fx.repos.requests.FindRequestByID(ctx, answered.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestRejected, rejected.Status)

	again, err := fx.service.MarkAllFulfilled(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestRequestService_MarkAllFulfilled_StoreFailure(t *testing.T) {
	fx := createTestRequestService(t)
	fx.createPending(t)
	fx.repos.store.SetFault(memory.CollectionRequests, errors.New("unavailable"))

	closed, err := fx.service.MarkAllFulfilled(context.Background(), "s1")
	assertStoreError(t, err)
	assert.Zero(t, closed)
}

func TestRequestService_WatchDonorInbox(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()

	older := fx.createPending(t)
	svc := fx.service.(*requestService)
	svc.now = func() time.Time { return testNow.Add(time.Minute) }
	newer := fx.createPending(t)

	var deliveries [][]*entity.BloodRequest
	unsubscribe, err := fx.service.WatchDonorInbox(ctx, "d1", func(requests []*entity.BloodRequest) {
		deliveries = append(deliveries, requests)
	})
	require.NoError(t, err)

	require.Len(t, deliveries, 1)
	require.Len(t, deliveries[0], 2)
	assert.Equal(t, newer.ID, deliveries[0][0].ID)
	assert.Equal(t, older.ID, deliveries[0][1].ID)

	_, err = fx.service.RespondToRequest(ctx, older.ID, entity.RequestRejected, "")
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	require.Len(t, deliveries[1], 1)
	assert.Equal(t, newer.ID, deliveries[1][0].ID)

	unsubscribe()
	unsubscribe()
	fx.createPending(t)
	assert.Len(t, deliveries, 2)
}

func TestRequestService_WatchSeekerRequests(t *testing.T) {
	fx := createTestRequestService(t)
	ctx := context.Background()
	request := fx.createPending(t)

	var latest []*entity.BloodRequest
	unsubscribe, err := fx.service.WatchSeekerRequests(ctx, "s1", func(requests []*entity.BloodRequest) {
		latest = requests
	})
	require.NoError(t, err)
	defer unsubscribe()

	_, err = fx.service.CancelRequest(ctx, request.ID)
	require.NoError(t, err)

	require.Len(t, latest, 1)
	assert.Equal(t, entity.RequestCancelled, latest[0].Status)
}
