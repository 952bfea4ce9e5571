package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bloodlink/config"
	deliverycontext "bloodlink/internal/delivery/context"
	"bloodlink/internal/domain/constants"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskHandlerFunc adapts a func to service.TaskHandler.
type taskHandlerFunc func(ctx context.Context, event *service.TaskEvent) error

func (f taskHandlerFunc) HandleTask(ctx context.Context, event *service.TaskEvent) error {
	return f(ctx, event)
}

func newPushHandler(cfg *config.Config, fn taskHandlerFunc) *PushHandler {
	return NewPushHandler(PushHandlerParams{
		Config:  cfg,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Handler: fn,
	})
}

func pushBody(t *testing.T, event *service.TaskEvent, attributes map[string]string) string {
	t.Helper()

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(raw)
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "m-1"
	msg.Subscription = "projects/p/subscriptions/tasks"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func servePush(h *PushHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func TestPushHandler_HandlePush(t *testing.T) {
	tests := []struct {
		name       string
		body       func(t *testing.T) string
		handleErr  error
		wantStatus int
		wantCalled bool
	}{
		{
			name: "task handled",
			body: func(t *testing.T) string {
				return pushBody(t, &service.TaskEvent{TaskID: "t1", Kind: service.TaskRequestCreated}, nil)
			},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name: "unknown kind is acknowledged",
			body: func(t *testing.T) string {
				return pushBody(t, &service.TaskEvent{TaskID: "t2", Kind: "request.deleted"}, nil)
			},
			handleErr:  errors.Wrap(usecase.ErrUnknownTaskKind, "kind"),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name: "other failures are redelivered",
			body: func(t *testing.T) string {
				return pushBody(t, &service.TaskEvent{TaskID: "t3", Kind: service.TaskBroadcast}, nil)
			},
			handleErr:  errors.New("store unavailable"),
			wantStatus: http.StatusServiceUnavailable,
			wantCalled: true,
		},
		{
			name:       "data is not base64",
			body:       func(*testing.T) string { return `{"message":{"data":"***"}}` },
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "data is not a task",
			body: func(*testing.T) string {
				return `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("not json")) + `"}}`
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := newPushHandler(&config.Config{}, func(_ context.Context, _ *service.TaskEvent) error {
				called = true

				return tt.handleErr
			})

			rec := servePush(h, tt.body(t))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}

func TestPushHandler_RequestIDPropagation(t *testing.T) {
	var gotID, gotTaskID string
	var gotEvent *service.TaskEvent
	h := newPushHandler(&config.Config{}, func(ctx context.Context, event *service.TaskEvent) error {
		gotID = deliverycontext.GetRequestIDFromContext(ctx)
		gotTaskID = deliverycontext.GetTaskIDFromContext(ctx)
		gotEvent = event

		return nil
	})

	event := &service.TaskEvent{RequestID: "from-event", TaskID: "t1", Kind: service.TaskRequestAccepted, BloodReqID: "r1"}

	rec := servePush(h, pushBody(t, event, map[string]string{"request_id": "from-attributes"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-attributes", gotID)
	assert.Equal(t, "t1", gotTaskID)
	assert.Equal(t, "r1", gotEvent.BloodReqID)

	rec = servePush(h, pushBody(t, event, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-event", gotID)

	event.RequestID = ""
	rec = servePush(h, pushBody(t, event, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, gotID)
}

func TestPushHandler_TokenVerification(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
	cfg.Env.Env = "production"

	h := newPushHandler(cfg, func(context.Context, *service.TaskEvent) error {
		t.Fatal("task must not run without a valid token")

		return nil
	})
	require.NotNil(t, h.verify)

	rec := servePush(h, pushBody(t, &service.TaskEvent{Kind: service.TaskBroadcast}, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cfg.Env.Env = constants.EnvDevelop
	assert.Nil(t, newPushHandler(cfg, nil).verify)
}
