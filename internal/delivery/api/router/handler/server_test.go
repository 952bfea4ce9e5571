package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bloodlink/config"
	apimiddleware "bloodlink/internal/delivery/api/middleware"
	"bloodlink/internal/delivery/api/router"
	"bloodlink/internal/delivery/api/router/handler"
	"bloodlink/internal/delivery/api/validator"
	"bloodlink/internal/delivery/middleware"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/infra/lock"
	"bloodlink/internal/infra/persistence/memory"
	"bloodlink/internal/infra/qrcode"
	"bloodlink/internal/infra/report"
	"bloodlink/internal/infra/session"
	mocks "bloodlink/internal/mocks/service"
	"bloodlink/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testServer is the API router over in-memory repositories.
type testServer struct {
	echo  *echo.Echo
	store *memory.Store
	hub   *session.Hub
}

// envelope mirrors response.SuccessResponse and response.ErrorResponse.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Email:   &config.EmailConfig{AppURL: "https://bloodlink.test/"},
		Booking: config.BookingConfig{SlotCapacity: 1},
		Intake: config.IntakeConfig{
			ReplyDelay:    time.Hour,
			NavigateDelay: time.Hour,
			SessionTTL:    time.Hour,
		},
		Scheduler: config.SchedulerConfig{CampArchiveGraceDays: 2},
	}

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	inventories := memory.NewInventoryRepository(store)
	watchlist := memory.NewWatchlistRepository(store)
	requests := memory.NewBloodRequestRepository(store)
	appointments := memory.NewAppointmentRepository(store)
	camps := memory.NewCampRepository(store)
	donations := memory.NewDonationRepository(store)
	devices := memory.NewDeviceRepository(store)

	publisher := mocks.NewMockTaskPublisher(t)
	publisher.EXPECT().PublishTask(mock.Anything, mock.Anything).Return(nil).Maybe()
	notifier := mocks.NewMockNotificationService(t)

	hub := session.NewHub(logger)
	inventoryUC := impl.NewInventoryService(impl.InventoryServiceParams{
		InventoryRepo: inventories, UserRepo: users, WatchlistRepo: watchlist, Logger: logger,
	})

	e := echo.New()
	e.Use(middleware.NewRequestIDMiddleware(logger).Process)
	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validator.New()

	router.NewRouter(router.RouterParams{
		UserHandler: handler.NewUserHandler(handler.UserHandlerParams{
			UserUC: impl.NewUserService(users, logger), Logger: logger,
		}),
		DeviceHandler: handler.NewDeviceHandler(handler.DeviceHandlerParams{
			DeviceUC: impl.NewDeviceService(devices), Logger: logger,
		}),
		InventoryHandler: handler.NewInventoryHandler(handler.InventoryHandlerParams{
			InventoryUC: inventoryUC, Logger: logger,
		}),
		WatchlistHandler: handler.NewWatchlistHandler(handler.WatchlistHandlerParams{
			InventoryUC: inventoryUC,
			MatcherUC: impl.NewMatcherService(impl.MatcherServiceParams{
				WatchlistRepo: watchlist, InventoryRepo: inventories, DeviceRepo: devices, Notifier: notifier, Logger: logger,
			}),
			Logger: logger,
		}),
		RequestHandler: handler.NewRequestHandler(handler.RequestHandlerParams{
			RequestUC: impl.NewRequestService(impl.RequestServiceParams{
				RequestRepo: requests, Publisher: publisher, Logger: logger,
			}),
			BroadcastUC: impl.NewBroadcastService(impl.BroadcastServiceParams{
				RequestRepo: requests, UserRepo: users, Publisher: publisher, Logger: logger,
			}),
			Logger: logger,
		}),
		AppointmentHandler: handler.NewAppointmentHandler(handler.AppointmentHandlerParams{
			AppointmentUC: impl.NewAppointmentService(impl.AppointmentServiceParams{
				AppointmentRepo: appointments, InventoryRepo: inventories, CampRepo: camps,
				Locker: lock.NewLocalLocker(), Config: cfg, Logger: logger,
			}),
			Logger: logger,
		}),
		DonationHandler: handler.NewDonationHandler(handler.DonationHandlerParams{
			DonationUC: impl.NewDonationService(impl.DonationServiceParams{
				AppointmentRepo: appointments, InventoryRepo: inventories, UserRepo: users, DonationRepo: donations,
				QRCodeService: qrcode.NewQRCodeService(128, "M"), Exporter: report.NewExcelExporter(), Logger: logger,
			}),
			Logger: logger,
		}),
		CampHandler: handler.NewCampHandler(impl.NewCampService(camps, cfg, logger)),
		ChatHandler: handler.NewChatHandler(handler.ChatHandlerParams{
			IntakeUC: impl.NewIntakeService(impl.IntakeServiceParams{
				Sessions:  session.NewSessionStore(hub),
				Navigator: session.NewNavigator(hub),
				Scheduler: service.NewTimerScheduler(),
				UserRepo:  users,
				Config:    cfg,
				Logger:    logger,
			}),
			Logger: logger,
		}),
	}).RegisterRoutes(e)

	return &testServer{echo: e, store: store, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	return s.doContext(t, context.Background(), method, path, body)
}

func (s *testServer) doContext(t *testing.T, ctx context.Context, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader).WithContext(ctx)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

// decode parses the response envelope and, when out is set, its data.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}

	return env
}

// errorCode returns the error code of a failed response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	env := decode(t, rec, nil)
	require.NotNil(t, env.Error, rec.Body.String())

	return env.Error.Code
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	env := decode(t, rec, &body)
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, env.Meta.RequestID)
}
