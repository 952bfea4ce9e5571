package main

import (
	"context"
	"log/slog"
	"os"

	"bloodlink/config"
	"bloodlink/internal/delivery"
	"bloodlink/internal/delivery/api"
	"bloodlink/internal/delivery/api/router/handler"
	"bloodlink/internal/delivery/scheduler"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/infra/email"
	"bloodlink/internal/infra/firebase"
	"bloodlink/internal/infra/lock"
	logs "bloodlink/internal/infra/log"
	"bloodlink/internal/infra/notification"
	"bloodlink/internal/infra/persistence"
	"bloodlink/internal/infra/persistence/firestore"
	"bloodlink/internal/infra/persistence/postgres"
	"bloodlink/internal/infra/pubsub"
	"bloodlink/internal/infra/qrcode"
	"bloodlink/internal/infra/report"
	"bloodlink/internal/infra/session"
	"bloodlink/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		firebase.NewApp,
		firestore.NewClient,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			persistence.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		pubsub.Module,
		fx.Provide(
			lock.New,
			email.New,
			notification.New,
			newQRCodeService,
			report.NewExcelExporter,
			session.NewHub,
			session.NewSessionStore,
			session.NewNavigator,
			service.NewTimerScheduler,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewDeviceService,
			impl.NewCampService,
			impl.NewRequestService,
			impl.NewBroadcastService,
			impl.NewAppointmentService,
			impl.NewDonationService,
			impl.NewInventoryService,
			impl.NewMatcherService,
			impl.NewIntakeService,
			// The inline queue runs tasks in this process
			impl.NewDispatchService,
			impl.NewTaskHandler,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewDeviceHandler,
			handler.NewInventoryHandler,
			handler.NewWatchlistHandler,
			handler.NewRequestHandler,
			handler.NewAppointmentHandler,
			handler.NewDonationHandler,
			handler.NewCampHandler,
			handler.NewChatHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				scheduler.New,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
