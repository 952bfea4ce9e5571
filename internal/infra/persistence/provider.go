// Package persistence selects the repository implementations for the configured store.
package persistence

import (
	"log/slog"

	"bloodlink/config"
	"bloodlink/internal/domain/constants"
	"bloodlink/internal/domain/repository"
	fsstore "bloodlink/internal/infra/persistence/firestore"
	"bloodlink/internal/infra/persistence/memory"
	"bloodlink/internal/infra/persistence/postgres"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Params defines the required parameters
type Params struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Firestore *firestore.Client `optional:"true"`
	DB        *gorm.DB          `optional:"true"`
}

// Repositories is the set of repositories exposed to the usecases.
type Repositories struct {
	fx.Out

	Users        repository.UserRepository
	Inventories  repository.InventoryRepository
	Watchlist    repository.WatchlistRepository
	Requests     repository.BloodRequestRepository
	Appointments repository.AppointmentRepository
	Camps        repository.CampRepository
	Donations    repository.DonationRepository
	Devices      repository.DeviceRepository
	DeliveryLogs repository.DeliveryLogRepository
}

// New builds the repositories of the configured document store.
// Devices and delivery logs move to Postgres whenever it is configured.
func New(params Params) (Repositories, error) {
	var repos Repositories

	switch params.Config.Store.Provider {
	case constants.StoreProviderFirestore:
		if params.Firestore == nil {
			return repos, errors.New("firestore store selected but no client is available")
		}
		client := params.Firestore
		repos = Repositories{
			Users:        fsstore.NewUserRepository(client),
			Inventories:  fsstore.NewInventoryRepository(client, params.Logger),
			Watchlist:    fsstore.NewWatchlistRepository(client),
			Requests:     fsstore.NewBloodRequestRepository(client, params.Logger),
			Appointments: fsstore.NewAppointmentRepository(client),
			Camps:        fsstore.NewCampRepository(client),
			Donations:    fsstore.NewDonationRepository(client),
			Devices:      fsstore.NewDeviceRepository(client),
			DeliveryLogs: fsstore.NewDeliveryLogRepository(client),
		}
	case constants.StoreProviderMemory, "":
		store := memory.NewStore()
		repos = Repositories{
			Users:        memory.NewUserRepository(store),
			Inventories:  memory.NewInventoryRepository(store),
			Watchlist:    memory.NewWatchlistRepository(store),
			Requests:     memory.NewBloodRequestRepository(store),
			Appointments: memory.NewAppointmentRepository(store),
			Camps:        memory.NewCampRepository(store),
			Donations:    memory.NewDonationRepository(store),
			Devices:      memory.NewDeviceRepository(store),
			DeliveryLogs: memory.NewDeliveryLogRepository(store),
		}
	default:
		return repos, errors.Errorf("unsupported store provider: %s", params.Config.Store.Provider)
	}

	if params.DB != nil {
		repos.Devices = postgres.NewDeviceRepository(params.DB)
		repos.DeliveryLogs = postgres.NewDeliveryLogRepository(params.DB)
	}

	params.Logger.Info("Persistence initialized",
		slog.String("store", params.Config.Store.Provider),
		slog.Bool("postgres", params.DB != nil),
	)

	return repos, nil
}
