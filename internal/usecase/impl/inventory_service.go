package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/geo"
	"bloodlink/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// inventoryService implements the InventoryUsecase interface.
type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	userRepo      repository.UserRepository
	watchlistRepo repository.WatchlistRepository
	logger        *slog.Logger
	now           func() time.Time
}

// InventoryServiceParams holds dependencies for InventoryService, injected by Fx.
type InventoryServiceParams struct {
	fx.In

	InventoryRepo repository.InventoryRepository
	UserRepo      repository.UserRepository
	WatchlistRepo repository.WatchlistRepository
	Logger        *slog.Logger
}

// NewInventoryService is the constructor for inventoryService.
func NewInventoryService(params InventoryServiceParams) usecase.InventoryUsecase {
	return &inventoryService{
		inventoryRepo: params.InventoryRepo,
		userRepo:      params.UserRepo,
		watchlistRepo: params.WatchlistRepo,
		logger:        params.Logger,
		now:           time.Now,
	}
}

func (srv *inventoryService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// RegisterHospital creates the hospital profile and then its inventory with every type at zero.
func (srv *inventoryService) RegisterHospital(ctx context.Context, input *usecase.RegisterHospitalInput) (*entity.Inventory, error) {
	if input.Location != nil && !input.Location.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("location is out of range")
	}

	now := srv.now()
	user := &entity.User{
		UID:       input.UID,
		Name:      input.HospitalName,
		Email:     input.Email,
		Role:      entity.RoleHospital,
		CreatedAt: now,
	}
	if err := srv.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, domainerrors.ErrUserAlreadyExists.WithDetails(input.UID)
		}

		return nil, storeError(err, nil, "create hospital user")
	}

	inventory := entity.NewInventory(input.UID, input.HospitalName, input.Address, input.Location, now)
	if err := srv.inventoryRepo.CreateInventory(ctx, inventory); err != nil {
		srv.log(ctx).Error("Hospital profile created without inventory", slog.String("hospitalID", input.UID), slog.Any("error", err))

		return nil, storeError(err, nil, "create inventory")
	}

	srv.log(ctx).Info("Hospital registered", slog.String("hospitalID", input.UID))

	return inventory, nil
}

// UpdateStock adjusts one blood type and returns the new count, never below zero
func (srv *inventoryService) UpdateStock(ctx context.Context, hospitalID string, bloodType entity.BloodType, delta int) (int, error) {
	if !bloodType.IsValid() {
		return 0, domainerrors.ErrInvalidBloodType.WithDetails(bloodType.String())
	}

	count, err := srv.inventoryRepo.AdjustStock(ctx, hospitalID, bloodType, delta)
	if err != nil {
		return 0, storeError(err, domainerrors.ErrInventoryNotFound, hospitalID)
	}

	srv.log(ctx).Debug("Stock adjusted",
		slog.String("hospitalID", hospitalID),
		slog.String("bloodType", bloodType.String()),
		slog.Int("delta", delta),
		slog.Int("count", count))

	return count, nil
}

// ListInventory returns the active inventories matching filter
func (srv *inventoryService) ListInventory(ctx context.Context, filter usecase.InventoryFilter) ([]*usecase.InventoryView, error) {
	inventories, err := srv.inventoryRepo.FindActiveInventories(ctx)
	if err != nil {
		return nil, storeError(err, nil, "find active inventories")
	}

	return filterInventories(inventories, filter), nil
}

// WatchInventory streams the active inventories matching filter
func (srv *inventoryService) WatchInventory(ctx context.Context, filter usecase.InventoryFilter, sink usecase.InventorySink) (repository.Unsubscribe, error) {
	unsubscribe, err := srv.inventoryRepo.WatchActiveInventories(ctx, func(snap repository.Snapshot[*entity.Inventory]) {
		sink(filterInventories(snap.Docs, filter))
	})
	if err != nil {
		return nil, storeError(err, nil, "watch inventories")
	}

	return unsubscribe, nil
}

// filterInventories keeps hospitals holding filter.BloodType whose address or name contains filter.Query.
func filterInventories(inventories []*entity.Inventory, filter usecase.InventoryFilter) []*usecase.InventoryView {
	matched := make([]*entity.Inventory, 0, len(inventories))
	for _, inv := range inventories {
		if filter.BloodType != "" && inv.Stock(filter.BloodType) <= 0 {
			continue
		}
		if !inv.MatchesText(strings.TrimSpace(filter.Query)) {
			continue
		}
		matched = append(matched, inv)
	}

	views := make([]*usecase.InventoryView, 0, len(matched))
	if filter.Origin == nil {
		for _, inv := range matched {
			views = append(views, &usecase.InventoryView{Inventory: inv})
		}

		return views
	}

	ranked := geo.SortByDistance(matched, filter.Origin.Point(), func(inv *entity.Inventory) (orb.Point, bool) {
		if inv.Location == nil {
			return orb.Point{}, false
		}

		return inv.Location.Point(), true
	})
	for _, r := range ranked {
		views = append(views, &usecase.InventoryView{Inventory: r.Item, DistanceKm: r.DistanceKm})
	}

	return views
}

// AddToWatchlist records a seeker's interest in a blood type
func (srv *inventoryService) AddToWatchlist(ctx context.Context, userID string, input *usecase.AddWatchInput) (*entity.WatchlistEntry, error) {
	bloodType, err := parseBloodType(input.BloodType)
	if err != nil {
		return nil, err
	}

	entry := &entity.WatchlistEntry{
		UserID:    userID,
		BloodType: bloodType,
		Location:  strings.TrimSpace(input.Location),
		Status:    entity.WatchlistActive,
		CreatedAt: srv.now(),
	}
	if err := srv.watchlistRepo.CreateEntry(ctx, entry); err != nil {
		return nil, storeError(err, nil, "create watchlist entry")
	}

	return entry, nil
}

// GetWatchlist returns a seeker's active entries
func (srv *inventoryService) GetWatchlist(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error) {
	entries, err := srv.watchlistRepo.FindActiveEntriesByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, nil, "find watchlist")
	}

	return entries, nil
}

// DeactivateWatchlist cancels an entry
func (srv *inventoryService) DeactivateWatchlist(ctx context.Context, id string) error {
	if err := srv.watchlistRepo.UpdateEntryStatus(ctx, id, entity.WatchlistCancelled); err != nil {
		return storeError(err, domainerrors.ErrWatchlistEntryNotFound, id)
	}

	return nil
}
