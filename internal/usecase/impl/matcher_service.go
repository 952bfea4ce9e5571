package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/usecase"

	"go.uber.org/fx"
)

const matchPushTitle = "Blood Type Match Found!"

// matcherService implements the MatcherUsecase interface.
type matcherService struct {
	watchlistRepo repository.WatchlistRepository
	inventoryRepo repository.InventoryRepository
	deviceRepo    repository.DeviceRepository
	notifier      service.NotificationService
	logger        *slog.Logger
}

// MatcherServiceParams holds dependencies for MatcherService, injected by Fx.
type MatcherServiceParams struct {
	fx.In

	WatchlistRepo repository.WatchlistRepository
	InventoryRepo repository.InventoryRepository
	DeviceRepo    repository.DeviceRepository
	Notifier      service.NotificationService
	Logger        *slog.Logger
}

// NewMatcherService is the constructor for matcherService.
func NewMatcherService(params MatcherServiceParams) usecase.MatcherUsecase {
	return &matcherService{
		watchlistRepo: params.WatchlistRepo,
		inventoryRepo: params.InventoryRepo,
		deviceRepo:    params.DeviceRepo,
		notifier:      params.Notifier,
		logger:        params.Logger,
	}
}

// matchSession holds the watchlist and permission state of one seeker, resolved when the session starts.
type matchSession struct {
	ctx        context.Context
	seekerID   string
	entries    []*entity.WatchlistEntry
	types      []entity.BloodType
	permission entity.NotificationPermission
	tokens     []string
	sink       usecase.MatchSink
	notifier   service.NotificationService
	logger     *slog.Logger

	mu       sync.Mutex
	prompted bool
}

// WatchMatches loads the seeker's active watchlist once and evaluates every added or modified inventory against it.
// A seeker without active entries gets no subscription.
func (srv *matcherService) WatchMatches(ctx context.Context, seekerID string, sink usecase.MatchSink) (repository.Unsubscribe, error) {
	entries, err := srv.watchlistRepo.FindActiveEntriesByUser(ctx, seekerID)
	if err != nil {
		return nil, storeError(err, nil, "find watchlist")
	}
	if len(entries) == 0 {
		return func() {}, nil
	}

	session := &matchSession{
		ctx:      ctx,
		seekerID: seekerID,
		entries:  entries,
		types:    entity.DistinctBloodTypes(entries),
		sink:     sink,
		notifier: srv.notifier,
		logger:   loggerFrom(ctx, srv.logger).With(slog.String("seekerID", seekerID)),
	}
	session.resolvePermission(srv.deviceRepo)

	unsubscribe, err := srv.inventoryRepo.WatchActiveInventories(ctx, session.onSnapshot)
	if err != nil {
		return nil, storeError(err, nil, "watch inventories")
	}

	session.logger.Debug("Match session started",
		slog.Int("entries", len(entries)),
		slog.String("permission", string(session.permission)))

	return unsubscribe, nil
}

// resolvePermission is called once per session. Lookup failures fall back to the default state.
func (s *matchSession) resolvePermission(deviceRepo repository.DeviceRepository) {
	s.permission = entity.PermissionDefault

	devices, err := deviceRepo.FindActiveDevicesByUser(s.ctx, s.seekerID)
	if err != nil {
		s.logger.Warn("Failed to load devices, using in-page alerts", slog.Any("error", err))

		return
	}

	s.permission = entity.ResolvePermission(devices)
	for _, d := range devices {
		if d.Permission == entity.PermissionGranted && d.FCMToken != "" {
			s.tokens = append(s.tokens, d.FCMToken)
		}
	}
}

func (s *matchSession) onSnapshot(snap repository.Snapshot[*entity.Inventory]) {
	for _, change := range snap.Changes {
		if change.Kind == repository.ChangeRemoved {
			continue
		}
		doc := change.Doc
		for _, bt := range s.types {
			if doc.Stock(bt) <= 0 {
				continue
			}
			for _, entry := range s.entries {
				if entry.Matches(bt, doc.Address) {
					s.notify(entry, doc, bt)
				}
			}
		}
	}
}

func (s *matchSession) notify(entry *entity.WatchlistEntry, doc *entity.Inventory, bt entity.BloodType) {
	if s.permission == entity.PermissionGranted {
		body := fmt.Sprintf("%s blood is now available in %s.", bt, doc.Address)
		data := map[string]string{
			"type":        "watchlist_match",
			"entry_id":    entry.ID,
			"hospital_id": doc.HospitalID,
			"blood_type":  bt.String(),
		}
		if _, failed, _, err := s.notifier.SendBatchNotification(s.ctx, s.tokens, matchPushTitle, body, data); err != nil || failed > 0 {
			s.logger.Warn("Match push not delivered",
				slog.String("entryID", entry.ID),
				slog.Int("failed", failed),
				slog.Any("error", err))
		}

		return
	}

	if s.permission == entity.PermissionDefault {
		s.mu.Lock()
		first := !s.prompted
		s.prompted = true
		s.mu.Unlock()
		if first {
			s.sink(usecase.MatchEvent{Type: usecase.MatchEventPermissionRequest})
		}
	}

	s.sink(usecase.MatchEvent{
		Type:         usecase.MatchEventAlert,
		EntryID:      entry.ID,
		HospitalID:   doc.HospitalID,
		HospitalName: doc.HospitalName,
		BloodType:    bt,
		Address:      doc.Address,
		Message:      fmt.Sprintf("New Match: %s available in %s!", bt, doc.Address),
	})
}
