package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"bloodlink/config"
	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals
var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return testNow
}

// assertStoreError checks that err surfaces as a StoreError.
func assertStoreError(t *testing.T, err error) {
	t.Helper()

	var storeErr *domainerrors.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

// testRepos bundles the in-memory repositories the services under test share.
type testRepos struct {
	store        *memory.Store
	users        repository.UserRepository
	inventories  repository.InventoryRepository
	watchlist    repository.WatchlistRepository
	requests     repository.BloodRequestRepository
	appointments repository.AppointmentRepository
	camps        repository.CampRepository
	donations    repository.DonationRepository
	devices      repository.DeviceRepository
	deliveryLogs repository.DeliveryLogRepository
}

func newTestRepos() *testRepos {
	store := memory.NewStore()

	return &testRepos{
		store:        store,
		users:        memory.NewUserRepository(store),
		inventories:  memory.NewInventoryRepository(store),
		watchlist:    memory.NewWatchlistRepository(store),
		requests:     memory.NewBloodRequestRepository(store),
		appointments: memory.NewAppointmentRepository(store),
		camps:        memory.NewCampRepository(store),
		donations:    memory.NewDonationRepository(store),
		devices:      memory.NewDeviceRepository(store),
		deliveryLogs: memory.NewDeliveryLogRepository(store),
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		Email:   &config.EmailConfig{AppURL: "https://bloodlink.test/"},
		Booking: config.BookingConfig{SlotCapacity: 2},
		Intake: config.IntakeConfig{
			ReplyDelay:    time.Second,
			NavigateDelay: 3 * time.Second,
			SessionTTL:    30 * time.Minute,
		},
		Scheduler: config.SchedulerConfig{CampArchiveGraceDays: 1},
	}
}

// seedUser stores a plain user profile.
func (r *testRepos) seedUser(t *testing.T, uid, name, email string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{UID: uid, Name: name, Email: email, Role: role, CreatedAt: testNow}
	require.NoError(t, r.users.CreateUser(context.Background(), user))

	return user
}

// seedDonor stores an eligible donor with the given blood type and city.
func (r *testRepos) seedDonor(t *testing.T, uid, name string, bt entity.BloodType, city string) *entity.User {
	t.Helper()

	ctx := context.Background()
	user := r.seedUser(t, uid, name, uid+"@example.com", entity.RoleDonor)
	profile := &entity.DonorProfile{
		BloodType:       bt,
		City:            city,
		Phone:           "555-" + uid,
		DonationHistory: []entity.DonationRecord{},
		RegisteredAt:    testNow,
	}
	require.NoError(t, r.users.SaveDonorProfile(ctx, uid, profile))
	require.NoError(t, r.users.UpdateEligibility(ctx, uid, true, testNow))

	user.IsDonor = true
	user.IsEligible = true
	user.DonorProfile = profile

	return user
}

// seedInventory stores an active inventory with the given stock.
func (r *testRepos) seedInventory(t *testing.T, hospitalID, address string, location *entity.Coordinate, stock map[entity.BloodType]int) {
	t.Helper()

	inv := entity.NewInventory(hospitalID, hospitalID+" Hospital", address, location, testNow)
	for bt, count := range stock {
		inv.BloodStock[bt] = count
	}
	require.NoError(t, r.inventories.CreateInventory(context.Background(), inv))
}

// recordingScheduler captures delayed funcs so tests can run them in order.
type recordingScheduler struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []func()
}

func (s *recordingScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delays = append(s.delays, d)
	s.pending = append(s.pending, f)
}

// runAll runs pending funcs, including those scheduled while running, until none remain.
func (s *recordingScheduler) runAll() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()

			return
		}
		f := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		f()
	}
}

func (s *recordingScheduler) recordedDelays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]time.Duration(nil), s.delays...)
}

type navigation struct {
	sessionID string
	path      string
}

// recordingNavigator captures navigation requests.
type recordingNavigator struct {
	mu    sync.Mutex
	calls []navigation
}

func (n *recordingNavigator) NavigateTo(sessionID, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls = append(n.calls, navigation{sessionID: sessionID, path: path})
}

func (n *recordingNavigator) paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	paths := make([]string, 0, len(n.calls))
	for _, c := range n.calls {
		paths = append(paths, c.path)
	}

	return paths
}
