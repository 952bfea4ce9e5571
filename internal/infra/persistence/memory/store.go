package memory

import (
	"maps"
	"slices"
	"sync"

	"bloodlink/internal/domain/entity"
)

// Collection names, shared with the fault injection hook.
const (
	CollectionUsers        = "users"
	CollectionInventory    = "inventory"
	CollectionWatchlist    = "watchlist"
	CollectionRequests     = "requests"
	CollectionAppointments = "appointments"
	CollectionCamps        = "donationCamps"
	CollectionDonations    = "donations"
	CollectionDevices      = "devices"
	CollectionDeliveryLogs = "deliveryLogs"
)

// Store holds every collection of the in-memory document store.
type Store struct {
	faultMu sync.RWMutex
	faults  map[string]error

	users        *collection[*entity.User]
	inventories  *collection[*entity.Inventory]
	watchlist    *collection[*entity.WatchlistEntry]
	requests     *collection[*entity.BloodRequest]
	appointments *collection[*entity.Appointment]
	camps        *collection[*entity.DonationCamp]
	donations    *collection[*entity.Donation]
	devices      *collection[*entity.UserDevice]
	deliveryLogs *collection[*entity.DeliveryLog]
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{faults: make(map[string]error)}
	s.users = newCollection(CollectionUsers, cloneUser, s.faultFor)
	s.inventories = newCollection(CollectionInventory, cloneInventory, s.faultFor)
	s.watchlist = newCollection(CollectionWatchlist, clonePtr[entity.WatchlistEntry], s.faultFor)
	s.requests = newCollection(CollectionRequests, clonePtr[entity.BloodRequest], s.faultFor)
	s.appointments = newCollection(CollectionAppointments, clonePtr[entity.Appointment], s.faultFor)
	s.camps = newCollection(CollectionCamps, clonePtr[entity.DonationCamp], s.faultFor)
	s.donations = newCollection(CollectionDonations, clonePtr[entity.Donation], s.faultFor)
	s.devices = newCollection(CollectionDevices, clonePtr[entity.UserDevice], s.faultFor)
	s.deliveryLogs = newCollection(CollectionDeliveryLogs, clonePtr[entity.DeliveryLog], s.faultFor)

	return s
}

// SetFault makes every operation on the named collection fail with err until cleared with a nil err.
func (s *Store) SetFault(collectionName string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()

	if err == nil {
		delete(s.faults, collectionName)

		return
	}
	s.faults[collectionName] = err
}

func (s *Store) faultFor(collectionName string) error {
	s.faultMu.RLock()
	defer s.faultMu.RUnlock()

	return s.faults[collectionName]
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v

	return &cp
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.DonorProfile != nil {
		profile := *u.DonorProfile
		profile.DonationHistory = slices.Clone(u.DonorProfile.DonationHistory)
		cp.DonorProfile = &profile
	}

	return &cp
}

func cloneInventory(i *entity.Inventory) *entity.Inventory {
	if i == nil {
		return nil
	}
	cp := *i
	cp.BloodStock = maps.Clone(i.BloodStock)
	if i.Location != nil {
		loc := *i.Location
		cp.Location = &loc
	}

	return &cp
}
