package entity

import (
	"strings"
	"time"
)

// WatchlistStatus is the lifecycle status of a watchlist entry.
type WatchlistStatus string

const (
	WatchlistActive    WatchlistStatus = "active"
	WatchlistCancelled WatchlistStatus = "cancelled"
)

// WatchlistEntry is a seeker's standing request to be alerted when a blood type becomes available.
type WatchlistEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	BloodType BloodType       `json:"blood_type"`
	Location  string          `json:"location,omitempty"` // Optional substring filter on the hospital address.
	Status    WatchlistStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Matches reports whether an inventory with available stock of bt at the given address satisfies the entry.
func (w *WatchlistEntry) Matches(bt BloodType, address string) bool {
	if w.BloodType != bt {
		return false
	}
	if w.Location == "" {
		return true
	}

	return strings.Contains(strings.ToLower(address), strings.ToLower(w.Location))
}

// DistinctBloodTypes returns the unique blood types across entries, in first-seen order.
func DistinctBloodTypes(entries []*WatchlistEntry) []BloodType {
	seen := make(map[BloodType]struct{}, len(entries))
	types := make([]BloodType, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.BloodType]; ok {
			continue
		}
		seen[e.BloodType] = struct{}{}
		types = append(types, e.BloodType)
	}

	return types
}
