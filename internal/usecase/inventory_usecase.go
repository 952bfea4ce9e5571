package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
)

// RegisterHospitalInput creates a hospital account with an empty inventory.
type RegisterHospitalInput struct {
	UID          string             `json:"uid" validate:"required"`
	HospitalName string             `json:"hospital_name" validate:"required"`
	Email        string             `json:"email" validate:"omitempty,email"`
	Address      string             `json:"address" validate:"required"`
	Location     *entity.Coordinate `json:"location,omitempty"`
}

// InventoryFilter narrows the inventory listing.
type InventoryFilter struct {
	BloodType entity.BloodType   // Only hospitals with stock of this type, when set.
	Query     string             // Substring of address or hospital name.
	Origin    *entity.Coordinate // Sort nearest first, when set.
}

// InventoryView is an inventory with its distance from the requested origin.
type InventoryView struct {
	*entity.Inventory
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// InventorySink receives the filtered inventory list on every change.
type InventorySink func(views []*InventoryView)

// AddWatchInput is a seeker's standing request for a blood type.
type AddWatchInput struct {
	BloodType string `json:"blood_type" validate:"required,bloodtype"`
	Location  string `json:"location"`
}

// InventoryUsecase defines hospital stock and watchlist management
type InventoryUsecase interface {
	// RegisterHospital creates the hospital profile and its zeroed inventory
	RegisterHospital(ctx context.Context, input *RegisterHospitalInput) (*entity.Inventory, error)

	// UpdateStock adjusts one blood type and returns the new count, never below zero
	UpdateStock(ctx context.Context, hospitalID string, bloodType entity.BloodType, delta int) (int, error)

	// ListInventory returns the active inventories matching filter
	ListInventory(ctx context.Context, filter InventoryFilter) ([]*InventoryView, error)

	// WatchInventory streams the active inventories matching filter
	WatchInventory(ctx context.Context, filter InventoryFilter, sink InventorySink) (repository.Unsubscribe, error)

	// AddToWatchlist records a seeker's interest in a blood type
	AddToWatchlist(ctx context.Context, userID string, input *AddWatchInput) (*entity.WatchlistEntry, error)

	// GetWatchlist returns a seeker's active entries
	GetWatchlist(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error)

	// DeactivateWatchlist cancels an entry
	DeactivateWatchlist(ctx context.Context, id string) error
}
