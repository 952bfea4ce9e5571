package repository

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// InventoryRepository defines the interface for hospital inventory operations.
type InventoryRepository interface {
	// CreateInventory persists a new inventory keyed by hospital ID.
	CreateInventory(ctx context.Context, inventory *entity.Inventory) error

	// FindInventory retrieves the inventory of one hospital.
	FindInventory(ctx context.Context, hospitalID string) (*entity.Inventory, error)

	// FindActiveInventories returns every inventory with status active.
	FindActiveInventories(ctx context.Context) ([]*entity.Inventory, error)

	// AdjustStock applies delta to one blood type, clamped at zero, and returns the new count.
	AdjustStock(ctx context.Context, hospitalID string, bloodType entity.BloodType, delta int) (int, error)

	// WatchActiveInventories subscribes to the active inventories.
	WatchActiveInventories(ctx context.Context, listener Listener[*entity.Inventory]) (Unsubscribe, error)
}
