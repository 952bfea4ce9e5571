package memory

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
)

type inventoryRepository struct {
	inventories *collection[*entity.Inventory]
}

// NewInventoryRepository returns the inventory repository of the store.
func NewInventoryRepository(store *Store) repository.InventoryRepository {
	return &inventoryRepository{inventories: store.inventories}
}

func isActiveInventory(i *entity.Inventory) bool {
	return i.Status == entity.InventoryActive
}

func (repo *inventoryRepository) CreateInventory(_ context.Context, inventory *entity.Inventory) error {
	return repo.inventories.insert(inventory.HospitalID, inventory)
}

func (repo *inventoryRepository) FindInventory(_ context.Context, hospitalID string) (*entity.Inventory, error) {
	return repo.inventories.get(hospitalID)
}

func (repo *inventoryRepository) FindActiveInventories(_ context.Context) ([]*entity.Inventory, error) {
	return repo.inventories.filter(isActiveInventory)
}

func (repo *inventoryRepository) AdjustStock(_ context.Context, hospitalID string, bloodType entity.BloodType, delta int) (int, error) {
	var result int
	err := repo.inventories.update(hospitalID, func(i *entity.Inventory) error {
		result = i.AdjustStock(bloodType, delta)

		return nil
	})

	return result, err
}

func (repo *inventoryRepository) WatchActiveInventories(ctx context.Context, listener repository.Listener[*entity.Inventory]) (repository.Unsubscribe, error) {
	return repo.inventories.watch(ctx, isActiveInventory, listener)
}
