package firestore

import (
	"context"
	"log/slog"
	"time"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
)

type inventoryRepository struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewInventoryRepository is the constructor for inventoryRepository.
func NewInventoryRepository(client *firestore.Client, logger *slog.Logger) repository.InventoryRepository {
	return &inventoryRepository{client: client, logger: logger}
}

func (repo *inventoryRepository) inventories() *firestore.CollectionRef {
	return repo.client.Collection(collectionInventory)
}

func (repo *inventoryRepository) active() firestore.Query {
	return repo.inventories().Where("status", "==", string(entity.InventoryActive))
}

// CreateInventory persists a new inventory keyed by hospital ID.
func (repo *inventoryRepository) CreateInventory(ctx context.Context, inventory *entity.Inventory) error {
	_, err := repo.inventories().Doc(inventory.HospitalID).Create(ctx, fromInventory(inventory))

	return translate(err, "failed to create inventory")
}

// FindInventory retrieves the inventory of one hospital.
func (repo *inventoryRepository) FindInventory(ctx context.Context, hospitalID string) (*entity.Inventory, error) {
	snap, err := repo.inventories().Doc(hospitalID).Get(ctx)
	if err != nil {
		return nil, translate(err, "failed to find inventory")
	}

	return toInventory(snap)
}

// FindActiveInventories returns every inventory with status active.
func (repo *inventoryRepository) FindActiveInventories(ctx context.Context) ([]*entity.Inventory, error) {
	return queryAll(ctx, repo.active(), toInventory)
}

// AdjustStock runs the clamp inside a transaction so concurrent adjustments never lose an update.
func (repo *inventoryRepository) AdjustStock(ctx context.Context, hospitalID string, bloodType entity.BloodType, delta int) (int, error) {
	ref := repo.inventories().Doc(hospitalID)
	var result int

	err := repo.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		inventory, err := toInventory(snap)
		if err != nil {
			return err
		}
		result = entity.ClampStock(inventory.Stock(bloodType), delta)

		return tx.Update(ref, []firestore.Update{
			{FieldPath: firestore.FieldPath{"bloodStock", string(bloodType)}, Value: result},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		return 0, translate(err, "failed to adjust stock")
	}

	return result, nil
}

// WatchActiveInventories subscribes to the active inventories.
func (repo *inventoryRepository) WatchActiveInventories(ctx context.Context, listener repository.Listener[*entity.Inventory]) (repository.Unsubscribe, error) {
	return watchQuery(ctx, repo.logger, collectionInventory, repo.active(), toInventory, listener)
}
