package memory

import (
	"context"
	"time"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"github.com/google/uuid"
)

type deviceRepository struct {
	devices *collection[*entity.UserDevice]
}

// NewDeviceRepository returns the device repository of the store.
func NewDeviceRepository(store *Store) repository.DeviceRepository {
	return &deviceRepository{devices: store.devices}
}

func (repo *deviceRepository) CreateDevice(_ context.Context, device *entity.UserDevice) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}

	return repo.devices.insert(device.ID.String(), device)
}

func (repo *deviceRepository) FindDeviceByID(_ context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	return repo.devices.get(id.String())
}

func (repo *deviceRepository) FindDevicesByUser(_ context.Context, userID string) ([]*entity.UserDevice, error) {
	return repo.devices.filter(func(d *entity.UserDevice) bool {
		return d.UserID == userID
	})
}

func (repo *deviceRepository) FindActiveDevicesByUser(_ context.Context, userID string) ([]*entity.UserDevice, error) {
	return repo.devices.filter(func(d *entity.UserDevice) bool {
		return d.UserID == userID && d.IsActive
	})
}

func (repo *deviceRepository) UpdateDevice(_ context.Context, id uuid.UUID, fcmToken string, permission entity.NotificationPermission) error {
	return repo.devices.update(id.String(), func(d *entity.UserDevice) error {
		d.FCMToken = fcmToken
		d.Permission = permission
		d.IsActive = true
		d.UpdatedAt = time.Now()

		return nil
	})
}

func (repo *deviceRepository) DeleteDevice(_ context.Context, id uuid.UUID) error {
	return repo.devices.update(id.String(), func(d *entity.UserDevice) error {
		d.IsActive = false
		d.UpdatedAt = time.Now()

		return nil
	})
}
