package firestore

import (
	"context"
	"time"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

type deviceRepository struct {
	client *firestore.Client
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(client *firestore.Client) repository.DeviceRepository {
	return &deviceRepository{client: client}
}

func (repo *deviceRepository) devices() *firestore.CollectionRef {
	return repo.client.Collection(collectionDevices)
}

func (repo *deviceRepository) CreateDevice(ctx context.Context, device *entity.UserDevice) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	_, err := repo.devices().Doc(device.ID.String()).Create(ctx, fromDevice(device))

	return translate(err, "failed to create device")
}

func (repo *deviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	snap, err := repo.devices().Doc(id.String()).Get(ctx)
	if err != nil {
		return nil, translate(err, "failed to find device")
	}

	return toDevice(snap)
}

func (repo *deviceRepository) FindDevicesByUser(ctx context.Context, userID string) ([]*entity.UserDevice, error) {
	return queryAll(ctx, repo.devices().Where("userId", "==", userID), toDevice)
}

func (repo *deviceRepository) FindActiveDevicesByUser(ctx context.Context, userID string) ([]*entity.UserDevice, error) {
	q := repo.devices().Where("userId", "==", userID).Where("isActive", "==", true)

	return queryAll(ctx, q, toDevice)
}

func (repo *deviceRepository) UpdateDevice(ctx context.Context, id uuid.UUID, fcmToken string, permission entity.NotificationPermission) error {
	_, err := repo.devices().Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "fcmToken", Value: fcmToken},
		{Path: "permission", Value: string(permission)},
		{Path: "isActive", Value: true},
		{Path: "updatedAt", Value: time.Now()},
	})

	return translate(err, "failed to update device")
}

func (repo *deviceRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	_, err := repo.devices().Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: false},
		{Path: "updatedAt", Value: time.Now()},
	})

	return translate(err, "failed to delete device")
}
