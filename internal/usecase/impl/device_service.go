package impl

import (
	"context"
	"time"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrDeviceNotFound is returned when a device is not found
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDeviceUnauthorized is returned when a user tries to access a device they don't own
	ErrDeviceUnauthorized = errors.New("unauthorized to access this device")
)

type deviceService struct {
	deviceRepo repository.DeviceRepository
}

// NewDeviceService creates a new device service instance
func NewDeviceService(deviceRepo repository.DeviceRepository) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: deviceRepo,
	}
}

// RegisterDevice registers a new device or updates the token and permission of an existing one
func (s *deviceService) RegisterDevice(ctx context.Context, userID string, deviceInfo *usecase.DeviceInfo) (*entity.UserDevice, error) {
	permission := deviceInfo.Permission
	if permission == "" {
		permission = entity.PermissionDefault
	}

	devices, err := s.deviceRepo.FindDevicesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find devices by user")
	}

	// Look for existing device with same device_id
	for _, device := range devices {
		if device.DeviceID != deviceInfo.DeviceID {
			continue
		}
		if err := s.deviceRepo.UpdateDevice(ctx, device.ID, deviceInfo.FCMToken, permission); err != nil {
			return nil, errors.Wrap(err, "failed to update device")
		}
		updatedDevice, err := s.deviceRepo.FindDeviceByID(ctx, device.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find device by ID")
		}

		return updatedDevice, nil
	}

	now := time.Now()
	device := &entity.UserDevice{
		ID:         uuid.New(),
		UserID:     userID,
		FCMToken:   deviceInfo.FCMToken,
		DeviceID:   deviceInfo.DeviceID,
		Platform:   deviceInfo.Platform,
		Permission: permission,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.deviceRepo.CreateDevice(ctx, device); err != nil {
		return nil, errors.Wrap(err, "failed to create device")
	}

	return device, nil
}

// GetUserDevices retrieves all active devices for a user
func (s *deviceService) GetUserDevices(ctx context.Context, userID string) ([]*entity.UserDevice, error) {
	devices, err := s.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active devices by user")
	}

	return devices, nil
}

// DeactivateDevice deactivates a device (soft delete)
func (s *deviceService) DeactivateDevice(ctx context.Context, userID string, deviceID uuid.UUID) error {
	device, err := s.deviceRepo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDeviceNotFound
		}

		return errors.Wrap(err, "failed to find device by ID")
	}

	if device.UserID != userID {
		return ErrDeviceUnauthorized
	}

	if err := s.deviceRepo.DeleteDevice(ctx, deviceID); err != nil {
		return errors.Wrap(err, "failed to delete device")
	}

	return nil
}

// ResolvePermission folds the permission of every active device into one state
func (s *deviceService) ResolvePermission(ctx context.Context, userID string) (entity.NotificationPermission, error) {
	devices, err := s.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return entity.PermissionDefault, errors.Wrap(err, "failed to find active devices by user")
	}

	return entity.ResolvePermission(devices), nil
}
