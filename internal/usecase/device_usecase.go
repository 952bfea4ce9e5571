package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceInfo represents device information for registration
type DeviceInfo struct {
	FCMToken   string                        `json:"fcm_token"`
	DeviceID   string                        `json:"device_id" validate:"required"`
	Platform   string                        `json:"platform" validate:"omitempty,oneof=web ios android"`
	Permission entity.NotificationPermission `json:"permission" validate:"omitempty,oneof=default granted denied"`
}

// DeviceUsecase defines the interface for device management use cases
type DeviceUsecase interface {
	// RegisterDevice registers a new device or updates an existing one
	RegisterDevice(ctx context.Context, userID string, deviceInfo *DeviceInfo) (*entity.UserDevice, error)

	// GetUserDevices retrieves all active devices for a user
	GetUserDevices(ctx context.Context, userID string) ([]*entity.UserDevice, error)

	// DeactivateDevice deactivates a device (soft delete)
	DeactivateDevice(ctx context.Context, userID string, deviceID uuid.UUID) error

	// ResolvePermission returns the notification permission of the user across devices
	ResolvePermission(ctx context.Context, userID string) (entity.NotificationPermission, error)
}
