package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPermission mirrors the browser/device tri-state permission.
type NotificationPermission string

const (
	PermissionDefault NotificationPermission = "default"
	PermissionGranted NotificationPermission = "granted"
	PermissionDenied  NotificationPermission = "denied"
)

// IsValid checks if the NotificationPermission is a valid value.
func (p NotificationPermission) IsValid() bool {
	switch p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return true
	default:
		return false
	}
}

// UserDevice represents a user's device registered for push notifications.
type UserDevice struct {
	ID         uuid.UUID              `json:"id"`         // The Global Unique Identifier (GUID) for the device.
	UserID     string                 `json:"user_id"`    // The UID of the user who owns this device.
	FCMToken   string                 `json:"fcm_token"`  // Firebase Cloud Messaging token for push notifications.
	DeviceID   string                 `json:"device_id"`  // Unique device identifier from the client.
	Platform   string                 `json:"platform"`   // Device platform (web, ios, android).
	Permission NotificationPermission `json:"permission"` // Last permission state reported by the client.
	IsActive   bool                   `json:"is_active"`  // Indicates if this device is active for notifications.
	CreatedAt  time.Time              `json:"created_at"` // Timestamp of when this device was registered.
	UpdatedAt  time.Time              `json:"updated_at"` // Timestamp of the last modification.
}

// ResolvePermission folds the permissions of a user's devices into one session-wide state:
// granted if any active device is granted, denied if every active device denied, default otherwise.
func ResolvePermission(devices []*UserDevice) NotificationPermission {
	active := 0
	denied := 0
	for _, d := range devices {
		if !d.IsActive {
			continue
		}
		active++
		switch d.Permission {
		case PermissionGranted:
			if d.FCMToken != "" {
				return PermissionGranted
			}
		case PermissionDenied:
			denied++
		case PermissionDefault:
		}
	}
	if active > 0 && denied == active {
		return PermissionDenied
	}

	return PermissionDefault
}
