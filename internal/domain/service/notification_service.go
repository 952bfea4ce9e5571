package service

import (
	"context"
)

// MaxPushBatch is the largest token list a single multicast may carry.
const MaxPushBatch = 500

// NotificationService delivers push notifications to registered devices.
type NotificationService interface {
	// SendBatchNotification sends one notification to at most MaxPushBatch device tokens.
	// invalidTokens lists tokens the provider reported as unregistered; callers deactivate those devices.
	// A disabled service returns ErrDeliveryDisabled.
	SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)
}
