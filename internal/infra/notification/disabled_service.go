package notification

import (
	"context"

	"bloodlink/internal/domain/service"
)

// disabledService rejects every send so callers record the push as skipped.
type disabledService struct{}

func (disabledService) SendBatchNotification(_ context.Context, tokens []string, _, _ string, _ map[string]string) (successCount, failureCount int, invalidTokens []string, err error) {
	return 0, len(tokens), nil, service.ErrDeliveryDisabled
}
