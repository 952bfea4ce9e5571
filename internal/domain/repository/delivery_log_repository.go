package repository

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// DeliveryLogRepository stores the outcome of every email and push attempt.
type DeliveryLogRepository interface {
	// BatchCreateDeliveryLogs persists multiple log entries.
	BatchCreateDeliveryLogs(ctx context.Context, logs []*entity.DeliveryLog) error

	// FindLogsByTask returns the entries written for a task.
	FindLogsByTask(ctx context.Context, taskID string) ([]*entity.DeliveryLog, error)
}
