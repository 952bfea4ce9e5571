package impl

import (
	"context"
	"log/slog"

	deliverycontext "bloodlink/internal/delivery/context"
	"bloodlink/internal/domain/service"

	"github.com/google/uuid"
)

// enqueueTask hands a side effect to the task queue. Failures are logged and never returned.
func enqueueTask(ctx context.Context, publisher service.TaskPublisher, logger *slog.Logger, event *service.TaskEvent) {
	event.TaskID = uuid.NewString()
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)

	if err := publisher.PublishTask(ctx, event); err != nil {
		logger.Warn("Failed to enqueue notification task",
			slog.String("kind", string(event.Kind)),
			slog.String("taskID", event.TaskID),
			slog.String("bloodRequestID", event.BloodReqID),
			slog.Any("error", err))
	}
}
