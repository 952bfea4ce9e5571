package firestore

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type deliveryLogRepository struct {
	client *firestore.Client
}

// NewDeliveryLogRepository is the constructor for deliveryLogRepository.
func NewDeliveryLogRepository(client *firestore.Client) repository.DeliveryLogRepository {
	return &deliveryLogRepository{client: client}
}

func (repo *deliveryLogRepository) BatchCreateDeliveryLogs(ctx context.Context, logs []*entity.DeliveryLog) error {
	if len(logs) == 0 {
		return nil
	}

	writer := repo.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(logs))
	for _, log := range logs {
		if log.ID == uuid.Nil {
			log.ID = uuid.New()
		}
		ref := repo.client.Collection(collectionDeliveryLogs).Doc(log.ID.String())
		job, err := writer.Create(ref, fromDeliveryLog(log))
		if err != nil {
			writer.End()

			return errors.Wrap(err, "failed to enqueue delivery log")
		}
		jobs = append(jobs, job)
	}
	writer.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return translate(err, "failed to create delivery log")
		}
	}

	return nil
}

func (repo *deliveryLogRepository) FindLogsByTask(ctx context.Context, taskID string) ([]*entity.DeliveryLog, error) {
	q := repo.client.Collection(collectionDeliveryLogs).Where("taskId", "==", taskID)

	return queryAll(ctx, q, toDeliveryLog)
}
