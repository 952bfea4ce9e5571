package memory

import (
	"context"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"

	"github.com/google/uuid"
)

type deliveryLogRepository struct {
	logs *collection[*entity.DeliveryLog]
}

// NewDeliveryLogRepository returns the delivery log repository of the store.
func NewDeliveryLogRepository(store *Store) repository.DeliveryLogRepository {
	return &deliveryLogRepository{logs: store.deliveryLogs}
}

func (repo *deliveryLogRepository) BatchCreateDeliveryLogs(_ context.Context, logs []*entity.DeliveryLog) error {
	for _, log := range logs {
		if log.ID == uuid.Nil {
			log.ID = uuid.New()
		}
		if err := repo.logs.insert(log.ID.String(), log); err != nil {
			return err
		}
	}

	return nil
}

func (repo *deliveryLogRepository) FindLogsByTask(_ context.Context, taskID string) ([]*entity.DeliveryLog, error) {
	return repo.logs.filter(func(l *entity.DeliveryLog) bool {
		return l.TaskID == taskID
	})
}
