package postgres

import (
	"context"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const deliveryLogBatchSize = 100

type deliveryLogRepository struct {
	db *gorm.DB
}

// NewDeliveryLogRepository is the constructor for deliveryLogRepository.
func NewDeliveryLogRepository(db *gorm.DB) repository.DeliveryLogRepository {
	return &deliveryLogRepository{
		db: db,
	}
}

// BatchCreateDeliveryLogs persists multiple delivery log entries in a batch.
func (repo *deliveryLogRepository) BatchCreateDeliveryLogs(ctx context.Context, logs []*entity.DeliveryLog) error {
	if len(logs) == 0 {
		return nil
	}

	logModels := make([]*model.DeliveryLogModel, 0, len(logs))
	for _, log := range logs {
		logModels = append(logModels, fromDeliveryLogDomain(log))
	}

	if err := repo.db.WithContext(ctx).CreateInBatches(logModels, deliveryLogBatchSize).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required delivery log information in batch")
		}

		return domainerrors.NewStoreError(err, "failed to batch create delivery logs")
	}

	// Update the entities with generated values
	for i, logM := range logModels {
		logs[i].ID = logM.ID
		logs[i].SentAt = logM.SentAt
	}

	return nil
}

// FindLogsByTask returns the entries written for a task, oldest first.
func (repo *deliveryLogRepository) FindLogsByTask(ctx context.Context, taskID string) ([]*entity.DeliveryLog, error) {
	var logModels []*model.DeliveryLogModel

	if err := repo.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("sent_at ASC").
		Find(&logModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find delivery logs by task")
	}

	logs := make([]*entity.DeliveryLog, 0, len(logModels))
	for _, logM := range logModels {
		logs = append(logs, toDeliveryLogDomain(logM))
	}

	return logs, nil
}

// --- Mapper Functions ---

func toDeliveryLogDomain(data *model.DeliveryLogModel) *entity.DeliveryLog {
	if data == nil {
		return nil
	}

	return &entity.DeliveryLog{
		ID:           data.ID,
		TaskID:       data.TaskID,
		Channel:      entity.DeliveryChannel(data.Channel),
		Kind:         data.Kind,
		Recipient:    data.Recipient,
		Status:       entity.DeliveryStatus(data.Status),
		ErrorMessage: data.ErrorMessage,
		SentAt:       data.SentAt,
	}
}

func fromDeliveryLogDomain(data *entity.DeliveryLog) *model.DeliveryLogModel {
	if data == nil {
		return nil
	}

	return &model.DeliveryLogModel{
		ID:           data.ID,
		TaskID:       data.TaskID,
		Channel:      string(data.Channel),
		Kind:         data.Kind,
		Recipient:    data.Recipient,
		Status:       string(data.Status),
		ErrorMessage: data.ErrorMessage,
		SentAt:       data.SentAt,
	}
}
