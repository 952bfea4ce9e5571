package model

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryLogModel is the GORM-specific struct for the 'delivery_logs' table.
// Each row is one email or push attempt made by the dispatcher.
type DeliveryLogModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	TaskID       string    `gorm:"type:varchar(64);not null;index"`
	Channel      string    `gorm:"type:varchar(16);not null"`
	Kind         string    `gorm:"type:varchar(32);not null"`
	Recipient    string    `gorm:"type:varchar(128);not null;index"`
	Status       string    `gorm:"type:varchar(16);not null;default:'sent'"`
	ErrorMessage string    `gorm:"type:text"`
	SentAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeliveryLogModel) TableName() string {
	return "delivery_logs"
}
