package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryChannel is the transport a side effect was delivered over.
type DeliveryChannel string

const (
	ChannelEmail DeliveryChannel = "email"
	ChannelPush  DeliveryChannel = "push"
)

// DeliveryStatus is the outcome of a single delivery attempt.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// DeliveryLog records one email or push attempt made by the dispatcher.
type DeliveryLog struct {
	ID           uuid.UUID       `json:"id"`            // The Global Unique Identifier (GUID) for the log entry.
	TaskID       string          `json:"task_id"`       // The task that triggered the delivery.
	Channel      DeliveryChannel `json:"channel"`       // email or push.
	Kind         string          `json:"kind"`          // Task kind, e.g. request.created.
	Recipient    string          `json:"recipient"`     // UID of the recipient.
	Status       DeliveryStatus  `json:"status"`        // sent, failed or skipped.
	ErrorMessage string          `json:"error_message"` // Error message if the delivery failed.
	SentAt       time.Time       `json:"sent_at"`       // Timestamp of the attempt.
}
