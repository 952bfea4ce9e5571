package service

import (
	"context"
)

// TaskKind identifies the side effect a task performs.
type TaskKind string

const (
	// TaskRequestCreated emails the donor a new blood request.
	TaskRequestCreated TaskKind = "request.created"
	// TaskRequestAccepted emails and pushes the acceptance to the seeker.
	TaskRequestAccepted TaskKind = "request.accepted"
	// TaskBroadcast emails every donor of a broadcast.
	TaskBroadcast TaskKind = "request.broadcast"
)

// TaskEvent is a best-effort side effect handed to the dispatcher.
type TaskEvent struct {
	RequestID  string   `json:"request_id,omitempty"` // For distributed tracing
	TaskID     string   `json:"task_id"`
	Kind       TaskKind `json:"kind"`
	BloodReqID string   `json:"blood_request_id,omitempty"`
	SeekerID   string   `json:"seeker_id,omitempty"`
	SeekerName string   `json:"seeker_name,omitempty"`
	DonorIDs   []string `json:"donor_ids,omitempty"`
	BloodType  string   `json:"blood_type,omitempty"`
	Location   string   `json:"location,omitempty"`
}

// TaskPublisher enqueues side-effect tasks. Callers log failures and never block on them.
type TaskPublisher interface {
	// PublishTask enqueues a task for asynchronous processing
	PublishTask(ctx context.Context, event *TaskEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// TaskHandler performs the side effects of a task.
type TaskHandler interface {
	HandleTask(ctx context.Context, event *TaskEvent) error
}
