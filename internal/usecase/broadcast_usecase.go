package usecase

import (
	"context"

	"bloodlink/internal/domain/entity"
)

// BroadcastInput is an emergency request sent to a list of donors.
type BroadcastInput struct {
	SeekerID   string   `json:"seeker_id" validate:"required"`
	SeekerName string   `json:"seeker_name"`
	DonorIDs   []string `json:"donor_ids" validate:"dive,required"`
	BloodType  string   `json:"blood_type" validate:"omitempty,bloodtype"`
	Location   string   `json:"location"`
}

// BroadcastResult reports which per-donor requests were written.
type BroadcastResult struct {
	Requests     []*entity.BloodRequest `json:"requests"`
	FailedDonors []string               `json:"failed_donors,omitempty"`
}

// BroadcastUsecase fans an emergency request out to many donors
type BroadcastUsecase interface {
	// Broadcast creates one request per donor and enqueues one email task
	Broadcast(ctx context.Context, input *BroadcastInput) (*BroadcastResult, error)
}
