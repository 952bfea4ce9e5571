package entity

import (
	"cmp"
	"slices"
	"time"
)

// RequestStatus is the state of a blood request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
	RequestArchived  RequestStatus = "archived"
	RequestClosed    RequestStatus = "closed"
)

//nolint:gochecknoglobals
var requestTransitions = transitionTable[RequestStatus]{
	RequestPending:  {RequestAccepted, RequestRejected, RequestCancelled, RequestClosed},
	RequestAccepted: {RequestCancelled, RequestArchived},
	RequestRejected: {RequestArchived},
}

// CanTransitionTo reports whether the request may move from s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return requestTransitions.allows(s, next)
}

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0
}

// BloodRequest is a seeker's request addressed to a single donor.
type BloodRequest struct {
	ID          string        `json:"id"`
	SeekerID    string        `json:"seeker_id"`
	SeekerName  string        `json:"seeker_name"`
	DonorID     string        `json:"donor_id"`
	DonorName   string        `json:"donor_name"`
	BloodType   BloodType     `json:"blood_type"`
	Status      RequestStatus `json:"status"`
	DonorPhone  string        `json:"donor_phone,omitempty"` // Shared with the seeker on acceptance.
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

// Transition moves the request to next or returns a *TransitionError.
func (r *BloodRequest) Transition(next RequestStatus, at time.Time) error {
	if err := requestTransitions.check("blood request", r.Status, next); err != nil {
		return err
	}
	r.Status = next
	switch next {
	case RequestAccepted, RequestRejected:
		r.RespondedAt = &at
	default:
		r.UpdatedAt = &at
	}

	return nil
}

// SortRequestsNewestFirst orders requests by creation time, newest first.
func SortRequestsNewestFirst(requests []*BloodRequest) {
	slices.SortStableFunc(requests, func(a, b *BloodRequest) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
}
