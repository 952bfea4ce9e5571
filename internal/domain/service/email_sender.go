package service

import (
	"context"

	"github.com/pkg/errors"
)

// ErrDeliveryDisabled is returned by senders when their channel is not configured.
var ErrDeliveryDisabled = errors.New("delivery channel disabled")

// EmailTemplate names one of the transactional email templates.
type EmailTemplate string

const (
	TemplateBloodRequest    EmailTemplate = "blood_request"
	TemplateRequestAccepted EmailTemplate = "request_accepted"
)

// EmailSender sends one templated email.
type EmailSender interface {
	// Send delivers template to a single recipient described by params.
	Send(ctx context.Context, template EmailTemplate, params map[string]string) error
}

// DeliveryResult is the outcome of one delivery: sent when Err is nil.
type DeliveryResult struct {
	Recipient string
	Err       error
}

// Sent reports whether the delivery succeeded.
func (r DeliveryResult) Sent() bool {
	return r.Err == nil
}
